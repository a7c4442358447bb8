package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climb-game-bot/internal/model"
	"climb-game-bot/internal/telegram"
)

// fakeSetter records setGameScore calls and replies with a canned result.
type fakeSetter struct {
	calls    []model.SetGameScoreRequest
	resp     *telegram.Response
	err      error
	deadline time.Time
}

func (f *fakeSetter) SetGameScore(ctx context.Context, req model.SetGameScoreRequest) (*telegram.Response, error) {
	f.calls = append(f.calls, req)
	f.deadline, _ = ctx.Deadline()
	return f.resp, f.err
}

func TestScoreService_Submit_Accepted(t *testing.T) {
	setter := &fakeSetter{resp: &telegram.Response{StatusCode: 200, Body: map[string]any{"ok": true, "result": true}}}
	svc := NewScoreService(setter, false, 0)

	sub := model.ScoreSubmission{UserID: 42, Score: 100, Address: model.ChatAddress{ChatID: 7, MessageID: 9}}
	resp, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	require.Len(t, setter.calls, 1)
	req := setter.calls[0]
	assert.Equal(t, int64(42), req.UserID)
	assert.Equal(t, int64(100), req.Score)
	assert.False(t, req.Force)
	require.NotNil(t, req.ChatID)
	require.NotNil(t, req.MessageID)
	assert.Equal(t, int64(7), *req.ChatID)
	assert.Equal(t, int64(9), *req.MessageID)
	assert.Empty(t, req.InlineMessageID)
}

func TestScoreService_Submit_ForcePolicy(t *testing.T) {
	setter := &fakeSetter{resp: &telegram.Response{StatusCode: 200, Body: map[string]any{"ok": true}}}
	svc := NewScoreService(setter, true, time.Second)

	_, err := svc.Submit(context.Background(), model.ScoreSubmission{
		UserID:  1,
		Score:   5,
		Address: model.InlineAddress{InlineMessageID: "abc"},
	})
	require.NoError(t, err)

	require.Len(t, setter.calls, 1)
	assert.True(t, setter.calls[0].Force)
	assert.Equal(t, "abc", setter.calls[0].InlineMessageID)
	assert.Nil(t, setter.calls[0].ChatID)
}

func TestScoreService_Submit_Rejected(t *testing.T) {
	body := map[string]any{"ok": false, "description": "Bad Request: BOT_SCORE_NOT_MODIFIED"}
	setter := &fakeSetter{resp: &telegram.Response{StatusCode: 400, Body: body}}
	svc := NewScoreService(setter, false, time.Second)

	resp, err := svc.Submit(context.Background(), model.ScoreSubmission{
		UserID:  1,
		Score:   5,
		Address: model.ChatAddress{ChatID: 1, MessageID: 2},
	})
	require.NoError(t, err, "a reply from Telegram is not a transport error")
	assert.False(t, resp.OK())
	assert.Equal(t, body, resp.Body)
}

func TestScoreService_Submit_TransportError(t *testing.T) {
	setter := &fakeSetter{err: &telegram.TransportError{Method: "setGameScore", Err: errors.New("connection refused")}}
	svc := NewScoreService(setter, false, time.Second)

	resp, err := svc.Submit(context.Background(), model.ScoreSubmission{
		UserID:  1,
		Score:   5,
		Address: model.ChatAddress{ChatID: 1, MessageID: 2},
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Len(t, setter.calls, 1, "no retry")
}

func TestScoreService_Submit_BoundedByTimeout(t *testing.T) {
	setter := &fakeSetter{resp: &telegram.Response{StatusCode: 200, Body: map[string]any{"ok": true}}}
	svc := NewScoreService(setter, false, 0)

	before := time.Now()
	_, err := svc.Submit(context.Background(), model.ScoreSubmission{
		UserID:  1,
		Score:   5,
		Address: model.ChatAddress{ChatID: 1, MessageID: 2},
	})
	require.NoError(t, err)

	require.False(t, setter.deadline.IsZero(), "call must carry a deadline")
	assert.WithinDuration(t, before.Add(DefaultScoreTimeout), setter.deadline, time.Second)
}
