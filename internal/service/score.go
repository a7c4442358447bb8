// Package service provides the business logic of the climb game bot.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"climb-game-bot/internal/metrics"
	"climb-game-bot/internal/model"
	"climb-game-bot/internal/telegram"
)

// DefaultScoreTimeout bounds a single setGameScore call.
const DefaultScoreTimeout = 10 * time.Second

// ScoreSetter submits game scores to Telegram.
type ScoreSetter interface {
	SetGameScore(ctx context.Context, req model.SetGameScoreRequest) (*telegram.Response, error)
}

// ScoreService relays validated score submissions to Telegram.
type ScoreService struct {
	setter  ScoreSetter
	force   bool
	timeout time.Duration
}

// NewScoreService creates a new ScoreService.
// force decides whether a lower score may overwrite a higher recorded one.
func NewScoreService(setter ScoreSetter, force bool, timeout time.Duration) *ScoreService {
	if timeout <= 0 {
		timeout = DefaultScoreTimeout
	}
	return &ScoreService{
		setter:  setter,
		force:   force,
		timeout: timeout,
	}
}

// Submit forwards a submission to setGameScore exactly once.
// A returned error means Telegram was not reached; otherwise the reply is
// returned whether or not Telegram accepted the score.
func (s *ScoreService) Submit(ctx context.Context, sub model.ScoreSubmission) (*telegram.Response, error) {
	req := model.NewSetGameScoreRequest(sub, s.force)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.setter.SetGameScore(ctx, req)
	metrics.UpstreamLatency.WithLabelValues("setGameScore").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ScoreSubmissions.WithLabelValues(metrics.OutcomeTransportError).Inc()
		log.Error().
			Err(err).
			Int64("user_id", sub.UserID).
			Int64("score", sub.Score).
			Msg("setGameScore request failed")
		return nil, err
	}

	outcome := metrics.OutcomeAccepted
	logEvent := log.Info()
	if !resp.OK() {
		outcome = metrics.OutcomeRejected
		logEvent = log.Warn()
	}
	metrics.ScoreSubmissions.WithLabelValues(outcome).Inc()

	logEvent.
		Int64("user_id", sub.UserID).
		Str("user_name", sub.UserName).
		Int64("score", sub.Score).
		Bool("force", s.force).
		Int("status", resp.StatusCode).
		Interface("telegram", resp.Body).
		Msg("setGameScore result")

	return resp, nil
}
