package service

import (
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"climb-game-bot/internal/model"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestBuildLaunchURL(t *testing.T) {
	tests := []struct {
		name string
		lc   model.LaunchContext
		want map[string]string
	}{
		{
			name: "chat message",
			lc: model.LaunchContext{
				PublicURL: "http://8.222.151.218",
				UserID:    42,
				ChatID:    int64Ptr(-1001),
				MessageID: int64Ptr(9),
			},
			want: map[string]string{
				"api_base":          "http://8.222.151.218",
				"user_id":           "42",
				"inline_message_id": "",
				"chat_id":           "-1001",
				"message_id":        "9",
			},
		},
		{
			name: "inline message",
			lc: model.LaunchContext{
				PublicURL:       "https://games.example.com/",
				UserID:          42,
				InlineMessageID: "AgAAA+/=",
			},
			want: map[string]string{
				"api_base":          "https://games.example.com",
				"user_id":           "42",
				"inline_message_id": "AgAAA+/=",
			},
		},
		{
			name: "forum topic",
			lc: model.LaunchContext{
				PublicURL: "https://games.example.com",
				UserID:    1,
				ChatID:    int64Ptr(5),
				MessageID: int64Ptr(6),
				ThreadID:  intPtr(77),
			},
			want: map[string]string{
				"api_base":          "https://games.example.com",
				"user_id":           "1",
				"inline_message_id": "",
				"chat_id":           "5",
				"message_id":        "6",
				"thread_id":         "77",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := BuildLaunchURL(tt.lc)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, GamePath, u.Path)
			assert.True(t, strings.HasPrefix(raw, tt.want["api_base"]+GamePath+"?"))

			q := u.Query()
			assert.Len(t, q, len(tt.want))
			for k, v := range tt.want {
				assert.Equal(t, v, q.Get(k), "param %s", k)
			}
		})
	}
}

// TestBuildLaunchURLRoundTripProperty checks that every routing parameter
// survives query encoding unchanged.
func TestBuildLaunchURLRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lc := model.LaunchContext{
			PublicURL:       "https://" + rapid.StringMatching(`[a-z]{1,10}\.example\.com`).Draw(t, "host"),
			UserID:          rapid.Int64Range(1, 1<<40).Draw(t, "userID"),
			InlineMessageID: rapid.String().Draw(t, "inlineID"),
		}
		if rapid.Bool().Draw(t, "withChat") {
			lc.ChatID = int64Ptr(rapid.Int64().Draw(t, "chatID"))
			lc.MessageID = int64Ptr(rapid.Int64Range(1, 1<<31).Draw(t, "messageID"))
		}
		if rapid.Bool().Draw(t, "withThread") {
			lc.ThreadID = intPtr(rapid.IntRange(1, 1<<20).Draw(t, "threadID"))
		}

		u, err := url.Parse(BuildLaunchURL(lc))
		if err != nil {
			t.Fatalf("unparsable url: %v", err)
		}
		q := u.Query()

		if q.Get("api_base") != lc.PublicURL {
			t.Fatalf("api_base: want %q, got %q", lc.PublicURL, q.Get("api_base"))
		}
		if q.Get("user_id") != strconv.FormatInt(lc.UserID, 10) {
			t.Fatalf("user_id mismatch: %q", q.Get("user_id"))
		}
		if !q.Has("inline_message_id") || q.Get("inline_message_id") != lc.InlineMessageID {
			t.Fatalf("inline_message_id: want %q, got %q", lc.InlineMessageID, q.Get("inline_message_id"))
		}
		if q.Has("chat_id") != (lc.ChatID != nil) || q.Has("message_id") != (lc.MessageID != nil) {
			t.Fatalf("chat/message presence mismatch: %v", q)
		}
		if lc.ChatID != nil && q.Get("chat_id") != strconv.FormatInt(*lc.ChatID, 10) {
			t.Fatalf("chat_id mismatch: %q", q.Get("chat_id"))
		}
		if q.Has("thread_id") != (lc.ThreadID != nil) {
			t.Fatalf("thread_id presence mismatch: %v", q)
		}
	})
}
