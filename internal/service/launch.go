package service

import (
	"net/url"
	"strconv"
	"strings"

	"climb-game-bot/internal/model"
)

// GamePath is where the mini-game page is served under the public URL.
const GamePath = "/climbgame/"

// BuildLaunchURL builds the deep link that opens the mini-game.
// The query carries everything the page needs to post its score back:
// api_base, user_id, inline_message_id (possibly empty), and the
// chat_id/message_id pair and thread_id when known.
func BuildLaunchURL(lc model.LaunchContext) string {
	base := strings.TrimRight(lc.PublicURL, "/")

	q := url.Values{}
	q.Set("api_base", base)
	q.Set("user_id", strconv.FormatInt(lc.UserID, 10))
	q.Set("inline_message_id", lc.InlineMessageID)
	if lc.ChatID != nil && lc.MessageID != nil {
		q.Set("chat_id", strconv.FormatInt(*lc.ChatID, 10))
		q.Set("message_id", strconv.FormatInt(*lc.MessageID, 10))
	}
	if lc.ThreadID != nil {
		q.Set("thread_id", strconv.Itoa(*lc.ThreadID))
	}

	return base + GamePath + "?" + q.Encode()
}
