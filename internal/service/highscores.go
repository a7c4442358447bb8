package service

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"climb-game-bot/internal/model"
)

// User-facing high score texts.
const (
	MsgReplyToGame = "Reply to a game message with /highscores."
	MsgNoScores    = "No scores yet."
)

// HighScoreEntries converts Telegram's high score rows, keeping their order.
func HighScoreEntries(scores []tele.GameHighScore) []model.HighScoreEntry {
	entries := make([]model.HighScoreEntry, 0, len(scores))
	for _, s := range scores {
		entries = append(entries, model.HighScoreEntry{
			Position:    s.Position,
			DisplayName: DisplayName(s.User),
			Score:       s.Score,
		})
	}
	return entries
}

// DisplayName picks the name shown in the high score list.
func DisplayName(u *tele.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("User%d", u.ID)
}

// FormatHighScores renders entries as "1. Name: score" lines.
// Ranks are 1-indexed in the given order; nothing is re-sorted.
func FormatHighScores(entries []model.HighScoreEntry) string {
	if len(entries) == 0 {
		return MsgNoScores
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d. %s: %d", i+1, e.DisplayName, e.Score)
	}
	return strings.Join(lines, "\n")
}
