// Package model defines the data models for the climb game bot.
package model

// Address identifies the game message a score belongs to.
// It is a closed variant: either InlineAddress or ChatAddress.
type Address interface {
	isAddress()
}

// InlineAddress addresses a game message sent via inline mode.
type InlineAddress struct {
	InlineMessageID string
}

// ChatAddress addresses a game message in a regular chat.
type ChatAddress struct {
	ChatID    int64
	MessageID int64
}

func (InlineAddress) isAddress() {}
func (ChatAddress) isAddress()   {}

// ScoreSubmission is a validated score reported by the mini-game page.
type ScoreSubmission struct {
	UserID   int64
	Score    int64
	UserName string // logging only
	Address  Address
}

// SetGameScoreRequest is the setGameScore payload sent to the Bot API.
// Exactly one of InlineMessageID or the ChatID/MessageID pair is set.
type SetGameScoreRequest struct {
	UserID          int64  `json:"user_id"`
	Score           int64  `json:"score"`
	Force           bool   `json:"force"`
	InlineMessageID string `json:"inline_message_id,omitempty"`
	ChatID          *int64 `json:"chat_id,omitempty"`
	MessageID       *int64 `json:"message_id,omitempty"`
}

// NewSetGameScoreRequest builds the outbound payload for a submission.
func NewSetGameScoreRequest(s ScoreSubmission, force bool) SetGameScoreRequest {
	req := SetGameScoreRequest{
		UserID: s.UserID,
		Score:  s.Score,
		Force:  force,
	}
	switch a := s.Address.(type) {
	case InlineAddress:
		req.InlineMessageID = a.InlineMessageID
	case ChatAddress:
		chatID, messageID := a.ChatID, a.MessageID
		req.ChatID = &chatID
		req.MessageID = &messageID
	}
	return req
}

// LaunchContext carries what the mini-game needs to report a score back.
type LaunchContext struct {
	PublicURL       string
	UserID          int64
	InlineMessageID string
	ChatID          *int64
	MessageID       *int64
	ThreadID        *int
}

// HighScoreEntry is one row of a game's high score table, in upstream order.
type HighScoreEntry struct {
	Position    int
	DisplayName string
	Score       int
}
