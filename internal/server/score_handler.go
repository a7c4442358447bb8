package server

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"climb-game-bot/internal/metrics"
	"climb-game-bot/internal/model"
	"climb-game-bot/internal/service"
	"climb-game-bot/internal/telegram"
)

// ScoreSubmitter relays a validated submission to Telegram.
type ScoreSubmitter interface {
	Submit(ctx context.Context, sub model.ScoreSubmission) (*telegram.Response, error)
}

// ScoreHandler serves POST /score.
type ScoreHandler struct {
	scores ScoreSubmitter
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scores ScoreSubmitter) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

// PostScore accepts a score from the mini-game and forwards it to setGameScore.
//
// Responses:
//   - 200 {"ok": true, "telegram": {...}}
//   - 400 {"ok": false, "error": "invalid user_id/score" | "missing message identifiers"}
//   - 502 {"ok": false, "error": "..."} when Telegram is unreachable
//   - 502 {"ok": false, "telegram": {...}} when Telegram rejects the score
func (h *ScoreHandler) PostScore(c *gin.Context) {
	lg := LoggerFrom(c)

	// An unreadable body is handled like a malformed one
	raw, _ := io.ReadAll(c.Request.Body)
	fields := service.DecodeBody(raw)

	lg.Info().Interface("request", fields).Msg("Score received")

	sub, err := service.ParseSubmission(fields)
	if err != nil {
		metrics.ScoreSubmissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.scores.Submit(c.Request.Context(), sub)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	ok := resp.OK()
	status := http.StatusOK
	if !ok {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"ok": ok, "telegram": resp.Body})
}

// fail writes a {"ok": false, "error": msg} response.
func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": false, "error": msg})
}
