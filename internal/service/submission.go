package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"

	"climb-game-bot/internal/model"
)

// maxExactFloat is the largest magnitude at which every integer is exact in a float64.
const maxExactFloat = 1 << 53

// DecodeBody decodes a score request body into a field map.
// Malformed JSON or a non-object body yields an empty map.
func DecodeBody(body []byte) map[string]any {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return map[string]any{}
	}
	return fields
}

// ParseSubmission validates and normalizes a decoded score request.
// user_id and score are checked first, then the message address.
func ParseSubmission(fields map[string]any) (model.ScoreSubmission, error) {
	userID, userOK := toInt64(fields["user_id"])
	score, scoreOK := toInt64(fields["score"])
	if !userOK || !scoreOK {
		return model.ScoreSubmission{}, ErrInvalidScore
	}

	sub := model.ScoreSubmission{
		UserID: userID,
		Score:  score,
	}
	if name, ok := fields["user_name"].(string); ok {
		sub.UserName = name
	}

	addr, ok := parseAddress(fields)
	if !ok {
		return model.ScoreSubmission{}, ErrMissingAddress
	}
	sub.Address = addr

	return sub, nil
}

// parseAddress picks the addressing mode. A non-empty inline_message_id
// always wins over chat_id/message_id.
func parseAddress(fields map[string]any) (model.Address, bool) {
	if inlineID, ok := fields["inline_message_id"].(string); ok && inlineID != "" {
		return model.InlineAddress{InlineMessageID: inlineID}, true
	}

	chatID, chatOK := toInt64(fields["chat_id"])
	messageID, msgOK := toInt64(fields["message_id"])
	if !chatOK || !msgOK {
		return nil, false
	}
	return model.ChatAddress{ChatID: chatID, MessageID: messageID}, true
}

// toInt64 coerces a JSON value to an integer. Integral numbers and base-10
// strings are accepted; fractions, null, booleans and composite values are not.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
			return 0, false
		}
		return int64(f), true
	case string:
		digits, ok := decimalDigits(n)
		if !ok {
			return 0, false
		}
		i, err := cast.ToInt64E(digits)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// decimalDigits normalizes a base-10 integer string. Leading zeros are
// dropped because cast honours base prefixes and would read "010" as octal.
// Anything other than an optional sign followed by digits is rejected.
func decimalDigits(s string) (string, bool) {
	s = strings.TrimSpace(s)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	if s == "" {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", false
		}
	}

	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	return sign + s, true
}
