// Package telegram provides a minimal raw client for Bot API methods whose
// replies must be relayed verbatim.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"climb-game-bot/internal/model"
)

// maxResponseBytes caps how much of a Bot API reply is read.
const maxResponseBytes = 1 << 20

// TransportError reports that the Bot API could not be reached at all.
// Its message never contains the request URL, and so never the token.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Response is a Bot API reply as received.
type Response struct {
	StatusCode int
	// Body is the decoded JSON reply, or {"raw": text} if it was not JSON.
	Body any
}

// OK reports whether the call succeeded: a 2xx status and a JSON object
// whose "ok" field is true.
func (r *Response) OK() bool {
	if r == nil || r.StatusCode < 200 || r.StatusCode > 299 {
		return false
	}
	obj, isObj := r.Body.(map[string]any)
	if !isObj {
		return false
	}
	ok, _ := obj["ok"].(bool)
	return ok
}

// Client calls Bot API methods over HTTPS.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Client. Every call is bounded by timeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetGameScore submits a score for a game message.
func (c *Client) SetGameScore(ctx context.Context, req model.SetGameScoreRequest) (*Response, error) {
	return c.Call(ctx, "setGameScore", req)
}

// Call posts payload as JSON to the given method and returns the raw reply.
// A non-nil error is always a *TransportError.
func (c *Client) Call(ctx context.Context, method string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Method: method, Err: fmt.Errorf("encode payload: %w", err)}
	}

	endpoint := c.baseURL + "/bot" + c.token + "/" + method
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Method: method, Err: errors.New("invalid api url")}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the full URL, token included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Method: method, Err: fmt.Errorf("read response: %w", err)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       decodeBody(raw),
	}, nil
}

// decodeBody parses a JSON reply, wrapping anything else as {"raw": text}.
func decodeBody(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return v
}

// RedactToken returns err with every occurrence of token in its message
// replaced by "***". Errors from telebot embed the request URL, and with it
// the token. The original error stays reachable through errors.Is and errors.As.
func RedactToken(err error, token string) error {
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{
		msg: strings.ReplaceAll(err.Error(), token, "***"),
		err: err,
	}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
