package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/openclaw/clawchat/pkg/models"
)

// Client talks to the OpenClaw gateway API. All calls carry the configured
// timeout and the session cookie.
type Client struct {
	http *resty.Client
}

// NewClient creates a gateway client for the given API root.
func NewClient(baseURL, sessionToken string, timeout time.Duration) *Client {
	c := resty.New()
	c.SetBaseURL(strings.TrimRight(baseURL, "/"))
	c.SetTimeout(timeout)
	c.SetHeader("Accept", "application/json")
	if sessionToken != "" {
		c.SetCookie(&http.Cookie{Name: "session_token", Value: sessionToken})
	}
	return &Client{http: c}
}

// SendResult is the gateway's reply to a chat message.
type SendResult struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

type sessionsResponse struct {
	Sessions []models.Session `json:"sessions"`
}

type historyResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []models.Message `json:"messages"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

type personasResponse struct {
	Personas []models.Persona `json:"personas"`
}

// Status reports whether the gateway process is running.
type Status struct {
	Running   bool   `json:"running"`
	PID       int    `json:"pid,omitempty"`
	Provider  string `json:"provider,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
}

// ListSessions returns the user's sessions in recency order, as the
// gateway orders them.
func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var out sessionsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/chat/sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("list sessions", resp)
	}
	return out.Sessions, nil
}

// History returns the full message history for a session, oldest first.
func (c *Client) History(ctx context.Context, sessionID string) ([]models.Message, error) {
	var out historyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetPathParam("id", sessionID).
		Get("/chat/history/{id}")
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("load history", resp)
	}
	return out.Messages, nil
}

// SendMessage sends one user message. A nil sessionID starts a new
// session; the gateway assigns and returns the session id either way.
func (c *Client) SendMessage(ctx context.Context, sessionID *string, text string) (SendResult, error) {
	body := map[string]any{"message": text}
	if sessionID != nil {
		body["session_id"] = *sessionID
	}

	var out SendResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/message")
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to send message: %w", err)
	}
	if resp.IsError() {
		return SendResult{}, apiError("send message", resp)
	}
	if out.SessionID == "" {
		return SendResult{}, fmt.Errorf("send message: gateway returned no session id")
	}
	return out, nil
}

// DeleteSession removes a session and its messages on the gateway.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", sessionID).
		Delete("/chat/session/{id}")
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if resp.IsError() {
		return apiError("delete session", resp)
	}
	return nil
}

// Transcribe uploads an audio clip and returns the recognized text. An
// empty result is reported as an error so callers surface a notification
// instead of silently writing nothing into the input.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var out transcribeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("audio", filename, bytes.NewReader(audio)).
		SetResult(&out).
		Post("/chat/transcribe")
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	if resp.IsError() {
		return "", apiError("transcribe audio", resp)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("transcription returned no text")
	}
	return out.Text, nil
}

// Me returns the authenticated user. Best-effort caller contract: a
// failure here is logged, never surfaced.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var out models.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/auth/me")
	if err != nil {
		return models.User{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	if resp.IsError() {
		return models.User{}, apiError("fetch user", resp)
	}
	return out, nil
}

// ActivePersona returns the persona the gateway currently has applied,
// or a zero Persona if none is marked active.
func (c *Client) ActivePersona(ctx context.Context) (models.Persona, error) {
	var out personasResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/hub/personas")
	if err != nil {
		return models.Persona{}, fmt.Errorf("failed to fetch personas: %w", err)
	}
	if resp.IsError() {
		return models.Persona{}, apiError("fetch personas", resp)
	}
	for _, p := range out.Personas {
		if p.Active {
			return p, nil
		}
	}
	return models.Persona{}, nil
}

// GatewayStatus reports whether the gateway process is up.
func (c *Client) GatewayStatus(ctx context.Context) (Status, error) {
	var out Status
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/openclaw/status")
	if err != nil {
		return Status{}, fmt.Errorf("failed to fetch gateway status: %w", err)
	}
	if resp.IsError() {
		return Status{}, apiError("fetch gateway status", resp)
	}
	return out, nil
}

// apiError extracts the gateway's {"detail": ...} body when present.
func apiError(op string, resp *resty.Response) error {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Detail != "" {
		return fmt.Errorf("%s: %s", op, body.Detail)
	}
	return fmt.Errorf("%s: gateway returned %d", op, resp.StatusCode())
}
