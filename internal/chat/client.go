// Package chat proxies visitor conversations to an OpenAI-compatible model
// gateway. The gateway credential never reaches the browser; the backend
// injects the profile system prompt and relays the streamed completion.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one turn of the conversation in the gateway's wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GatewayError reports a non-2xx gateway response. The status code decides
// the message shown to the visitor.
type GatewayError struct {
	Status int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("ai gateway returned status %d", e.Status)
}

func (e *GatewayError) RateLimited() bool     { return e.Status == http.StatusTooManyRequests }
func (e *GatewayError) PaymentRequired() bool { return e.Status == http.StatusPaymentRequired }

// UserMessage is the transcript entry shown for this failure.
func (e *GatewayError) UserMessage() string {
	switch {
	case e.RateLimited():
		return "Rate limits exceeded, please try again later."
	case e.PaymentRequired():
		return "Payment required, please add funds to the AI workspace."
	default:
		return "AI gateway error"
	}
}

// Client talks to the model gateway.
type Client struct {
	httpClient *http.Client
	gatewayURL string
	apiKey     string
	model      string
}

func NewClient(gatewayURL, apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// Enabled reports whether a gateway credential is configured. Without one the
// chat endpoint is switched off rather than failing per request.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// Stream sends the conversation, prefixed with the profile system prompt, and
// copies the gateway's server-sent event stream to w verbatim. Non-2xx
// responses come back as *GatewayError.
func (c *Client) Stream(ctx context.Context, messages []Message, w io.Writer) error {
	payload := completionRequest{
		Model:    c.model,
		Messages: append([]Message{{Role: "system", Content: systemPrompt}}, messages...),
		Stream:   true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call ai gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &GatewayError{Status: resp.StatusCode}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("relay chat stream: %w", err)
	}
	return nil
}
