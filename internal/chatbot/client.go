// Package chatbot relays storefront chat messages to the external chatbot
// service. The relay is deliberately forgiving: when the service is down,
// slow, or returns garbage, the user gets a canned apology instead of an
// error page.
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// FallbackReply is returned whenever the chatbot service cannot produce a
// usable response.
const FallbackReply = "Sorry, I'm having trouble processing your request. Please try again later."

// HTTPDoer is the outbound HTTP surface the relay needs.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Message is a single user message sent to the chatbot service.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Image   string `json:"image,omitempty"`
}

// ProductInfo is an optional product card attached to a chatbot reply.
type ProductInfo struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Reply is the chatbot service's answer.
type Reply struct {
	Response    string       `json:"response"`
	ProductInfo *ProductInfo `json:"product_info,omitempty"`
}

// Client relays messages to the chatbot service.
type Client struct {
	url    string
	http   HTTPDoer
	logger *slog.Logger
}

// NewClient creates a chatbot relay for the given chat endpoint URL.
func NewClient(url string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		url:    strings.TrimSpace(url),
		http:   doer,
		logger: logger,
	}
}

// Send relays a message and returns the chatbot's reply. It never returns an
// error: any failure along the way degrades to the fixed fallback reply and a
// warning log entry.
func (c *Client) Send(ctx context.Context, msg Message) Reply {
	reply, err := c.send(ctx, msg)
	if err != nil {
		c.logger.WarnContext(ctx, "chatbot unavailable, serving fallback",
			slog.String("error", err.Error()),
		)
		return Reply{Response: FallbackReply}
	}
	return reply
}

func (c *Client) send(ctx context.Context, msg Message) (Reply, error) {
	if msg.Type == "" {
		msg.Type = "text"
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return Reply{}, fmt.Errorf("marshal chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Reply{}, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return Reply{}, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Reply{}, fmt.Errorf("chat service returned status %d", resp.StatusCode)
	}

	var reply Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		return Reply{}, fmt.Errorf("decode chat response: %w", err)
	}
	if reply.Response == "" {
		return Reply{}, fmt.Errorf("chat response missing text")
	}
	return reply, nil
}
