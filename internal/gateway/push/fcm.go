package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEndpoint = "https://fcm.googleapis.com/fcm/send"

// FCMGateway talks to Firebase Cloud Messaging over its HTTP API.
type FCMGateway struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

// NewFCMGateway creates a gateway against the given endpoint (the default FCM
// endpoint when empty) authenticated by the server key.
func NewFCMGateway(endpoint, serverKey string) *FCMGateway {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &FCMGateway{
		endpoint:  endpoint,
		serverKey: serverKey,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type fcmRequest struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

// Send pushes one message to one token. Unregistered tokens surface as
// ErrTokenInvalid; throttling and server errors surface as transient failures
// that the retrying decorator may retry.
func (g *FCMGateway) Send(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(fcmRequest{
		To:           token,
		Notification: fcmNotification{Title: title, Body: body},
	})
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+g.serverKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &transientError{status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("read push response: %w", err)
	}
	var out fcmResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode push response: %w", err)
	}
	if out.Failure > 0 && len(out.Results) > 0 {
		switch out.Results[0].Error {
		case "NotRegistered", "InvalidRegistration":
			return ErrTokenInvalid
		default:
			return fmt.Errorf("push rejected: %s", out.Results[0].Error)
		}
	}
	return nil
}
