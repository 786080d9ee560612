// Package media removes externally hosted story media once the owning record
// is gone. Deletion is best-effort; the caller never rolls back on failure.
package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Deleter talks to the media host's destroy endpoint.
type Deleter struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewDeleter creates a deleter against the given destroy endpoint.
func NewDeleter(endpoint, apiKey string) *Deleter {
	return &Deleter{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Delete removes the media object identified by its public id.
func (d *Deleter) Delete(ctx context.Context, publicID string) error {
	form := url.Values{}
	form.Set("public_id", publicID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build media delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete media %s: %w", publicID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("media host returned status %d for %s", resp.StatusCode, publicID)
	}
	return nil
}
