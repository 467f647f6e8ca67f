package device

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bbernstein/onair-go/internal/config"
	"github.com/bbernstein/onair-go/pkg/vmix"
)

// Transport delivers one command to a switcher.
type Transport interface {
	Send(ctx context.Context, target config.DeviceTarget, cmd vmix.Command) error
}

// HTTPTransport calls the vMix function API over HTTP GET.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport whose requests give up after timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

// Send issues the request. Only transport success and the status code matter.
func (t *HTTPTransport) Send(ctx context.Context, target config.DeviceTarget, cmd vmix.Command) error {
	if target.IsZero() {
		return fmt.Errorf("vmix %s: no target address", cmd.Function)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cmd.URL(target.Address()), nil)
	if err != nil {
		return fmt.Errorf("vmix %s: %w", cmd.Function, err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("vmix %s: %w", cmd.Function, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vmix %s: unexpected status %d", cmd.Function, resp.StatusCode)
	}
	return nil
}
