package remote

import (
	"fmt"
	"time"

	"github.com/dcraven/sift/internal/domain"
)

// Provider constants
const (
	ProviderHTTP = "http"
	ProviderMock = "mock"
)

// NewClient creates a remote client based on the provider name.
// Returns an error if the provider is unknown or the base URL is empty
// (except for mock).
func NewClient(provider, baseURL string, timeout time.Duration) (domain.RemoteClient, error) {
	switch provider {
	case ProviderHTTP:
		if baseURL == "" {
			return nil, fmt.Errorf("REMOTE_BASE_URL is required for HTTP provider")
		}
		return NewHTTPClient(baseURL, timeout), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown remote provider: %s (valid options: http, mock)", provider)
	}
}
