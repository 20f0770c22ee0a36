// Package factcheck queries claim-review services for prior verdicts.
package factcheck

import (
	"context"
	"errors"

	"github.com/factchecker/newscred/internal/models"
)

var (
	// ErrNotConfigured is returned when the client has no API key.
	ErrNotConfigured = errors.New("fact check client not configured")
	// ErrStatus wraps non-success HTTP responses.
	ErrStatus = errors.New("unexpected status")
)

// Client defines the interface for claim verification services.
type Client interface {
	// Search returns prior reviews matching claim, or nil when the service
	// has none.
	Search(ctx context.Context, claim string) (*models.FactCheckResult, error)

	// Name returns the service name.
	Name() string

	// Available returns whether this client is properly configured.
	Available() bool
}
