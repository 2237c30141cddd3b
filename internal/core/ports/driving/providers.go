package driving

import (
	"context"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// ProviderService reports on the configured provider chains.
type ProviderService interface {
	// Status pings every backend of both chains in order.
	Status(ctx context.Context) []domain.BackendStatus
}
