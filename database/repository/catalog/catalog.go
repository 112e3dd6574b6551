package catalogRepo

import (
	"context"
	"errors"

	"glowbook/models"
)

var (
	// ErrServiceNotFound means no catalog entry matches the service id.
	ErrServiceNotFound = errors.New("service not found")
	// ErrProviderNotFound means no provider matches the given id.
	ErrProviderNotFound = errors.New("provider not found")
)

// CatalogRepository is the read model of the marketplace catalog that
// the booking core depends on. Catalog management (CRUD, pricing,
// images) is owned by other systems; the core only resolves a service
// to its provider, duration, and availability flag, plus the provider's
// working hours.
type CatalogRepository interface {
	GetService(ctx context.Context, serviceID string) (*models.ServiceOffering, error)
	GetProvider(ctx context.Context, providerID string) (*models.Provider, error)
}
