// Package store persists applications, their answers, and their consignments.
// Implementations return sentinel errors; the application service translates
// them into coded domain errors.
package store

import (
	"context"

	"certform/internal/application/models"
	id "certform/pkg/domain"
)

// Store is the application persistence interface. Update replaces the whole
// aggregate; answer merging happens in the service before the write, so
// optimistic concurrency (if a backend provides it) covers answers and
// consignments together.
type Store interface {
	Create(ctx context.Context, app *models.Application) error
	Find(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
}
