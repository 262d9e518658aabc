// Package store persists versioned form templates.
//
// Implementations return sentinel errors (pkg/platform/sentinel); the template
// service translates them into coded domain errors. Availability is data here,
// not an error: a withdrawn template is still found.
package store

import (
	"context"

	form "certform/internal/form/models"
	"certform/internal/template/models"
)

// Store is the template persistence interface.
type Store interface {
	// Create stores a new template version. Returns sentinel.ErrConflict when
	// the (family, name, version) triple already exists.
	Create(ctx context.Context, template *models.Template) error

	// Find fetches one exact template version.
	Find(ctx context.Context, family form.TemplateFamily, name string, version int) (*models.Template, error)

	// FindLatestByStatus fetches the highest version of a named template with
	// the given status.
	FindLatestByStatus(ctx context.Context, family form.TemplateFamily, name string, status models.Status) (*models.Template, error)
}
