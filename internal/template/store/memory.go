package store

import (
	"context"
	"fmt"
	"sync"

	form "certform/internal/form/models"
	"certform/internal/template/models"
	"certform/pkg/platform/sentinel"
)

// InMemory implements Store over a map. Used in unit tests and local
// development; production wiring uses Postgres.
type InMemory struct {
	mu        sync.RWMutex
	templates map[string]*models.Template
}

// NewInMemory creates an empty in-memory template store.
func NewInMemory() *InMemory {
	return &InMemory{templates: make(map[string]*models.Template)}
}

func key(family form.TemplateFamily, name string, version int) string {
	return fmt.Sprintf("%s/%s/%d", family, name, version)
}

func (s *InMemory) Create(ctx context.Context, template *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(template.Family, template.Name, template.Version)
	if _, exists := s.templates[k]; exists {
		return sentinel.ErrConflict
	}
	s.templates[k] = template
	return nil
}

func (s *InMemory) Find(ctx context.Context, family form.TemplateFamily, name string, version int) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	template, ok := s.templates[key(family, name, version)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return template, nil
}

func (s *InMemory) FindLatestByStatus(ctx context.Context, family form.TemplateFamily, name string, status models.Status) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Template
	for _, template := range s.templates {
		if template.Family != family || template.Name != name || template.Status != status {
			continue
		}
		if latest == nil || template.Version > latest.Version {
			latest = template
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	return latest, nil
}
