// Package service exposes template lookups to the rest of the module.
//
// It is the single place sentinel store errors become coded domain errors, and
// the single place a certificate template's availability is enforced: a
// template that exists but is on hold or withdrawn is reported distinctly from
// one that does not exist at all.
package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	form "certform/internal/form/models"
	"certform/internal/template/models"
	"certform/internal/template/store"
	dErrors "certform/pkg/domain-errors"
	"certform/pkg/platform/sentinel"
)

// Service orchestrates template lookups.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Template fetches one exact template version.
func (s *Service) Template(ctx context.Context, ref form.TemplateRef) (*models.Template, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	template, err := s.store.Find(ctx, ref.Family, ref.Name, ref.Version)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "template %s version %d not found", ref.Name, ref.Version)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load template")
	}
	return template, nil
}

// ActiveTemplate fetches the latest ACTIVE version of a named template.
func (s *Service) ActiveTemplate(ctx context.Context, family form.TemplateFamily, name string) (*models.Template, error) {
	template, err := s.store.FindLatestByStatus(ctx, family, name, models.StatusActive)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no active template named %s", name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active template")
	}
	return template, nil
}

// PrivateTemplate fetches the latest PRIVATE version of a named template,
// gated by its access code.
func (s *Service) PrivateTemplate(ctx context.Context, family form.TemplateFamily, name, accessCode string) (*models.Template, error) {
	template, err := s.store.FindLatestByStatus(ctx, family, name, models.StatusPrivate)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no private template named %s", name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load private template")
	}
	if subtle.ConstantTimeCompare([]byte(template.AccessCode), []byte(accessCode)) != 1 {
		return nil, dErrors.New(dErrors.CodeForbidden, "access code does not match")
	}
	return template, nil
}

// CertificateTemplate fetches one exact certificate template version and
// enforces its availability. The unavailable error carries the offending
// status so callers can surface it.
func (s *Service) CertificateTemplate(ctx context.Context, ref form.TemplateRef) (*models.Template, error) {
	template, err := s.Template(ctx, ref)
	if err != nil {
		return nil, err
	}
	if template.Availability != models.Available {
		status := strings.ReplaceAll(strings.ToLower(string(template.Availability)), "_", " ")
		return nil, dErrors.Newf(dErrors.CodeUnavailable, "certificate template %s is %s", ref.Name, status)
	}
	return template, nil
}

// Pages returns the ordered pages of one exact template version.
func (s *Service) Pages(ctx context.Context, ref form.TemplateRef) ([]form.FormPage, error) {
	template, err := s.Template(ctx, ref)
	if err != nil {
		return nil, err
	}
	return template.Pages, nil
}
