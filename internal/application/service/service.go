// Package service manages application aggregates: creating drafts, merging
// incremental answer saves, and consignment membership. The form pipeline
// reads applications through a port over this service and never writes back.
package service

import (
	"context"
	"log/slog"

	"certform/internal/application/models"
	"certform/internal/application/store"
	form "certform/internal/form/models"
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
	"certform/pkg/platform/sentinel"
	"certform/pkg/requestcontext"
)

// Service orchestrates application persistence.
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

// Create opens a draft application against the given template versions.
func (s *Service) Create(ctx context.Context, applicant string, applicationRef, certificateRef form.TemplateRef) (*models.Application, error) {
	app, err := models.New(id.NewApplicationID(), applicant, applicationRef, certificateRef, requestcontext.Time(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}
	return app, nil
}

// Get fetches one application.
func (s *Service) Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	app, err := s.store.Find(ctx, appID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "application %s not found", appID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

// SaveResponses merges submitted answers into the application (or into one of
// its consignments when consignmentID is non-nil) with replace-by-key
// semantics, then persists the aggregate.
func (s *Service) SaveResponses(ctx context.Context, appID id.ApplicationID, consignmentID *id.ConsignmentID, items []form.ResponseItem) (*models.Application, error) {
	app, err := s.Get(ctx, appID)
	if err != nil {
		return nil, err
	}

	if consignmentID == nil {
		app.Items = models.MergeItems(app.Items, items)
	} else {
		consignment, ok := app.Consignment(*consignmentID)
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "consignment %s not found on application %s", consignmentID, appID)
		}
		consignment.Items = models.MergeItems(consignment.Items, items)
	}

	app.UpdatedAt = requestcontext.Time(ctx)
	if err := s.store.Update(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save responses")
	}
	return app, nil
}

// AddConsignment appends a new empty consignment and returns its id.
func (s *Service) AddConsignment(ctx context.Context, appID id.ApplicationID) (id.ConsignmentID, error) {
	app, err := s.Get(ctx, appID)
	if err != nil {
		return id.ConsignmentID{}, err
	}

	consignmentID := id.NewConsignmentID()
	app.Consignments = append(app.Consignments, form.Consignment{ID: consignmentID})
	app.UpdatedAt = requestcontext.Time(ctx)
	if err := s.store.Update(ctx, app); err != nil {
		return id.ConsignmentID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add consignment")
	}
	return consignmentID, nil
}

// RemoveConsignment deletes a consignment and its answers.
func (s *Service) RemoveConsignment(ctx context.Context, appID id.ApplicationID, consignmentID id.ConsignmentID) error {
	app, err := s.Get(ctx, appID)
	if err != nil {
		return err
	}

	kept := app.Consignments[:0]
	found := false
	for _, c := range app.Consignments {
		if c.ID == consignmentID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return dErrors.Newf(dErrors.CodeNotFound, "consignment %s not found on application %s", consignmentID, appID)
	}

	app.Consignments = kept
	app.UpdatedAt = requestcontext.Time(ctx)
	if err := s.store.Update(ctx, app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove consignment")
	}
	return nil
}

// Submit freezes the application at the request instant. Callers must have
// run COMPLETE validation first; this method only records the transition.
func (s *Service) Submit(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	app, err := s.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	if err := app.Submit(requestcontext.Time(ctx)); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit application")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "application submitted",
			"application_id", app.ID.String(),
			"certificate_template", app.CertificateRef.Name)
	}
	return app, nil
}
