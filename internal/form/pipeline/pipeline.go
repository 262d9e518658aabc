// Package pipeline sequences the form engine stages for the two call
// patterns the service needs: validate (merge, filter, validate) and render
// (merge, map, populate) — per consignment or across a whole application.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"certform/internal/audit"
	"certform/internal/form/mapfields"
	"certform/internal/form/merge"
	"certform/internal/form/metrics"
	"certform/internal/form/models"
	"certform/internal/form/ports"
	"certform/internal/form/scope"
	"certform/internal/form/validate"
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
	"certform/pkg/requestcontext"
)

const tracerName = "certform/internal/form/pipeline"

// renderConcurrency bounds the per-consignment fan-out of RenderAll.
const renderConcurrency = 4

// Pipeline is the form engine facade. Stages are pure; the pipeline owns the
// port fetches and the cross-cutting concerns around them.
type Pipeline struct {
	merger    *merge.Merger
	validator *validate.Validator
	mapper    *mapfields.Mapper

	answers   ports.AnswerSource
	countries ports.CountryDirectory
	caseData  ports.CaseDataSource

	auditor *audit.Publisher
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

type Option func(p *Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithAuditor(auditor *audit.Publisher) Option {
	return func(p *Pipeline) {
		p.auditor = auditor
	}
}

// New constructs a Pipeline.
func New(
	merger *merge.Merger,
	validator *validate.Validator,
	mapper *mapfields.Mapper,
	answers ports.AnswerSource,
	countries ports.CountryDirectory,
	caseData ports.CaseDataSource,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		merger:    merger,
		validator: validator,
		mapper:    mapper,
		answers:   answers,
		countries: countries,
		caseData:  caseData,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildForm merges the two templates and filters the result for the actor.
// This is the form a client renders for data entry.
func (p *Pipeline) BuildForm(ctx context.Context, appRef, certRef models.TemplateRef, role models.ActorRole) (*models.MergedForm, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.BuildForm",
		trace.WithAttributes(
			attribute.String("form.certificate", certRef.Name),
			attribute.String("form.actor_role", string(role)),
		))
	defer span.End()

	form, err := p.mergedForm(ctx, appRef, certRef)
	if err != nil {
		return nil, err
	}
	form.Pages = scope.ForActor(form.Pages, role)
	return form, nil
}

// Validate runs the validation pass over one application. PARTIAL judges only
// what has been answered; COMPLETE is the submission gate. The reference
// instant for date boundaries is the submission time once submitted, so
// re-validation of a submitted application never drifts.
func (p *Pipeline) Validate(ctx context.Context, appID id.ApplicationID, role models.ActorRole, mode models.ValidationMode) ([]models.ValidationError, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.Validate",
		trace.WithAttributes(
			attribute.String("application.id", appID.String()),
			attribute.String("validation.mode", string(mode)),
		))
	defer span.End()

	record, err := p.answers.Application(ctx, appID)
	if err != nil {
		return nil, err
	}
	form, err := p.mergedForm(ctx, record.ApplicationRef, record.CertificateRef)
	if err != nil {
		return nil, err
	}
	form.Pages = scope.ForActor(form.Pages, role)

	now := record.ReferenceTime(requestcontext.Time(ctx))

	var errs []models.ValidationError
	switch mode {
	case models.ModeComplete:
		errs = p.validator.ValidateSubmission(form, record.Items, record.Consignments, now)
	default:
		errs = p.validator.ValidatePartial(form, record.Items, record.Consignments, now)
	}

	p.metrics.IncrementValidationOutcome(string(mode), len(errs) == 0)
	for _, e := range errs {
		p.metrics.IncrementValidationFailure(string(e.Constraint))
	}
	if len(errs) > 0 && mode == models.ModeComplete {
		p.audit(ctx, record, audit.ActionValidationFailed)
	}
	if p.logger != nil {
		p.logger.InfoContext(ctx, "application validated",
			"application_id", appID,
			"mode", mode,
			"failures", len(errs))
	}
	return errs, nil
}

// RenderFields maps one application's answers to document fields, scoped to
// one consignment when a consignment id is given. Populator fields are
// composed on top of the per-question mapping.
func (p *Pipeline) RenderFields(ctx context.Context, appID id.ApplicationID, consignmentID *id.ConsignmentID) (*models.AnswersMappedToFields, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.RenderFields",
		trace.WithAttributes(attribute.String("application.id", appID.String())))
	defer span.End()

	started := time.Now()
	record, err := p.answers.Application(ctx, appID)
	if err != nil {
		return nil, err
	}
	form, err := p.mergedForm(ctx, record.ApplicationRef, record.CertificateRef)
	if err != nil {
		return nil, err
	}

	out, err := p.render(ctx, form, record, consignmentID)
	if err != nil {
		return nil, err
	}

	p.metrics.ObserveRenderLatency(time.Since(started))
	p.audit(ctx, record, audit.ActionFormRendered)
	return out, nil
}

// RenderAll maps every consignment of a multi-certificate application
// concurrently, one field map per consignment, keyed by consignment id.
// Single-certificate applications render once under the zero consignment id.
func (p *Pipeline) RenderAll(ctx context.Context, appID id.ApplicationID) (map[id.ConsignmentID]*models.AnswersMappedToFields, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.RenderAll",
		trace.WithAttributes(attribute.String("application.id", appID.String())))
	defer span.End()

	started := time.Now()
	record, err := p.answers.Application(ctx, appID)
	if err != nil {
		return nil, err
	}
	form, err := p.mergedForm(ctx, record.ApplicationRef, record.CertificateRef)
	if err != nil {
		return nil, err
	}

	out := make(map[id.ConsignmentID]*models.AnswersMappedToFields)
	if len(record.Consignments) == 0 {
		rendered, err := p.render(ctx, form, record, nil)
		if err != nil {
			return nil, err
		}
		out[id.ConsignmentID{}] = rendered
		p.metrics.ObserveRenderLatency(time.Since(started))
		p.audit(ctx, record, audit.ActionFormRendered)
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	results := make([]*models.AnswersMappedToFields, len(record.Consignments))
	for i := range record.Consignments {
		g.Go(func() error {
			consignmentID := record.Consignments[i].ID
			rendered, err := p.render(gctx, form, record, &consignmentID)
			if err != nil {
				return err
			}
			results[i] = rendered
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, consignment := range record.Consignments {
		out[consignment.ID] = results[i]
	}

	p.metrics.ObserveRenderLatency(time.Since(started))
	p.audit(ctx, record, audit.ActionFormRendered)
	return out, nil
}

func (p *Pipeline) mergedForm(ctx context.Context, appRef, certRef models.TemplateRef) (*models.MergedForm, error) {
	started := time.Now()
	form, err := p.merger.Merge(ctx, appRef, certRef)
	if err != nil {
		return nil, err
	}
	p.metrics.ObserveMergeLatency(form.FormName, time.Since(started))
	return form, nil
}

// render maps one consignment's view of the application and layers populator
// fields over the per-question output.
func (p *Pipeline) render(ctx context.Context, form *models.MergedForm, record *ports.ApplicationRecord, consignmentID *id.ConsignmentID) (*models.AnswersMappedToFields, error) {
	consignment := findConsignment(record, consignmentID)
	if consignmentID != nil && consignment == nil {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "consignment %s not found on application %s", consignmentID, record.ID)
	}

	out, err := p.mapper.Map(form, record.ID, record.Items, consignment)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeMappingInconsistency) {
			p.metrics.IncrementMappingInconsistency()
			p.audit(ctx, record, audit.ActionMappingInconsistency)
		}
		return nil, err
	}

	populators := mapfields.ForNames(form.Populators)
	if len(populators) > 0 {
		snapshot, err := p.snapshot(ctx, record, consignment)
		if err != nil {
			return nil, err
		}
		for name, value := range mapfields.Run(populators, snapshot) {
			out.Fields[name] = value
		}
	}
	return out, nil
}

// Country question ids the countryNames populator draws from.
const (
	originCountryQuestionID      = "originCountry"
	destinationCountryQuestionID = "destinationCountry"
)

// snapshot gathers the external data populators read: the backend case
// record and the countries resolved from the application's answers. A case
// record is optional (absent until the backend opens one); a missing country
// code is left unresolved rather than failing the render.
func (p *Pipeline) snapshot(ctx context.Context, record *ports.ApplicationRecord, consignment *models.Consignment) (mapfields.Snapshot, error) {
	snapshot := mapfields.Snapshot{
		Application: record,
		Consignment: consignment,
	}

	caseRecord, err := p.caseData.Record(ctx, record.ID)
	switch {
	case err == nil:
		snapshot.Case = caseRecord
	case dErrors.HasCode(err, dErrors.CodeNotFound):
	default:
		return mapfields.Snapshot{}, err
	}

	snapshot.Origin = p.country(ctx, snapshot, originCountryQuestionID)
	snapshot.Destination = p.country(ctx, snapshot, destinationCountryQuestionID)
	return snapshot, nil
}

func (p *Pipeline) country(ctx context.Context, snapshot mapfields.Snapshot, questionID id.QuestionID) *ports.Country {
	code := snapshot.Answer(questionID)
	if code == "" {
		return nil
	}
	country, err := p.countries.ByCode(ctx, code)
	if err != nil {
		if p.logger != nil {
			p.logger.WarnContext(ctx, "country code unresolved",
				"code", code,
				"error", err)
		}
		return nil
	}
	return &country
}

func (p *Pipeline) audit(ctx context.Context, record *ports.ApplicationRecord, action string) {
	if p.auditor == nil {
		return
	}
	event := audit.Event{
		ActorID:       requestcontext.ActorID(ctx),
		ActorRole:     requestcontext.ActorRole(ctx),
		ApplicationID: record.ID,
		Form:          record.CertificateRef.Name,
		Action:        action,
	}
	if err := p.auditor.Emit(ctx, event); err != nil && p.logger != nil {
		p.logger.WarnContext(ctx, "audit emit failed",
			"action", action,
			"error", err)
	}
}

func findConsignment(record *ports.ApplicationRecord, consignmentID *id.ConsignmentID) *models.Consignment {
	if consignmentID == nil {
		return nil
	}
	for i := range record.Consignments {
		if record.Consignments[i].ID == *consignmentID {
			return &record.Consignments[i]
		}
	}
	return nil
}
