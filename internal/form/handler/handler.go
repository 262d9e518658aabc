package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appModels "certform/internal/application/models"
	"certform/internal/audit"
	"certform/internal/form/models"
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
	"certform/pkg/platform/httputil"
	"certform/pkg/requestcontext"
)

// ApplicationService defines the application operations the handler needs.
type ApplicationService interface {
	Create(ctx context.Context, applicant string, applicationRef, certificateRef models.TemplateRef) (*appModels.Application, error)
	Get(ctx context.Context, appID id.ApplicationID) (*appModels.Application, error)
	SaveResponses(ctx context.Context, appID id.ApplicationID, consignmentID *id.ConsignmentID, items []models.ResponseItem) (*appModels.Application, error)
	AddConsignment(ctx context.Context, appID id.ApplicationID) (id.ConsignmentID, error)
	RemoveConsignment(ctx context.Context, appID id.ApplicationID, consignmentID id.ConsignmentID) error
	Submit(ctx context.Context, appID id.ApplicationID) (*appModels.Application, error)
}

// Pipeline defines the form operations the handler needs.
type Pipeline interface {
	BuildForm(ctx context.Context, appRef, certRef models.TemplateRef, role models.ActorRole) (*models.MergedForm, error)
	Validate(ctx context.Context, appID id.ApplicationID, role models.ActorRole, mode models.ValidationMode) ([]models.ValidationError, error)
	RenderFields(ctx context.Context, appID id.ApplicationID, consignmentID *id.ConsignmentID) (*models.AnswersMappedToFields, error)
	RenderAll(ctx context.Context, appID id.ApplicationID) (map[id.ConsignmentID]*models.AnswersMappedToFields, error)
}

// Auditor records application lifecycle events.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Handler wires application and form endpoints to their services.
type Handler struct {
	applications ApplicationService
	pipeline     Pipeline
	auditor      Auditor
	logger       *slog.Logger
}

// New constructs a form handler with its dependencies. The auditor may be nil.
func New(applications ApplicationService, pipeline Pipeline, auditor Auditor, logger *slog.Logger) *Handler {
	return &Handler{
		applications: applications,
		pipeline:     pipeline,
		auditor:      auditor,
		logger:       logger,
	}
}

// Register mounts application and form endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.HandleCreateApplication)
	r.Get("/applications/{applicationID}", h.HandleGetApplication)
	r.Get("/applications/{applicationID}/form", h.HandleGetForm)
	r.Put("/applications/{applicationID}/answers", h.HandleSaveAnswers)
	r.Get("/applications/{applicationID}/validation", h.HandleValidate)
	r.Post("/applications/{applicationID}/consignments", h.HandleAddConsignment)
	r.Delete("/applications/{applicationID}/consignments/{consignmentID}", h.HandleRemoveConsignment)
	r.Post("/applications/{applicationID}/submit", h.HandleSubmit)
	r.Get("/applications/{applicationID}/fields", h.HandleRenderFields)
	r.Get("/applications/{applicationID}/fields/all", h.HandleRenderAll)
}

// HandleCreateApplication handles POST /applications requests.
func (h *Handler) HandleCreateApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, _, ok := h.actor(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[*CreateApplicationRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}

	appRef, certRef := req.ParsedRefs()
	app, err := h.applications.Create(ctx, actorID, appRef, certRef)
	if err != nil {
		h.logger.ErrorContext(ctx, "application creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"actor_id", actorID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.audit(ctx, app, audit.ActionApplicationCreated, "")
	h.logger.InfoContext(ctx, "application created",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"certificate", app.CertificateRef.Name,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromApplication(app))
}

// HandleGetApplication handles GET /applications/{applicationID} requests.
func (h *Handler) HandleGetApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, _, ok := h.actor(w, ctx); !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	app, err := h.applications.Get(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleGetForm handles GET /applications/{applicationID}/form requests. The
// returned form is merged from the application's template pair and filtered to
// the questions the calling actor may see.
func (h *Handler) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, role, ok := h.actor(w, ctx)
	if !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	app, err := h.applications.Get(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	form, err := h.pipeline.BuildForm(ctx, app.ApplicationRef, app.CertificateRef, role)
	if err != nil {
		h.logger.ErrorContext(ctx, "form composition failed",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", appID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromForm(form))
}

// HandleSaveAnswers handles PUT /applications/{applicationID}/answers
// requests. Answers are persisted first, then checked in partial mode; saving
// never blocks on validation failures.
func (h *Handler) HandleSaveAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, role, ok := h.actor(w, ctx)
	if !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[*SaveAnswersRequest](w, r, h.logger, ctx)
	if !ok {
		return
	}

	app, err := h.applications.SaveResponses(ctx, appID, req.ParsedConsignmentID(), req.ParsedItems())
	if err != nil {
		h.logger.ErrorContext(ctx, "saving answers failed",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", appID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	errs, err := h.pipeline.Validate(ctx, appID, role, models.ModePartial)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.audit(ctx, app, audit.ActionAnswersSaved, "")
	httputil.WriteJSON(w, http.StatusOK, SaveAnswersResponse{
		Application: FromApplication(app),
		Validation:  FromValidationErrors(errs),
	})
}

// HandleValidate handles GET /applications/{applicationID}/validation
// requests. The mode query parameter selects partial or complete checking and
// defaults to partial.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, role, ok := h.actor(w, ctx)
	if !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	mode, ok := h.validationMode(w, r)
	if !ok {
		return
	}

	errs, err := h.pipeline.Validate(ctx, appID, role, mode)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromValidationErrors(errs))
}

// HandleAddConsignment handles POST /applications/{applicationID}/consignments
// requests.
func (h *Handler) HandleAddConsignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, _, ok := h.actor(w, ctx); !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	consignmentID, err := h.applications.AddConsignment(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.auditByID(ctx, appID, audit.ActionConsignmentAdded, consignmentID.String())
	httputil.WriteJSON(w, http.StatusCreated, ConsignmentResponse{ConsignmentID: consignmentID.String()})
}

// HandleRemoveConsignment handles
// DELETE /applications/{applicationID}/consignments/{consignmentID} requests.
func (h *Handler) HandleRemoveConsignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, _, ok := h.actor(w, ctx); !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	consignmentID, err := id.ParseConsignmentID(chi.URLParam(r, "consignmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.applications.RemoveConsignment(ctx, appID, consignmentID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.auditByID(ctx, appID, audit.ActionConsignmentRemoved, consignmentID.String())
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmit handles POST /applications/{applicationID}/submit requests.
// Submission runs complete validation first and is rejected while any check
// fails.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, role, ok := h.actor(w, ctx)
	if !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}
	start := time.Now()

	errs, err := h.pipeline.Validate(ctx, appID, role, models.ModeComplete)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if len(errs) > 0 {
		h.logger.InfoContext(ctx, "submission rejected",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", appID,
			"error_count", len(errs),
		)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, FromValidationErrors(errs))
		return
	}

	app, err := h.applications.Submit(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.audit(ctx, app, audit.ActionApplicationSubmitted, "")
	h.logger.InfoContext(ctx, "application submitted",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", appID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromApplication(app))
}

// HandleRenderFields handles GET /applications/{applicationID}/fields
// requests. The consignment_id query parameter selects one consignment's
// render on multi-certificate forms.
func (h *Handler) HandleRenderFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, _, ok := h.actor(w, ctx); !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	var consignmentID *id.ConsignmentID
	if raw := r.URL.Query().Get("consignment_id"); raw != "" {
		parsed, err := id.ParseConsignmentID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		consignmentID = &parsed
	}

	mapped, err := h.pipeline.RenderFields(ctx, appID, consignmentID)
	if err != nil {
		h.logger.ErrorContext(ctx, "field rendering failed",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", appID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromMappedFields(mapped))
}

// HandleRenderAll handles GET /applications/{applicationID}/fields/all
// requests, rendering every consignment of the application.
func (h *Handler) HandleRenderAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, _, ok := h.actor(w, ctx); !ok {
		return
	}
	appID, ok := h.applicationID(w, r)
	if !ok {
		return
	}

	rendered, err := h.pipeline.RenderAll(ctx, appID)
	if err != nil {
		h.logger.ErrorContext(ctx, "field rendering failed",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", appID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRenderAll(rendered))
}

// actor resolves the authenticated actor from the request context, writing an
// unauthorized response when identity or role is missing.
func (h *Handler) actor(w http.ResponseWriter, ctx context.Context) (string, models.ActorRole, bool) {
	actorID := requestcontext.ActorID(ctx)
	if actorID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", "", false
	}
	role, err := models.ParseActorRole(requestcontext.ActorRole(ctx))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeForbidden, "actor role"))
		return "", "", false
	}
	return actorID, role, true
}

func (h *Handler) applicationID(w http.ResponseWriter, r *http.Request) (id.ApplicationID, bool) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ApplicationID{}, false
	}
	return appID, true
}

func (h *Handler) validationMode(w http.ResponseWriter, r *http.Request) (models.ValidationMode, bool) {
	switch raw := r.URL.Query().Get("mode"); raw {
	case "", string(models.ModePartial):
		return models.ModePartial, true
	case string(models.ModeComplete):
		return models.ModeComplete, true
	default:
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "unknown validation mode %q", raw))
		return "", false
	}
}

func (h *Handler) audit(ctx context.Context, app *appModels.Application, action, detail string) {
	if h.auditor == nil {
		return
	}
	event := audit.Event{
		ActorID:       requestcontext.ActorID(ctx),
		ActorRole:     requestcontext.ActorRole(ctx),
		ApplicationID: app.ID,
		Form:          app.CertificateRef.Name,
		Action:        action,
		Detail:        detail,
	}
	if err := h.auditor.Emit(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "audit emission failed", "action", action, "error", err)
	}
}

func (h *Handler) auditByID(ctx context.Context, appID id.ApplicationID, action, detail string) {
	if h.auditor == nil {
		return
	}
	event := audit.Event{
		ActorID:       requestcontext.ActorID(ctx),
		ActorRole:     requestcontext.ActorRole(ctx),
		ApplicationID: appID,
		Action:        action,
		Detail:        detail,
	}
	if err := h.auditor.Emit(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "audit emission failed", "action", action, "error", err)
	}
}
