package handler

// Justification for unit tests: the handler is the HTTP edge of the whole
// form pipeline, so these tests exercise decoding, routing, status mapping,
// and the draft-to-submitted application flow end to end against real
// services over in-memory stores. Only the template and backend-case ports
// are mocked.

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	appService "certform/internal/application/service"
	appStore "certform/internal/application/store"
	"certform/internal/audit"
	"certform/internal/form/mapfields"
	"certform/internal/form/merge"
	"certform/internal/form/models"
	"certform/internal/form/pipeline"
	"certform/internal/form/ports"
	"certform/internal/form/ports/mocks"
	"certform/internal/form/validate"
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
	"certform/pkg/requestcontext"
	"certform/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	templates   *mocks.MockTemplateDirectory
	systemPages *mocks.MockSystemPageSupplier
	countries   *mocks.MockCountryDirectory
	caseData    *mocks.MockCaseDataSource
	auditStore  *audit.InMemoryStore
	router      http.Handler

	appRef  models.TemplateRef
	certRef models.TemplateRef
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.templates = mocks.NewMockTemplateDirectory(s.ctrl)
	s.systemPages = mocks.NewMockSystemPageSupplier(s.ctrl)
	s.countries = mocks.NewMockCountryDirectory(s.ctrl)
	s.caseData = mocks.NewMockCaseDataSource(s.ctrl)
	s.auditStore = audit.NewInMemoryStore()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	applications := appService.New(appStore.NewInMemory(), appService.WithLogger(logger))

	p := pipeline.New(
		merge.New(s.templates, s.systemPages),
		validate.New(),
		mapfields.New(),
		answerSource{applications},
		s.countries,
		s.caseData,
		pipeline.WithLogger(logger),
	)

	auditor := audit.NewPublisher(s.auditStore, audit.WithLogger(logger))
	r := chi.NewRouter()
	New(applications, p, auditor, logger).Register(r)
	s.router = r

	s.appRef = models.TemplateRef{Family: models.FamilyApplication, Name: "exporterApplication", Version: 1}
	s.certRef = models.TemplateRef{Family: models.FamilyCertificate, Name: "phytosanitaryCertificate", Version: 2}
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

// answerSource reads application records straight from the application
// service, the same shape the production adapter produces.
type answerSource struct {
	applications *appService.Service
}

func (a answerSource) Application(ctx context.Context, appID id.ApplicationID) (*ports.ApplicationRecord, error) {
	app, err := a.applications.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	return &ports.ApplicationRecord{
		ID:             app.ID,
		Applicant:      app.Applicant,
		ApplicationRef: app.ApplicationRef,
		CertificateRef: app.CertificateRef,
		SubmittedAt:    app.SubmittedAt,
		Items:          app.Items,
		Consignments:   app.Consignments,
	}, nil
}

func mustAppID(t *testing.T, s string) id.ApplicationID {
	t.Helper()
	appID, err := id.ParseApplicationID(s)
	if err != nil {
		t.Fatalf("parsing application id %q: %v", s, err)
	}
	return appID
}

// expectTemplates wires the template ports for any number of merges of the
// standard fixture: one applicant-scoped required question bound to the
// "exporter" document field, plus a certifier-only one.
func (s *HandlerSuite) expectTemplates(certDef *ports.CertificateDefinition) {
	appPages := []models.FormPage{{
		Title: "Exporter details",
		Order: 1,
		Questions: []models.FormQuestion{
			{
				ID:    "exporterName",
				Type:  models.QuestionText,
				Scope: models.ScopeBoth,
				Order: 1,
				Constraints: []models.AnswerConstraint{
					{Type: models.ConstraintRequired, Message: "Enter the exporter name"},
				},
				Fields: []models.TemplateField{{Name: "exporter"}},
			},
			{
				ID:     "inspectionNotes",
				Type:   models.QuestionText,
				Scope:  models.ScopeCertifier,
				Order:  2,
				Fields: []models.TemplateField{{Name: "inspection notes"}},
			},
		},
	}}
	if certDef == nil {
		certDef = &ports.CertificateDefinition{
			Ref:             s.certRef,
			TemplateFiles:   []string{"phytosanitary.pdf"},
			MaxConsignments: 1,
		}
	}
	s.templates.EXPECT().Certificate(gomock.Any(), s.certRef).Return(certDef, nil).AnyTimes()
	s.templates.EXPECT().ApplicationPages(gomock.Any(), s.appRef).Return(appPages, nil).AnyTimes()
	s.systemPages.EXPECT().SystemPages(gomock.Any(), s.appRef, s.certRef).Return(nil, nil).AnyTimes()
}

func (s *HandlerSuite) do(role models.ActorRole, method, target string, body any) *httptest.ResponseRecorder {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		payload = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, payload)
	req.Header.Set("Content-Type", "application/json")

	ctx := testutil.Context(s.T())
	if role != "" {
		ctx = requestcontext.WithActorID(ctx, "exporter-1")
		ctx = requestcontext.WithActorRole(ctx, string(role))
	}
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(v))
}

func (s *HandlerSuite) createApplication() ApplicationResponse {
	rec := s.do(models.RoleApplicant, http.MethodPost, "/applications", CreateApplicationRequest{
		ApplicationTemplate: TemplateRefRequest{Name: s.appRef.Name, Version: s.appRef.Version},
		CertificateTemplate: TemplateRefRequest{Name: s.certRef.Name, Version: s.certRef.Version},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp ApplicationResponse
	s.decode(rec, &resp)
	return resp
}

func (s *HandlerSuite) saveExporterName(appID, value string) {
	rec := s.do(models.RoleApplicant, http.MethodPut, "/applications/"+appID+"/answers", SaveAnswersRequest{
		Items: []AnswerItemRequest{{QuestionID: "exporterName", PageNumber: 1, PageOccurrence: 0, Answer: value}},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
}

// =============================================================================
// Application lifecycle
// =============================================================================

func (s *HandlerSuite) TestCreateApplication() {
	resp := s.createApplication()

	s.NotEmpty(resp.ID)
	s.Equal("DRAFT", resp.Status)
	s.Equal("exporter-1", resp.Applicant)
	s.Equal(s.certRef.Name, resp.CertificateTemplate.Name)
	s.Nil(resp.SubmittedAt)

	events, err := s.auditStore.ListByApplication(testutil.Context(s.T()), mustAppID(s.T(), resp.ID))
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionApplicationCreated, events[0].Action)
}

func (s *HandlerSuite) TestCreateApplication_RequiresAuthentication() {
	rec := s.do("", http.MethodPost, "/applications", CreateApplicationRequest{})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestCreateApplication_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/applications", bytes.NewReader([]byte("not valid json")))
	req.Header.Set("Content-Type", "application/json")
	ctx := requestcontext.WithActorID(testutil.Context(s.T()), "exporter-1")
	req = req.WithContext(requestcontext.WithActorRole(ctx, string(models.RoleApplicant)))
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreateApplication_MissingTemplateName() {
	rec := s.do(models.RoleApplicant, http.MethodPost, "/applications", CreateApplicationRequest{
		ApplicationTemplate: TemplateRefRequest{Name: "", Version: 1},
		CertificateTemplate: TemplateRefRequest{Name: s.certRef.Name, Version: 2},
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestGetApplication_NotFound() {
	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/7b5abf4e-3bb8-4b9f-9a0b-05e93f27cd1f", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestGetApplication_MalformedID() {
	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// =============================================================================
// Form composition
// =============================================================================

func (s *HandlerSuite) TestGetForm_FiltersForApplicant() {
	s.expectTemplates(nil)
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/"+app.ID+"/form", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var form FormResponse
	s.decode(rec, &form)
	s.Equal(s.certRef.Name, form.FormName)
	s.Equal(1, form.MaxConsignments)
	s.Require().Len(form.Pages, 1)
	s.Require().Len(form.Pages[0].Questions, 1)
	s.Equal("exporterName", form.Pages[0].Questions[0].ID)
}

func (s *HandlerSuite) TestGetForm_AdminSeesEverything() {
	s.expectTemplates(nil)
	app := s.createApplication()

	rec := s.do(models.RoleAdmin, http.MethodGet, "/applications/"+app.ID+"/form", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var form FormResponse
	s.decode(rec, &form)
	s.Require().Len(form.Pages, 1)
	s.Len(form.Pages[0].Questions, 2)
}

func (s *HandlerSuite) TestGetForm_TemplateUnavailable() {
	app := s.createApplication()
	s.templates.EXPECT().Certificate(gomock.Any(), s.certRef).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "template retired")).AnyTimes()

	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/"+app.ID+"/form", nil)
	s.Equal(http.StatusConflict, rec.Code)
}

// =============================================================================
// Answers and validation
// =============================================================================

func (s *HandlerSuite) TestSaveAnswers_ReportsPartialValidation() {
	s.expectTemplates(nil)
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodPut, "/applications/"+app.ID+"/answers", SaveAnswersRequest{
		Items: []AnswerItemRequest{{QuestionID: "exporterName", PageNumber: 1, Answer: "Acme Fruit Ltd"}},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp SaveAnswersResponse
	s.decode(rec, &resp)
	s.True(resp.Validation.Valid)
	s.Empty(resp.Validation.Errors)
}

func (s *HandlerSuite) TestSaveAnswers_EmptiedRequiredAnswerFlagged() {
	s.expectTemplates(nil)
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodPut, "/applications/"+app.ID+"/answers", SaveAnswersRequest{
		Items: []AnswerItemRequest{{QuestionID: "exporterName", PageNumber: 1, Answer: ""}},
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp SaveAnswersResponse
	s.decode(rec, &resp)
	s.False(resp.Validation.Valid)
	s.Require().Len(resp.Validation.Errors, 1)
	s.Equal("Enter the exporter name", resp.Validation.Errors[0].Message)
}

func (s *HandlerSuite) TestSaveAnswers_RejectsEmptyItems() {
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodPut, "/applications/"+app.ID+"/answers", SaveAnswersRequest{})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestValidate_CompleteModeFlagsMissingAnswers() {
	s.expectTemplates(nil)
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/"+app.ID+"/validation?mode=COMPLETE", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp ValidationResponse
	s.decode(rec, &resp)
	s.False(resp.Valid)
	s.Require().Len(resp.Errors, 1)
	s.Equal("exporterName", resp.Errors[0].QuestionID)
	s.Equal("Enter the exporter name", resp.Errors[0].Message)
}

func (s *HandlerSuite) TestValidate_UnknownMode() {
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/"+app.ID+"/validation?mode=SOMETIMES", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// =============================================================================
// Consignments
// =============================================================================

func (s *HandlerSuite) TestAddAndRemoveConsignment() {
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodPost, "/applications/"+app.ID+"/consignments", nil)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created ConsignmentResponse
	s.decode(rec, &created)
	s.NotEmpty(created.ConsignmentID)

	rec = s.do(models.RoleApplicant, http.MethodDelete,
		"/applications/"+app.ID+"/consignments/"+created.ConsignmentID, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	events, err := s.auditStore.ListByApplication(testutil.Context(s.T()), mustAppID(s.T(), app.ID))
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	s.Contains(actions, audit.ActionConsignmentAdded)
	s.Contains(actions, audit.ActionConsignmentRemoved)
}

func (s *HandlerSuite) TestRemoveConsignment_Unknown() {
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodDelete,
		"/applications/"+app.ID+"/consignments/7b5abf4e-3bb8-4b9f-9a0b-05e93f27cd1f", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

// =============================================================================
// Submission
// =============================================================================

func (s *HandlerSuite) TestSubmit_RejectedWhileIncomplete() {
	s.expectTemplates(nil)
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodPost, "/applications/"+app.ID+"/submit", nil)
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)

	var resp ValidationResponse
	s.decode(rec, &resp)
	s.False(resp.Valid)
	s.NotEmpty(resp.Errors)

	get := s.do(models.RoleApplicant, http.MethodGet, "/applications/"+app.ID, nil)
	var after ApplicationResponse
	s.decode(get, &after)
	s.Equal("DRAFT", after.Status)
}

func (s *HandlerSuite) TestSubmit_CompleteApplication() {
	s.expectTemplates(nil)
	app := s.createApplication()
	s.saveExporterName(app.ID, "Acme Fruit Ltd")

	rec := s.do(models.RoleApplicant, http.MethodPost, "/applications/"+app.ID+"/submit", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp ApplicationResponse
	s.decode(rec, &resp)
	s.Equal("SUBMITTED", resp.Status)
	s.Require().NotNil(resp.SubmittedAt)
	s.Equal(testutil.FixedNow(), resp.SubmittedAt.UTC())

	events, err := s.auditStore.ListByApplication(testutil.Context(s.T()), mustAppID(s.T(), app.ID))
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	s.Contains(actions, audit.ActionApplicationSubmitted)
}

func (s *HandlerSuite) TestSubmit_Twice() {
	s.expectTemplates(nil)
	app := s.createApplication()
	s.saveExporterName(app.ID, "Acme Fruit Ltd")

	first := s.do(models.RoleApplicant, http.MethodPost, "/applications/"+app.ID+"/submit", nil)
	s.Require().Equal(http.StatusOK, first.Code)

	second := s.do(models.RoleApplicant, http.MethodPost, "/applications/"+app.ID+"/submit", nil)
	s.Equal(http.StatusInternalServerError, second.Code)
}

// =============================================================================
// Field rendering
// =============================================================================

func (s *HandlerSuite) TestRenderFields() {
	s.expectTemplates(nil)
	s.caseData.EXPECT().Record(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "no case record")).AnyTimes()
	app := s.createApplication()
	s.saveExporterName(app.ID, "Acme Fruit Ltd")

	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/"+app.ID+"/fields", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp FieldsResponse
	s.decode(rec, &resp)
	s.Equal("Acme Fruit Ltd", resp.Fields["exporter"])
	s.Equal([]string{"phytosanitary.pdf"}, resp.TemplateFiles)
}

func (s *HandlerSuite) TestRenderFields_MalformedConsignmentID() {
	app := s.createApplication()

	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/"+app.ID+"/fields?consignment_id=nope", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestRenderAll_SingleCertificate() {
	s.expectTemplates(nil)
	s.caseData.EXPECT().Record(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "no case record")).AnyTimes()
	app := s.createApplication()
	s.saveExporterName(app.ID, "Acme Fruit Ltd")

	rec := s.do(models.RoleApplicant, http.MethodGet, "/applications/"+app.ID+"/fields/all", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp AllFieldsResponse
	s.decode(rec, &resp)
	s.Require().Len(resp.Consignments, 1)
	s.Empty(resp.Consignments[0].ConsignmentID)
	s.Equal("Acme Fruit Ltd", resp.Consignments[0].Fields["exporter"])
}
