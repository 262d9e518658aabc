package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	form "certform/internal/form/models"
	"certform/internal/template/models"
	"certform/internal/template/store"
	dErrors "certform/pkg/domain-errors"
)

type TemplateServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	service *Service
	ctx     context.Context
}

func TestTemplateServiceSuite(t *testing.T) {
	suite.Run(t, new(TemplateServiceSuite))
}

func (s *TemplateServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.service = New(s.store)
	s.ctx = context.Background()
}

func (s *TemplateServiceSuite) seed(name string, version int, status models.Status, mutate func(*models.Template)) *models.Template {
	template, err := models.New(name, version, form.FamilyCertificate, status, time.Now())
	s.Require().NoError(err)
	if mutate != nil {
		mutate(template)
	}
	s.Require().NoError(s.store.Create(s.ctx, template))
	return template
}

func (s *TemplateServiceSuite) TestTemplate() {
	s.Run("unknown template yields not found", func() {
		_, err := s.service.Template(s.ctx, form.TemplateRef{Family: form.FamilyCertificate, Name: "missing", Version: 1})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("exact version lookup", func() {
		s.seed("dairy-ehc", 2, models.StatusActive, nil)

		template, err := s.service.Template(s.ctx, form.TemplateRef{Family: form.FamilyCertificate, Name: "dairy-ehc", Version: 2})
		s.Require().NoError(err)
		s.Equal(2, template.Version)
	})

	s.Run("invalid ref rejected before store lookup", func() {
		_, err := s.service.Template(s.ctx, form.TemplateRef{Family: form.FamilyCertificate, Name: "", Version: 1})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *TemplateServiceSuite) TestCertificateTemplate() {
	s.Run("available template passes", func() {
		s.seed("timber-ehc", 1, models.StatusActive, nil)

		_, err := s.service.CertificateTemplate(s.ctx, form.TemplateRef{Family: form.FamilyCertificate, Name: "timber-ehc", Version: 1})
		s.Require().NoError(err)
	})

	s.Run("on hold template yields unavailable with status", func() {
		s.seed("held-ehc", 1, models.StatusActive, func(t *models.Template) {
			t.Availability = models.OnHold
		})

		_, err := s.service.CertificateTemplate(s.ctx, form.TemplateRef{Family: form.FamilyCertificate, Name: "held-ehc", Version: 1})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Contains(err.Error(), "on hold")
	})

	s.Run("withdrawn template yields unavailable", func() {
		s.seed("gone-ehc", 1, models.StatusActive, func(t *models.Template) {
			t.Availability = models.Withdrawn
		})

		_, err := s.service.CertificateTemplate(s.ctx, form.TemplateRef{Family: form.FamilyCertificate, Name: "gone-ehc", Version: 1})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Contains(err.Error(), "withdrawn")
	})
}

func (s *TemplateServiceSuite) TestPrivateTemplate() {
	s.Run("matching access code", func() {
		s.seed("trial-ehc", 1, models.StatusPrivate, func(t *models.Template) {
			t.AccessCode = "LETMEIN"
		})

		template, err := s.service.PrivateTemplate(s.ctx, form.FamilyCertificate, "trial-ehc", "LETMEIN")
		s.Require().NoError(err)
		s.Equal("trial-ehc", template.Name)
	})

	s.Run("wrong access code forbidden", func() {
		s.seed("secret-ehc", 1, models.StatusPrivate, func(t *models.Template) {
			t.AccessCode = "LETMEIN"
		})

		_, err := s.service.PrivateTemplate(s.ctx, form.FamilyCertificate, "secret-ehc", "GUESS")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *TemplateServiceSuite) TestSystemPages() {
	certRef := func(name string) form.TemplateRef {
		return form.TemplateRef{Family: form.FamilyCertificate, Name: name, Version: 1}
	}
	appRef := form.TemplateRef{Family: form.FamilyApplication, Name: "exa", Version: 1}

	s.Run("no pages for single-certificate template", func() {
		s.seed("single-ehc", 1, models.StatusActive, nil)

		pages, err := s.service.SystemPages(s.ctx, appRef, certRef("single-ehc"))
		s.Require().NoError(err)
		s.Empty(pages)
	})

	s.Run("certificate reference page for multi-certificate template", func() {
		s.seed("multi-ehc", 1, models.StatusActive, func(t *models.Template) {
			t.Multiples = &models.Multiples{MaxConsignments: 5}
		})

		pages, err := s.service.SystemPages(s.ctx, appRef, certRef("multi-ehc"))
		s.Require().NoError(err)
		s.Require().Len(pages, 1)
		s.Equal(form.SystemPageNumber, pages[0].Order)
		s.Require().Len(pages[0].Questions, 1)
		s.EqualValues(CertificateReferenceQuestionID, pages[0].Questions[0].ID)
	})
}
