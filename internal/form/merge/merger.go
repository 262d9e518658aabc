// Package merge combines the two versioned template definitions and any
// system-injected pages into one ordered, paginated question model.
//
// Precedence is fixed: application-template pages first, then injected pages,
// then certificate-template pages, renumbered 1..N in that order. Category
// tagging happens here so later stages can tell shared answers from
// per-certificate ones without re-consulting the templates.
package merge

import (
	"context"
	"log/slog"
	"sort"

	"certform/internal/form/models"
	"certform/internal/form/ports"
	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
)

// Merger is the form merge engine.
type Merger struct {
	templates   ports.TemplateDirectory
	systemPages ports.SystemPageSupplier
	logger      *slog.Logger
}

type Option func(m *Merger)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) {
		m.logger = logger
	}
}

// New constructs a Merger.
func New(templates ports.TemplateDirectory, systemPages ports.SystemPageSupplier, opts ...Option) *Merger {
	m := &Merger{templates: templates, systemPages: systemPages}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge builds the merged form for one application/certificate template pair.
// Template resolution failures (not found, unavailable) propagate before any
// page is merged; there is no partial output.
func (m *Merger) Merge(ctx context.Context, appRef, certRef models.TemplateRef) (*models.MergedForm, error) {
	// Availability is checked up front: a held or withdrawn certificate
	// template aborts the merge before any page work happens.
	certificate, err := m.templates.Certificate(ctx, certRef)
	if err != nil {
		return nil, err
	}

	appPages, err := m.templates.ApplicationPages(ctx, appRef)
	if err != nil {
		return nil, err
	}

	injected, err := m.systemPages.SystemPages(ctx, appRef, certRef)
	if err != nil {
		return nil, err
	}

	form := &models.MergedForm{
		FormName:        certRef.Name,
		TemplateFiles:   certificate.TemplateFiles,
		MaxConsignments: max(certificate.MaxConsignments, 1),
		Populators:      certificate.Populators,
	}

	pageNumber := 0
	appendPages := func(pages []models.FormPage, family models.TemplateFamily, templateName string, categorize func(models.FormPage) models.PageCategory) error {
		for _, page := range sortedByOrder(pages) {
			pageNumber++
			merged, err := m.mergePage(page, pageNumber, family, templateName, categorize(page))
			if err != nil {
				return err
			}
			form.Pages = append(form.Pages, merged)
		}
		return nil
	}

	applicationLevel := func(models.FormPage) models.PageCategory { return models.CategoryApplicationLevel }
	certificateLevel := func(page models.FormPage) models.PageCategory {
		if page.RepeatsPerConsignment {
			return models.CategoryCertificateLevel
		}
		return models.CategoryCommon
	}

	if err := appendPages(appPages, models.FamilyApplication, appRef.Name, applicationLevel); err != nil {
		return nil, err
	}
	if err := appendPages(injected, models.FamilyApplication, appRef.Name, applicationLevel); err != nil {
		return nil, err
	}
	if err := appendPages(certificate.Pages, models.FamilyCertificate, certRef.Name, certificateLevel); err != nil {
		return nil, err
	}
	if err := checkQuestionIDsUnique(form.Pages); err != nil {
		return nil, err
	}

	if m.logger != nil {
		m.logger.DebugContext(ctx, "form merged",
			"form", form.FormName,
			"pages", len(form.Pages))
	}
	return form, nil
}

// mergePage derives the page type and occurrence count and copies the page's
// questions into the merged representation in authored order.
//
// Occurrence-to-field binding is positional (the Nth bound field serves the
// Nth occurrence), so every multi-field question on a page must bind the same
// number of fields. That is checked here, at merge time, to fail fast on
// malformed templates instead of surfacing later as a mapping error.
func (m *Merger) mergePage(page models.FormPage, pageNumber int, family models.TemplateFamily, templateName string, category models.PageCategory) (models.MergedFormPage, error) {
	occurrences := 1
	for _, q := range page.Questions {
		if len(q.Fields) > occurrences {
			occurrences = len(q.Fields)
		}
	}
	if occurrences > 1 {
		for _, q := range page.Questions {
			if len(q.Fields) != 0 && len(q.Fields) != occurrences {
				return models.MergedFormPage{}, dErrors.Newf(dErrors.CodeInvariantViolation,
					"page %q: question %s binds %d fields but the page repeats %d times",
					page.Title, q.ID, len(q.Fields), occurrences)
			}
		}
	}

	pageType := models.PageSingular
	if occurrences > 1 {
		pageType = models.PageRepeatable
	}

	merged := models.MergedFormPage{
		PageNumber:  pageNumber,
		Type:        pageType,
		Occurrences: occurrences,
		Category:    category,
		Title:       page.Title,
		Subtitle:    page.Subtitle,
		Hint:        page.Hint,
	}

	for _, q := range sortedQuestions(page.Questions) {
		merged.Questions = append(merged.Questions, models.MergedFormQuestion{
			FormQuestion: q,
			TemplateName: templateName,
			Family:       family,
			PageNumber:   pageNumber,
			PageType:     pageType,
			Occurrences:  occurrences,
			Category:     category,
		})
	}
	return merged, nil
}

// checkQuestionIDsUnique rejects a merged form where two pages carry the same
// question id. Answers and populator lookups key on question id, so a
// duplicate would silently bind one page's answer to another's question.
func checkQuestionIDsUnique(pages []models.MergedFormPage) error {
	seen := make(map[id.QuestionID]int)
	for _, page := range pages {
		for _, q := range page.Questions {
			if firstPage, dup := seen[q.ID]; dup {
				return dErrors.Newf(dErrors.CodeInvariantViolation,
					"question %s appears on both page %d and page %d", q.ID, firstPage, page.PageNumber)
			}
			seen[q.ID] = page.PageNumber
		}
	}
	return nil
}

func sortedByOrder(pages []models.FormPage) []models.FormPage {
	out := make([]models.FormPage, len(pages))
	copy(out, pages)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func sortedQuestions(questions []models.FormQuestion) []models.FormQuestion {
	out := make([]models.FormQuestion, len(questions))
	copy(out, questions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
