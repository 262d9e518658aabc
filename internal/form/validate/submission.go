package validate

import (
	"fmt"
	"time"

	"certform/internal/form/models"
)

// ValidateSubmission runs the COMPLETE pass over a whole application: shared
// answers against the application-level and common pages, then each
// consignment in turn. Consignment-count bounds are checked first and
// short-circuit the per-question pass when violated.
//
// Pages are expected to be scope-filtered for the submitting actor.
func (v *Validator) ValidateSubmission(form *models.MergedForm, shared []models.ResponseItem, consignments []models.Consignment, now time.Time) []models.ValidationError {
	if form.SupportsMultiples() {
		if len(consignments) == 0 {
			return []models.ValidationError{{
				Constraint: models.ConstraintConsignmentCount,
				Message:    noConsignmentsMessage,
			}}
		}
		if len(consignments) > form.MaxConsignments {
			return []models.ValidationError{{
				Constraint: models.ConstraintConsignmentCount,
				Message:    fmt.Sprintf(tooManyConsignmentsFormat, form.MaxConsignments),
			}}
		}
	}

	errs := v.Validate(pagesByCategory(form.Pages, models.CategoryApplicationLevel), shared, models.ModeComplete, now)
	if !form.SupportsMultiples() {
		certPages := pagesByCategory(form.Pages, models.CategoryCommon, models.CategoryCertificateLevel)
		return append(errs, v.Validate(certPages, shared, models.ModeComplete, now)...)
	}

	for _, consignment := range consignments {
		errs = append(errs, v.ValidateConsignment(form, shared, consignment, models.ModeComplete, now)...)
	}
	return dedupe(errs)
}

// ValidatePartial runs the PARTIAL pass over a whole application: shared
// answers against the application-level pages, then each consignment's union
// against the certificate-level and common pages. A failing shared answer on
// a common page surfaces once, not once per consignment.
func (v *Validator) ValidatePartial(form *models.MergedForm, shared []models.ResponseItem, consignments []models.Consignment, now time.Time) []models.ValidationError {
	errs := v.Validate(pagesByCategory(form.Pages, models.CategoryApplicationLevel), shared, models.ModePartial, now)

	if len(consignments) == 0 {
		certPages := pagesByCategory(form.Pages, models.CategoryCommon, models.CategoryCertificateLevel)
		return append(errs, v.Validate(certPages, shared, models.ModePartial, now)...)
	}
	for _, consignment := range consignments {
		errs = append(errs, v.ValidateConsignment(form, shared, consignment, models.ModePartial, now)...)
	}
	return dedupe(errs)
}

// ValidateConsignment evaluates the certificate-level and common pages for
// one consignment, against the union of the application's shared answers and
// the consignment's own. A question answered once at the common level is not
// re-flagged as missing for every consignment.
func (v *Validator) ValidateConsignment(form *models.MergedForm, shared []models.ResponseItem, consignment models.Consignment, mode models.ValidationMode, now time.Time) []models.ValidationError {
	pages := pagesByCategory(form.Pages, models.CategoryCommon, models.CategoryCertificateLevel)

	union := make([]models.ResponseItem, 0, len(shared)+len(consignment.Items))
	union = append(union, shared...)
	union = append(union, consignment.Items...)

	return v.Validate(pages, union, mode, now)
}

func pagesByCategory(pages []models.MergedFormPage, categories ...models.PageCategory) []models.MergedFormPage {
	var out []models.MergedFormPage
	for _, page := range pages {
		for _, category := range categories {
			if page.Category == category {
				out = append(out, page)
				break
			}
		}
	}
	return out
}

// dedupe drops repeated failures. Common-page questions are validated once
// per consignment; a question missing everywhere should surface once.
func dedupe(errs []models.ValidationError) []models.ValidationError {
	seen := make(map[models.ValidationError]struct{}, len(errs))
	out := errs[:0]
	for _, e := range errs {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
