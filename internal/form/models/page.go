package models

import (
	dErrors "certform/pkg/domain-errors"
)

// TemplateFamily distinguishes the two independently versioned template
// families a form is composed from.
type TemplateFamily string

const (
	// FamilyCertificate is the versioned definition of the certificate being
	// applied for. Its pages drive consignment-level tagging.
	FamilyCertificate TemplateFamily = "CERTIFICATE"
	// FamilyApplication is the versioned definition of the generic application
	// form. Its pages are always application-level.
	FamilyApplication TemplateFamily = "APPLICATION"
)

// TemplateRef names one version of one template.
type TemplateRef struct {
	Family  TemplateFamily
	Name    string
	Version int
}

func (r TemplateRef) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "template name is required")
	}
	if r.Version < 1 {
		return dErrors.Newf(dErrors.CodeInvalidInput, "template version must be positive, got %d", r.Version)
	}
	if r.Family != FamilyCertificate && r.Family != FamilyApplication {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown template family %q", r.Family)
	}
	return nil
}

// SystemPageNumber is the reserved internal page number carried by
// system-injected pages before merge renumbers them into the final sequence.
const SystemPageNumber = -1

// FormPage is a page as authored on a template, or injected by the system.
type FormPage struct {
	Title    string
	Subtitle string
	Hint     string
	Order    int
	// RepeatsPerConsignment marks a certificate-template page that repeats
	// once per certificate in a multi-certificate application.
	RepeatsPerConsignment bool
	Questions             []FormQuestion
}

// PageType says whether a merged page renders once or once per occurrence.
type PageType string

const (
	PageSingular   PageType = "SINGULAR"
	PageRepeatable PageType = "REPEATABLE"
)

// PageCategory controls whether answers on the page are shared across all
// certificates of an application or specific to one.
type PageCategory string

const (
	CategoryApplicationLevel PageCategory = "APPLICATION_LEVEL"
	CategoryCommon           PageCategory = "COMMON_FOR_ALL_CERTIFICATES"
	CategoryCertificateLevel PageCategory = "CERTIFICATE_LEVEL"
)

// MergedFormPage is one page in the final question sequence after combining
// both templates and any injected pages.
//
// Invariants (established by the merge engine):
//   - PageNumber values across a merged sequence are 1..N, strictly increasing
//   - Occurrences == 1 for SINGULAR pages
//   - Occurrences == bound field count of every question for REPEATABLE pages
type MergedFormPage struct {
	PageNumber  int
	Type        PageType
	Occurrences int
	Category    PageCategory
	Title       string
	Subtitle    string
	Hint        string
	Questions   []MergedFormQuestion
}

// MergedFormQuestion is a FormQuestion annotated with its owning template
// family and the page context it was merged into. Page attributes are
// denormalized onto the question so the validator and mapper can work from a
// flat question list.
type MergedFormQuestion struct {
	FormQuestion

	TemplateName string
	Family       TemplateFamily
	PageNumber   int
	PageType     PageType
	Occurrences  int
	Category     PageCategory
}

// FieldAt returns the template field bound at the given page occurrence.
func (q MergedFormQuestion) FieldAt(occurrence int) (TemplateField, bool) {
	if occurrence < 0 || occurrence >= len(q.Fields) {
		return TemplateField{}, false
	}
	return q.Fields[occurrence], true
}

// MergedForm is the complete output of the merge engine: the ordered page
// sequence plus the certificate-template attributes later stages need.
type MergedForm struct {
	FormName string
	Pages    []MergedFormPage
	// TemplateFiles are passed through to the mapper output untouched.
	TemplateFiles []string
	// MaxConsignments is 1 for single-certificate forms.
	MaxConsignments int
	// Populators names the field populators to run at render time, in
	// template-declared order.
	Populators []string
}

// SupportsMultiples reports whether the form accepts more than one
// certificate per application.
func (f *MergedForm) SupportsMultiples() bool {
	return f.MaxConsignments > 1
}

// Questions flattens a merged page sequence into its question list, preserving
// page order then authored question order.
func Questions(pages []MergedFormPage) []MergedFormQuestion {
	var questions []MergedFormQuestion
	for _, page := range pages {
		questions = append(questions, page.Questions...)
	}
	return questions
}
