// Package ports defines the interfaces the form pipeline consumes.
//
// The pipeline performs no I/O of its own; callers feed it template, answer,
// and reference data through these ports. Port models are plain domain
// structs, so the core never depends on store or transport types, and
// in-process adapters can be swapped for remote ones without touching the
// pipeline.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	form "certform/internal/form/models"
	id "certform/pkg/domain"
)

// CertificateDefinition is the pipeline's view of one certificate template
// version.
type CertificateDefinition struct {
	Ref   form.TemplateRef
	Pages []form.FormPage
	// TemplateFiles are the document files rendering needs, passed through to
	// the mapper output.
	TemplateFiles []string
	// MaxConsignments is 1 for single-certificate templates.
	MaxConsignments int
	// Populators names the field populators to run at render time, in the
	// order the template declares them.
	Populators []string
}

// SupportsMultiples reports whether applications against this template may
// hold more than one certificate.
func (d *CertificateDefinition) SupportsMultiples() bool {
	return d.MaxConsignments > 1
}

// TemplateDirectory resolves template definitions. Implementations must
// signal "not found" distinctly from "found but unavailable" (on hold or
// withdrawn), using the corresponding domain error codes.
type TemplateDirectory interface {
	// ApplicationPages returns the ordered pages of an application template.
	ApplicationPages(ctx context.Context, ref form.TemplateRef) ([]form.FormPage, error)
	// Certificate returns a certificate template definition, enforcing its
	// availability.
	Certificate(ctx context.Context, ref form.TemplateRef) (*CertificateDefinition, error)
}

// SystemPageSupplier returns the pages the system injects between the two
// templates (the certificate-reference page for multi-certificate templates).
type SystemPageSupplier interface {
	SystemPages(ctx context.Context, appRef, certRef form.TemplateRef) ([]form.FormPage, error)
}

// ApplicationRecord is the pipeline's read-only view of one application.
type ApplicationRecord struct {
	ID             id.ApplicationID
	Applicant      string
	ApplicationRef form.TemplateRef
	CertificateRef form.TemplateRef
	SubmittedAt    *time.Time
	Items          []form.ResponseItem
	Consignments   []form.Consignment
}

// ReferenceTime returns the instant date-boundary validation measures
// against: the submission time once submitted, otherwise the supplied now.
func (r *ApplicationRecord) ReferenceTime(now time.Time) time.Time {
	if r.SubmittedAt != nil {
		return *r.SubmittedAt
	}
	return now
}

// AnswerSource supplies the current answers and consignments of an
// application. The pipeline never writes back.
type AnswerSource interface {
	Application(ctx context.Context, appID id.ApplicationID) (*ApplicationRecord, error)
}

// Country is the pipeline's view of one destination country.
type Country struct {
	Code string
	Name string
	// LocationGroup marks codes that stand for several countries; document
	// rendering suppresses the destination-country field for groups.
	LocationGroup bool
}

// CountryDirectory resolves countries for field population.
type CountryDirectory interface {
	ByCode(ctx context.Context, code string) (Country, error)
}

// Commodity is one inspected commodity line.
type Commodity struct {
	Description string
	Quantity    string
	Unit        string
}

// Treatment is one chemical treatment applied to a consignment.
type Treatment struct {
	Chemical      string
	Duration      string
	Concentration string
}

// CaseRecord is the backend's certification case for an application.
type CaseRecord struct {
	CommodityGroup         string
	Commodities            []Commodity
	Treatments             []Treatment
	TransportMode          string
	CertificateSerial      string
	AdditionalDeclarations []string
	TradeStatus            string
	ReForwarded            bool
}

// CaseDataSource supplies backend case records, read-only.
type CaseDataSource interface {
	Record(ctx context.Context, appID id.ApplicationID) (*CaseRecord, error)
}
