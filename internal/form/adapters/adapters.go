// Package adapters implements the form pipeline's ports by calling the
// domain services in-process. The pipeline stays behind its narrow
// interfaces, so a remote template store or case backend can replace these
// without touching the core.
package adapters

import (
	"context"

	appService "certform/internal/application/service"
	"certform/internal/casedata"
	"certform/internal/form/models"
	"certform/internal/form/ports"
	"certform/internal/refdata"
	templateService "certform/internal/template/service"
	id "certform/pkg/domain"
)

// TemplateAdapter implements ports.TemplateDirectory and
// ports.SystemPageSupplier over the template service.
type TemplateAdapter struct {
	templates *templateService.Service
}

func NewTemplateAdapter(templates *templateService.Service) *TemplateAdapter {
	return &TemplateAdapter{templates: templates}
}

func (a *TemplateAdapter) ApplicationPages(ctx context.Context, ref models.TemplateRef) ([]models.FormPage, error) {
	return a.templates.Pages(ctx, ref)
}

func (a *TemplateAdapter) Certificate(ctx context.Context, ref models.TemplateRef) (*ports.CertificateDefinition, error) {
	template, err := a.templates.CertificateTemplate(ctx, ref)
	if err != nil {
		return nil, err
	}
	def := &ports.CertificateDefinition{
		Ref:             template.Ref(),
		Pages:           template.Pages,
		TemplateFiles:   template.TemplateFiles,
		Populators:      template.Populators,
		MaxConsignments: 1,
	}
	if template.Multiples != nil {
		def.MaxConsignments = template.Multiples.MaxConsignments
	}
	return def, nil
}

func (a *TemplateAdapter) SystemPages(ctx context.Context, appRef, certRef models.TemplateRef) ([]models.FormPage, error) {
	return a.templates.SystemPages(ctx, appRef, certRef)
}

// ApplicationAdapter implements ports.AnswerSource over the application
// service, read-only.
type ApplicationAdapter struct {
	applications *appService.Service
}

func NewApplicationAdapter(applications *appService.Service) *ApplicationAdapter {
	return &ApplicationAdapter{applications: applications}
}

func (a *ApplicationAdapter) Application(ctx context.Context, appID id.ApplicationID) (*ports.ApplicationRecord, error) {
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

// CountryAdapter implements ports.CountryDirectory over the reference data
// directory.
type CountryAdapter struct {
	directory *refdata.Directory
}

func NewCountryAdapter(directory *refdata.Directory) *CountryAdapter {
	return &CountryAdapter{directory: directory}
}

func (a *CountryAdapter) ByCode(ctx context.Context, code string) (ports.Country, error) {
	country, err := a.directory.ByCode(ctx, code)
	if err != nil {
		return ports.Country{}, err
	}
	return ports.Country{
		Code:          country.Code,
		Name:          country.Name,
		LocationGroup: country.LocationGroup,
	}, nil
}

// CaseDataAdapter implements ports.CaseDataSource over the backend case data
// source.
type CaseDataAdapter struct {
	source casedata.Source
}

func NewCaseDataAdapter(source casedata.Source) *CaseDataAdapter {
	return &CaseDataAdapter{source: source}
}

func (a *CaseDataAdapter) Record(ctx context.Context, appID id.ApplicationID) (*ports.CaseRecord, error) {
	record, err := a.source.Record(ctx, appID)
	if err != nil {
		return nil, err
	}
	out := &ports.CaseRecord{
		CommodityGroup:         record.CommodityGroup,
		TransportMode:          record.TransportMode,
		CertificateSerial:      record.CertificateSerial,
		AdditionalDeclarations: record.AdditionalDeclarations,
		TradeStatus:            record.TradeStatus,
		ReForwarded:            record.ReForwarded,
	}
	for _, c := range record.Commodities {
		out.Commodities = append(out.Commodities, ports.Commodity{
			Description: c.Description,
			Quantity:    c.Quantity,
			Unit:        c.Unit,
		})
	}
	for _, t := range record.Treatments {
		out.Treatments = append(out.Treatments, ports.Treatment{
			Chemical:      t.Chemical,
			Duration:      t.Duration,
			Concentration: t.Concentration,
		})
	}
	return out, nil
}
