package mapfields

import (
	"fmt"
	"strings"

	"certform/internal/form/models"
	"certform/internal/form/ports"
	id "certform/pkg/domain"
)

// Snapshot is the read-only data populators draw from: the application and
// the consignment being rendered, the backend case record, and the countries
// already resolved for the application's answers. Resolution happens in the
// orchestrator so populators stay pure.
type Snapshot struct {
	Application *ports.ApplicationRecord
	Consignment *models.Consignment
	Case        *ports.CaseRecord
	Origin      *ports.Country
	Destination *ports.Country
}

// Answer returns the first non-empty answer for a question id, preferring the
// consignment's answers over the application's shared ones.
func (s Snapshot) Answer(questionID id.QuestionID) string {
	if s.Consignment != nil {
		for _, item := range s.Consignment.Items {
			if item.QuestionID == questionID && !item.IsEmpty() {
				return item.Answer
			}
		}
	}
	if s.Application == nil {
		return ""
	}
	for _, item := range s.Application.Items {
		if item.QuestionID == questionID && !item.IsEmpty() {
			return item.Answer
		}
	}
	return ""
}

// Populator fills zero or more named document fields from the snapshot.
// Populators run in template-declared order and never conflict on field
// names; each is independent of the per-question mapping loop.
type Populator func(s Snapshot) map[string]string

// registry maps the names templates declare to their populators.
var registry = map[string]Populator{
	"exporterDetails":        populateExporterDetails,
	"packerDetails":          populatePackerDetails,
	"commodityDescription":   populateCommodityDescription,
	"countryNames":           populateCountryNames,
	"treatmentDetails":       populateTreatmentDetails,
	"transportMode":          populateTransportMode,
	"certificateSerial":      populateCertificateSerial,
	"additionalDeclarations": populateAdditionalDeclarations,
	"reForwarding":           populateReForwarding,
}

// ForNames resolves populators in declared order. Unknown names are dropped;
// a template referencing a populator this build does not know about renders
// without those fields rather than failing.
func ForNames(names []string) []Populator {
	populators := make([]Populator, 0, len(names))
	for _, name := range names {
		if p, ok := registry[name]; ok {
			populators = append(populators, p)
		}
	}
	return populators
}

// Run applies populators in order, merging their partial field maps.
func Run(populators []Populator, s Snapshot) map[string]string {
	fields := make(map[string]string)
	for _, populate := range populators {
		for name, value := range populate(s) {
			fields[name] = value
		}
	}
	return fields
}

// populateExporterDetails composes the exporter name-and-address block.
func populateExporterDetails(s Snapshot) map[string]string {
	return addressBlock(s, "exporter name and address",
		"exporterName", "exporterAddress", "exporterPostcode")
}

// populatePackerDetails composes the packer name-and-address block. Packing
// may happen at a different premises than export, so the document carries
// both blocks.
func populatePackerDetails(s Snapshot) map[string]string {
	return addressBlock(s, "packer name and address",
		"packerName", "packerAddress", "packerPostcode")
}

// addressBlock joins the answered lines of a name-and-address question group
// into one multi-line field. Unanswered lines are skipped rather than left as
// blank rows.
func addressBlock(s Snapshot, field string, questionIDs ...id.QuestionID) map[string]string {
	var lines []string
	for _, questionID := range questionIDs {
		if value := s.Answer(questionID); value != "" {
			lines = append(lines, value)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return map[string]string{field: strings.Join(lines, "\n")}
}

// Column widths of the commodity table on the rendered document.
const (
	commodityDescriptionWidth = 40
	commodityQuantityWidth    = 12
)

// populateCommodityDescription builds the fixed-width commodity lines from
// the backend case record.
func populateCommodityDescription(s Snapshot) map[string]string {
	if s.Case == nil || len(s.Case.Commodities) == 0 {
		return nil
	}
	lines := make([]string, 0, len(s.Case.Commodities))
	for _, c := range s.Case.Commodities {
		line := fmt.Sprintf("%s%s%s",
			padded(c.Description, commodityDescriptionWidth),
			padded(c.Quantity, commodityQuantityWidth),
			c.Unit)
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return map[string]string{"commodity description": strings.Join(lines, "\n")}
}

// populateCountryNames resolves answer country codes to display names. A
// destination that denotes a location group covers several countries, so its
// field is left unpopulated for the certifier to complete.
func populateCountryNames(s Snapshot) map[string]string {
	fields := make(map[string]string)
	if s.Origin != nil {
		fields["country of origin"] = s.Origin.Name
	}
	if s.Destination != nil && !s.Destination.LocationGroup {
		fields["country of destination"] = s.Destination.Name
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Column width of the treatment table; values are padded so the chemical,
// duration, and concentration columns line up across treatments.
const treatmentColumnWidth = 20

func populateTreatmentDetails(s Snapshot) map[string]string {
	if s.Case == nil || len(s.Case.Treatments) == 0 {
		return nil
	}
	var chemicals, durations, concentrations []string
	for _, t := range s.Case.Treatments {
		chemicals = append(chemicals, padded(t.Chemical, treatmentColumnWidth))
		durations = append(durations, padded(t.Duration, treatmentColumnWidth))
		concentrations = append(concentrations, padded(t.Concentration, treatmentColumnWidth))
	}
	return map[string]string{
		"treatment chemical":      strings.TrimRight(strings.Join(chemicals, ""), " "),
		"treatment duration":      strings.TrimRight(strings.Join(durations, ""), " "),
		"treatment concentration": strings.TrimRight(strings.Join(concentrations, ""), " "),
	}
}

func populateTransportMode(s Snapshot) map[string]string {
	if s.Case == nil || s.Case.TransportMode == "" {
		return nil
	}
	return map[string]string{"means of conveyance": s.Case.TransportMode}
}

func populateCertificateSerial(s Snapshot) map[string]string {
	if s.Case == nil || s.Case.CertificateSerial == "" {
		return nil
	}
	return map[string]string{"certificate serial number": s.Case.CertificateSerial}
}

func populateAdditionalDeclarations(s Snapshot) map[string]string {
	if s.Case == nil || len(s.Case.AdditionalDeclarations) == 0 {
		return nil
	}
	return map[string]string{"additional declarations": strings.Join(s.Case.AdditionalDeclarations, "\n")}
}

// populateReForwarding writes the re-forwarding declaration checkboxes.
func populateReForwarding(s Snapshot) map[string]string {
	if s.Case == nil {
		return nil
	}
	yes, no := optionFalse, optionTrue
	if s.Case.ReForwarded {
		yes, no = optionTrue, optionFalse
	}
	return map[string]string{
		"re-forwarded yes": yes,
		"re-forwarded no":  no,
	}
}

// padded right-pads a value to a fixed column width; overlong values are kept
// whole rather than truncated.
func padded(value string, width int) string {
	if len(value) >= width {
		return value + " "
	}
	return value + strings.Repeat(" ", width-len(value))
}
