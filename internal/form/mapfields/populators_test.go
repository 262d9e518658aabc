package mapfields

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"certform/internal/form/models"
	"certform/internal/form/ports"
	id "certform/pkg/domain"
)

// =============================================================================
// Populator Test Suite
// =============================================================================
// Justification for unit tests: populators write document fields no question
// maps, from backend case data. Tests verify each populator's field output,
// the fixed-width table formatting, and registry order resolution.

type PopulatorSuite struct {
	suite.Suite
}

func TestPopulatorSuite(t *testing.T) {
	suite.Run(t, new(PopulatorSuite))
}

func snapshotWithAnswers(items ...models.ResponseItem) Snapshot {
	return Snapshot{Application: &ports.ApplicationRecord{Items: items}}
}

func sharedAnswer(qid, value string) models.ResponseItem {
	return models.ResponseItem{QuestionID: id.QuestionID(qid), PageNumber: 1, Answer: value}
}

func (s *PopulatorSuite) TestExporterDetails() {
	snapshot := snapshotWithAnswers(
		sharedAnswer("exporterName", "Acme Exports"),
		sharedAnswer("exporterAddress", "1 Harbour Road"),
		sharedAnswer("exporterPostcode", "AB1 2CD"),
	)

	fields := populateExporterDetails(snapshot)

	s.Equal(map[string]string{
		"exporter name and address": "Acme Exports\n1 Harbour Road\nAB1 2CD",
	}, fields)
}

func (s *PopulatorSuite) TestExporterDetailsSkipsMissingLines() {
	fields := populateExporterDetails(snapshotWithAnswers(sharedAnswer("exporterName", "Acme Exports")))
	s.Equal(map[string]string{"exporter name and address": "Acme Exports"}, fields)

	s.Nil(populateExporterDetails(Snapshot{}))
}

func (s *PopulatorSuite) TestPackerDetails() {
	snapshot := snapshotWithAnswers(
		sharedAnswer("packerName", "Orchard Packhouse Ltd"),
		sharedAnswer("packerAddress", "14 Mill Lane"),
		sharedAnswer("packerPostcode", "EF3 4GH"),
	)

	fields := populatePackerDetails(snapshot)

	s.Equal(map[string]string{
		"packer name and address": "Orchard Packhouse Ltd\n14 Mill Lane\nEF3 4GH",
	}, fields)
	s.Nil(populatePackerDetails(Snapshot{}))
}

func (s *PopulatorSuite) TestPackerAndExporterBlocksAreIndependent() {
	snapshot := snapshotWithAnswers(
		sharedAnswer("exporterName", "Acme Exports"),
		sharedAnswer("packerName", "Orchard Packhouse Ltd"),
	)

	fields := Run(ForNames([]string{"exporterDetails", "packerDetails"}), snapshot)

	s.Equal(map[string]string{
		"exporter name and address": "Acme Exports",
		"packer name and address":   "Orchard Packhouse Ltd",
	}, fields)
}

func (s *PopulatorSuite) TestAnswerPrefersConsignmentOverShared() {
	snapshot := snapshotWithAnswers(sharedAnswer("exporterName", "Shared Exports"))
	snapshot.Consignment = &models.Consignment{
		ID:    id.NewConsignmentID(),
		Items: []models.ResponseItem{sharedAnswer("exporterName", "Consigned Exports")},
	}

	s.Equal("Consigned Exports", snapshot.Answer("exporterName"))
}

func (s *PopulatorSuite) TestCommodityDescription() {
	snapshot := Snapshot{Case: &ports.CaseRecord{
		Commodities: []ports.Commodity{
			{Description: "Braeburn apples", Quantity: "1200", Unit: "kg"},
			{Description: "Packham pears", Quantity: "80", Unit: "boxes"},
		},
	}}

	fields := populateCommodityDescription(snapshot)

	s.Require().Contains(fields, "commodity description")
	lines := fields["commodity description"]
	s.Contains(lines, "Braeburn apples")
	s.Contains(lines, "Packham pears")
	// Quantity column starts at the same offset on every line.
	s.Contains(lines, "Braeburn apples                         1200        kg")
	s.Contains(lines, "Packham pears                           80          boxes")
}

func (s *PopulatorSuite) TestCountryNames() {
	origin := &ports.Country{Code: "NZ", Name: "New Zealand"}
	destination := &ports.Country{Code: "GB", Name: "United Kingdom"}

	s.Run("both countries resolved", func() {
		fields := populateCountryNames(Snapshot{Origin: origin, Destination: destination})
		s.Equal(map[string]string{
			"country of origin":      "New Zealand",
			"country of destination": "United Kingdom",
		}, fields)
	})
	s.Run("location group suppresses the destination field", func() {
		group := &ports.Country{Code: "EU", Name: "European Union", LocationGroup: true}
		fields := populateCountryNames(Snapshot{Origin: origin, Destination: group})
		s.Equal(map[string]string{"country of origin": "New Zealand"}, fields)
	})
	s.Run("nothing resolved populates nothing", func() {
		s.Nil(populateCountryNames(Snapshot{}))
	})
}

func (s *PopulatorSuite) TestTreatmentDetails() {
	snapshot := Snapshot{Case: &ports.CaseRecord{
		Treatments: []ports.Treatment{
			{Chemical: "Methyl bromide", Duration: "2h", Concentration: "48 g/m3"},
			{Chemical: "Phosphine", Duration: "72h", Concentration: "2 g/m3"},
		},
	}}

	fields := populateTreatmentDetails(snapshot)

	s.Equal("Methyl bromide      Phosphine", fields["treatment chemical"])
	s.Equal("2h                  72h", fields["treatment duration"])
	s.Equal("48 g/m3             2 g/m3", fields["treatment concentration"])
}

func (s *PopulatorSuite) TestTransportModeAndSerial() {
	snapshot := Snapshot{Case: &ports.CaseRecord{
		TransportMode:     "Sea freight",
		CertificateSerial: "PC-2024-000123",
	}}

	s.Equal(map[string]string{"means of conveyance": "Sea freight"}, populateTransportMode(snapshot))
	s.Equal(map[string]string{"certificate serial number": "PC-2024-000123"}, populateCertificateSerial(snapshot))
	s.Nil(populateTransportMode(Snapshot{}))
}

func (s *PopulatorSuite) TestAdditionalDeclarations() {
	snapshot := Snapshot{Case: &ports.CaseRecord{
		AdditionalDeclarations: []string{"Free from Xylella fastidiosa", "Grown in a pest free area"},
	}}

	fields := populateAdditionalDeclarations(snapshot)
	s.Equal("Free from Xylella fastidiosa\nGrown in a pest free area", fields["additional declarations"])
}

func (s *PopulatorSuite) TestReForwarding() {
	s.Equal(map[string]string{
		"re-forwarded yes": "True",
		"re-forwarded no":  "False",
	}, populateReForwarding(Snapshot{Case: &ports.CaseRecord{ReForwarded: true}}))

	s.Equal(map[string]string{
		"re-forwarded yes": "False",
		"re-forwarded no":  "True",
	}, populateReForwarding(Snapshot{Case: &ports.CaseRecord{}}))
}

func (s *PopulatorSuite) TestForNamesResolvesInDeclaredOrder() {
	populators := ForNames([]string{"certificateSerial", "unknownPopulator", "transportMode"})
	s.Len(populators, 2)

	snapshot := Snapshot{Case: &ports.CaseRecord{
		TransportMode:     "Air freight",
		CertificateSerial: "PC-2024-0009",
	}}
	fields := Run(populators, snapshot)
	s.Equal(map[string]string{
		"certificate serial number": "PC-2024-0009",
		"means of conveyance":       "Air freight",
	}, fields)
}
