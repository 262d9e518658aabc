// Package casedata exposes read-only backend case records: inspection
// outcomes, treatments, declarations, and trade status gathered outside this
// service. The form pipeline's populators read these when composing
// certificate document fields; nothing here is ever written by this module.
package casedata

import (
	"context"
	"sync"

	id "certform/pkg/domain"
	dErrors "certform/pkg/domain-errors"
)

// Commodity is one inspected commodity line on a consignment.
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

// CaseRecord is the backend's view of one application's certification case.
type CaseRecord struct {
	ApplicationID          id.ApplicationID
	CommodityGroup         string
	Commodities            []Commodity
	Treatments             []Treatment
	TransportMode          string
	CertificateSerial      string
	AdditionalDeclarations []string
	TradeStatus            string
	ReForwarded            bool
}

// Source supplies case records for an application. The production
// implementation calls the certification backend; InMemory backs tests and
// local development.
type Source interface {
	Record(ctx context.Context, appID id.ApplicationID) (*CaseRecord, error)
}

// InMemory implements Source over a map.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.ApplicationID]*CaseRecord
}

// NewInMemory creates an empty in-memory case data source.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.ApplicationID]*CaseRecord)}
}

// Put stores a record for an application.
func (s *InMemory) Put(record *CaseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ApplicationID] = record
}

func (s *InMemory) Record(ctx context.Context, appID id.ApplicationID) (*CaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[appID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "no case record for application %s", appID)
	}
	return record, nil
}
