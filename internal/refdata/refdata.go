// Package refdata serves reference data lookups. Countries are a small,
// static dataset loaded at startup, so the in-memory implementation is also
// the production one.
package refdata

import (
	"context"
	"strings"
	"sync"

	dErrors "certform/pkg/domain-errors"
)

// Country is one destination the exporter may ship to. A location group (for
// example "EU") stands for several countries; document rendering suppresses
// the destination-country field for groups because no single country name
// applies.
type Country struct {
	Code          string
	Name          string
	LocationGroup bool
}

// Directory resolves countries by code or display name.
type Directory struct {
	mu     sync.RWMutex
	byCode map[string]Country
	byName map[string]Country
}

// NewDirectory builds a Directory over the given dataset.
func NewDirectory(countries []Country) *Directory {
	d := &Directory{
		byCode: make(map[string]Country, len(countries)),
		byName: make(map[string]Country, len(countries)),
	}
	for _, c := range countries {
		d.byCode[strings.ToUpper(c.Code)] = c
		d.byName[strings.ToLower(c.Name)] = c
	}
	return d
}

// ByCode resolves a country by its code, case-insensitively.
func (d *Directory) ByCode(ctx context.Context, code string) (Country, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	country, ok := d.byCode[strings.ToUpper(code)]
	if !ok {
		return Country{}, dErrors.Newf(dErrors.CodeNotFound, "unknown country code %q", code)
	}
	return country, nil
}

// ByName resolves a country by its display name, case-insensitively.
func (d *Directory) ByName(ctx context.Context, name string) (Country, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	country, ok := d.byName[strings.ToLower(name)]
	if !ok {
		return Country{}, dErrors.Newf(dErrors.CodeNotFound, "unknown country %q", name)
	}
	return country, nil
}
