package lifecycle

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// Jurisdiction is a filing territory.
type Jurisdiction string

const (
	JurisdictionIndia  Jurisdiction = "India"
	JurisdictionUS     Jurisdiction = "US"
	JurisdictionUK     Jurisdiction = "UK"
	JurisdictionPCT    Jurisdiction = "PCT"
	JurisdictionEurope Jurisdiction = "Europe"
)

// DefaultCurrencySymbol is used for portfolios spanning several jurisdictions
// and for PCT filings.
const DefaultCurrencySymbol = "₹"

// JurisdictionInfo holds metadata about a jurisdiction.
type JurisdictionInfo struct {
	Code           Jurisdiction `json:"code"`
	Name           string       `json:"name"`
	CurrencySymbol string       `json:"currency_symbol"`
	order          int
}

// JurisdictionRegistry provides lookup and alias normalisation.
type JurisdictionRegistry interface {
	Get(code string) (*JurisdictionInfo, error)
	Normalize(code string) (Jurisdiction, error)
	List() []*JurisdictionInfo
}

// InMemoryJurisdictionRegistry is an in-memory implementation of JurisdictionRegistry.
type InMemoryJurisdictionRegistry struct {
	jurisdictions map[Jurisdiction]*JurisdictionInfo
	aliases       map[string]Jurisdiction
}

// NewJurisdictionRegistry creates a registry with the supported territories.
func NewJurisdictionRegistry() *InMemoryJurisdictionRegistry {
	r := &InMemoryJurisdictionRegistry{
		jurisdictions: make(map[Jurisdiction]*JurisdictionInfo),
		aliases:       make(map[string]Jurisdiction),
	}
	r.init()
	return r
}

func (r *InMemoryJurisdictionRegistry) init() {
	r.add(JurisdictionIndia, "India", "₹", "IN", "IND", "IPO")
	r.add(JurisdictionUS, "United States", "$", "USA", "USPTO", "UNITED STATES")
	r.add(JurisdictionUK, "United Kingdom", "£", "GB", "GBR", "UKIPO", "UNITED KINGDOM")
	r.add(JurisdictionPCT, "Patent Cooperation Treaty", DefaultCurrencySymbol, "WO", "WIPO")
	r.add(JurisdictionEurope, "European Patent Office", "€", "EP", "EPO", "EU")
}

func (r *InMemoryJurisdictionRegistry) add(code Jurisdiction, name, symbol string, aliases ...string) {
	r.jurisdictions[code] = &JurisdictionInfo{
		Code:           code,
		Name:           name,
		CurrencySymbol: symbol,
		order:          len(r.jurisdictions),
	}
	r.aliases[strings.ToUpper(string(code))] = code
	for _, a := range aliases {
		r.aliases[strings.ToUpper(a)] = code
	}
}

// Get returns information for a jurisdiction code or alias.
func (r *InMemoryJurisdictionRegistry) Get(code string) (*JurisdictionInfo, error) {
	normalized, err := r.Normalize(code)
	if err != nil {
		return nil, err
	}
	info := *r.jurisdictions[normalized]
	return &info, nil
}

// Normalize converts a code or alias to the canonical Jurisdiction.
func (r *InMemoryJurisdictionRegistry) Normalize(code string) (Jurisdiction, error) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if j, ok := r.aliases[upper]; ok {
		return j, nil
	}
	return "", errors.Validation(errors.ErrCodeValidation, "invalid jurisdiction").WithDetail("jurisdiction=" + code)
}

// List returns all supported jurisdictions in declaration order.
func (r *InMemoryJurisdictionRegistry) List() []*JurisdictionInfo {
	list := make([]*JurisdictionInfo, 0, len(r.jurisdictions))
	for _, info := range r.jurisdictions {
		cp := *info
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].order < list[j].order })
	return list
}

var defaultJurisdictions = NewJurisdictionRegistry()

// ParseJurisdiction normalises raw against the built-in registry.
func ParseJurisdiction(raw string) (Jurisdiction, error) {
	return defaultJurisdictions.Normalize(raw)
}

// IsValid reports whether j is a canonical jurisdiction.
func (j Jurisdiction) IsValid() bool {
	_, ok := defaultJurisdictions.jurisdictions[j]
	return ok
}

// UnmarshalJSON accepts canonical codes and aliases such as "IN" or "EP".
func (j *Jurisdiction) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := ParseJurisdiction(raw)
	if err != nil {
		return err
	}
	*j = v
	return nil
}

// CurrencySymbol returns the fee currency symbol for a set of jurisdictions.
// A single national or regional jurisdiction uses its own symbol; anything
// else falls back to DefaultCurrencySymbol.
func CurrencySymbol(jurisdictions []Jurisdiction) string {
	if len(jurisdictions) != 1 {
		return DefaultCurrencySymbol
	}
	if info, ok := defaultJurisdictions.jurisdictions[jurisdictions[0]]; ok {
		return info.CurrencySymbol
	}
	return DefaultCurrencySymbol
}

//Personal.AI order the ending
