package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fee is one flat per-guest fee attached to a tour.
type Fee struct {
	Name     string          `json:"name"`
	PerGuest decimal.Decimal `json:"per_guest"`
}

// FeeSchedule maps a tour name to its ordered fees.
type FeeSchedule struct {
	tours map[string][]Fee
	names []string
}

// NewFeeSchedule returns an empty schedule.
func NewFeeSchedule() *FeeSchedule {
	return &FeeSchedule{tours: make(map[string][]Fee)}
}

// Add appends a fee to a tour. Negative per-guest amounts are rejected.
func (s *FeeSchedule) Add(tour string, fee Fee) error {
	if fee.PerGuest.IsNegative() {
		return fmt.Errorf("fee %q on tour %q has negative per-guest amount %s", fee.Name, tour, fee.PerGuest)
	}
	if _, ok := s.tours[tour]; !ok {
		s.names = append(s.names, tour)
	}
	s.tours[tour] = append(s.tours[tour], fee)
	return nil
}

// Fees returns the fees mapped to a tour, in insertion order. A nil schedule
// or unmapped tour yields no fees.
func (s *FeeSchedule) Fees(tour string) []Fee {
	if s == nil {
		return nil
	}
	return s.tours[tour]
}

// Tours returns the mapped tour names in insertion order.
func (s *FeeSchedule) Tours() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// MappingType classifies what a source item maps to.
type MappingType string

const (
	MappingTourRevenue          MappingType = "tour_revenue"
	MappingFeeRevenue           MappingType = "fee_revenue"
	MappingPaymentType          MappingType = "payment_type"
	MappingProcessingFeeExpense MappingType = "processing_fee_expense"
	MappingSalesVATLiability    MappingType = "sales_vat_liability"
)

// Well-known source items for the single-account mapping types.
const (
	ItemProcessingFees = "Processing Fees"
	ItemSalesVAT       = "Sales VAT"
)

// ParseMappingType validates a stored mapping type.
func ParseMappingType(s string) (MappingType, error) {
	switch t := MappingType(s); t {
	case MappingTourRevenue, MappingFeeRevenue, MappingPaymentType, MappingProcessingFeeExpense, MappingSalesVATLiability:
		return t, nil
	}
	return "", fmt.Errorf("unknown mapping type %q", s)
}

// AccountMapping maps a (type, item) pair onto a ledger account.
type AccountMapping struct {
	Type           MappingType `json:"type"`
	Item           string      `json:"item"`
	AccountName    string      `json:"account_name"`
	AccountID      string      `json:"account_id,omitempty"`
	Classification string      `json:"classification,omitempty"`
	Active         bool        `json:"active"`
}

type mappingKey struct {
	Type MappingType
	Item string
}

// AccountMappings is an immutable lookup table of active account mappings.
type AccountMappings struct {
	active map[mappingKey]AccountMapping
}

// NewAccountMappings indexes the given mappings. Inactive mappings are
// dropped; two active mappings for the same (type, item) pair are an error.
func NewAccountMappings(mappings []AccountMapping) (*AccountMappings, error) {
	m := &AccountMappings{active: make(map[mappingKey]AccountMapping)}
	for _, mapping := range mappings {
		if !mapping.Active {
			continue
		}
		key := mappingKey{Type: mapping.Type, Item: mapping.Item}
		if existing, ok := m.active[key]; ok {
			return nil, fmt.Errorf("duplicate active %s mapping for %q: %q and %q", mapping.Type, mapping.Item, existing.AccountName, mapping.AccountName)
		}
		m.active[key] = mapping
	}
	return m, nil
}

// Lookup returns the active mapping for a (type, item) pair.
func (m *AccountMappings) Lookup(t MappingType, item string) (AccountMapping, bool) {
	if m == nil {
		return AccountMapping{}, false
	}
	mapping, ok := m.active[mappingKey{Type: t, Item: item}]
	return mapping, ok
}

// Len returns the number of active mappings.
func (m *AccountMappings) Len() int {
	if m == nil {
		return 0
	}
	return len(m.active)
}
