package gateway

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var amountReplacer = strings.NewReplacer("$", "", ",", "", `"`, "", "'", "", " ", "")

// ParseAmount parses a currency-formatted cell such as "$1,234.50",
// "-$0.81" or "(12.00)". Blank cells yield a null amount without error;
// unparsable cells yield a null amount and an error.
func ParseAmount(raw string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(raw)
	if isNullToken(s) {
		return decimal.NullDecimal{}, nil
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = amountReplacer.Replace(s)
	if s == "" || s == "-" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("could not parse amount '%s': %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return domain.Amount(d), nil
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "nat", "none", "null", "n/a":
		return true
	}
	return false
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
	"Mon, January 2, 2006",
	"Mon, January 2, 2006 3:04 PM",
	"Monday, January 2, 2006",
}

// ParseDate parses the date formats found in platform and ledger exports,
// including spreadsheet serial dates. Blank cells yield nil without error.
func ParseDate(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if isNullToken(s) {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("could not parse date '%s'", raw)
}

// ParseFlag reports whether the trimmed, lower-cased value is one of members.
func ParseFlag(raw string, members ...string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range members {
		if v == m {
			return true
		}
	}
	return false
}

// coercions counts cells that failed to parse, per column, so a loader can
// report them as one aggregated warning per column.
type coercions struct {
	source   domain.SourceKind
	failures map[string]int
	samples  map[string]string
}

func newCoercions(source domain.SourceKind) *coercions {
	return &coercions{source: source, failures: make(map[string]int), samples: make(map[string]string)}
}

func (c *coercions) amount(cols columnSet, row []string, col string) decimal.NullDecimal {
	if !cols.has(col) {
		return decimal.NullDecimal{}
	}
	raw := cols.get(row, col)
	v, err := ParseAmount(raw)
	if err != nil {
		c.record(col, raw)
	}
	return v
}

func (c *coercions) date(cols columnSet, row []string, col string) *time.Time {
	if !cols.has(col) {
		return nil
	}
	raw := cols.get(row, col)
	v, err := ParseDate(raw)
	if err != nil {
		c.record(col, raw)
	}
	return v
}

func (c *coercions) record(col, raw string) {
	if c.failures[col] == 0 {
		c.samples[col] = raw
	}
	c.failures[col]++
}

func (c *coercions) warnings() []domain.Warning {
	cols := make([]string, 0, len(c.failures))
	for col := range c.failures {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	out := make([]domain.Warning, 0, len(cols))
	for _, col := range cols {
		out = append(out, domain.NewWarning(domain.KindValueCoercion, string(c.source),
			"%d value(s) in column %q could not be parsed and were treated as missing (e.g. %q)", c.failures[col], col, c.samples[col]))
	}
	return out
}
