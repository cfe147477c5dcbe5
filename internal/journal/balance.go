package journal

import (
	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
)

// Balance closes small gaps between debits and credits. A difference above
// tolerance and at most limit is absorbed by one Rounding Difference line;
// anything larger is left in place and reported as an imbalance. The final
// debit and credit totals are written to j.Totals.
func Balance(j *domain.Journal, tolerance, limit decimal.Decimal) {
	debits, credits := j.Sums()
	diff := debits.Sub(credits)
	abs := diff.Abs()

	switch {
	case abs.LessThanOrEqual(tolerance):
	case abs.LessThanOrEqual(limit):
		line := domain.JournalLine{
			EntryNumber: j.EntryNumber,
			Date:        j.Date,
			Category:    domain.CategoryRounding,
			Account:     RoundingAccount,
			Description: "Rounding adjustment",
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Memo:        "Automatic adjustment to balance journal entry",
		}
		if diff.IsPositive() {
			line.Credit = abs
		} else {
			line.Debit = abs
		}
		j.Lines = append(j.Lines, line)
		j.Totals.RoundingAdjustment = j.Totals.RoundingAdjustment.Add(diff)
		debits, credits = j.Sums()
	default:
		j.Warnings = append(j.Warnings, domain.NewWarning(domain.KindImbalance, "journal",
			"journal %s does not balance: debits $%s, credits $%s, difference $%s exceeds the $%s rounding limit",
			j.EntryNumber, debits.StringFixed(2), credits.StringFixed(2), diff.StringFixed(2), limit.StringFixed(2)))
	}

	j.Totals.TotalDebits = debits
	j.Totals.TotalCredits = credits
}
