package gateway

import (
	"sort"
	"time"

	"booking-reconciliation/internal/domain"

	"github.com/shopspring/decimal"
)

// maxDocNumber is the ledger's limit on journal document numbers.
const maxDocNumber = 21

// QuickBooksJournalEntry is the ledger API's journal entry document.
type QuickBooksJournalEntry struct {
	DocNumber  string           `json:"DocNumber"`
	TxnDate    string           `json:"TxnDate"`
	Adjustment bool             `json:"Adjustment"`
	Line       []QuickBooksLine `json:"Line"`
}

// QuickBooksLine is one journal entry line of the ledger API.
type QuickBooksLine struct {
	LineNum                int                  `json:"LineNum"`
	Description            string               `json:"Description,omitempty"`
	Amount                 float64              `json:"Amount"`
	DetailType             string               `json:"DetailType"`
	JournalEntryLineDetail QuickBooksLineDetail `json:"JournalEntryLineDetail"`
}

// QuickBooksLineDetail carries the posting side and target account.
type QuickBooksLineDetail struct {
	PostingType string        `json:"PostingType"`
	AccountRef  QuickBooksRef `json:"AccountRef"`
}

// QuickBooksRef references a ledger account by identifier.
type QuickBooksRef struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// QuickBooksPayload converts a journal into an API journal entry. The API
// only accepts accounts by identifier, so lines whose account has none are
// left out and reported as warnings.
func QuickBooksPayload(j *domain.Journal, now time.Time) (QuickBooksJournalEntry, []domain.Warning) {
	docNumber := now.Format("060102150405") + "-" + j.EntryNumber
	if len(docNumber) > maxDocNumber {
		docNumber = docNumber[:maxDocNumber]
	}
	entry := QuickBooksJournalEntry{
		DocNumber: docNumber,
		TxnDate:   j.Date.Format(time.DateOnly),
		Line:      []QuickBooksLine{},
	}

	var warnings []domain.Warning
	for _, l := range j.Lines {
		if l.AccountID == "" {
			warnings = append(warnings, domain.NewWarning(domain.KindMappingFallback, "quickbooks",
				"line %q on account %q has no account id and was left out of the payload", l.Description, l.Account))
			continue
		}
		posting, amount := "Debit", l.Debit
		if l.Debit.IsZero() {
			posting, amount = "Credit", l.Credit
		}
		entry.Line = append(entry.Line, QuickBooksLine{
			LineNum:     len(entry.Line) + 1,
			Description: l.Description,
			Amount:      amount.Round(2).InexactFloat64(),
			DetailType:  "JournalEntryLineDetail",
			JournalEntryLineDetail: QuickBooksLineDetail{
				PostingType: posting,
				AccountRef:  QuickBooksRef{Value: l.AccountID, Name: l.Account},
			},
		})
	}
	return entry, warnings
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
