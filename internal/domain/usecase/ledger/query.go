package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/moneytrail/ledger/internal/domain/entity"
)

// DefaultPageSize is the fixed page size for transaction listings
const DefaultPageSize = 10

// Filter is the typed criteria structure for transaction listings. Zero
// values mean "no constraint". Page is 1-indexed; values below 1 behave as 1.
type Filter struct {
	Kind              *entity.Kind
	StartDate         *time.Time // inclusive, compared on the calendar date
	EndDate           *time.Time // inclusive, compared on the calendar date
	DescriptionSearch string     // case-insensitive substring
	CodeSearch        string     // raw id or TRN-prefixed display code
	Page              int
}

// Page is one page of a filtered, balance-annotated listing
type Page struct {
	Transactions []entity.Transaction
	HasMore      bool
}

// Assembler slices engine output for external consumption. Filters select
// membership only; running balances were computed over the full set and are
// never recomputed for a filtered view.
type Assembler struct {
	pageSize int
	loc      *time.Location
}

// NewAssembler creates a query assembler with the given page size
// (DefaultPageSize when zero) and date-bucketing location.
func NewAssembler(pageSize int, loc *time.Location) *Assembler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Assembler{pageSize: pageSize, loc: loc}
}

// Apply filters and paginates the view's display sequence. The returned page
// preserves the engine's newest-first order and attached balances.
func (a *Assembler) Apply(view LedgerView, filter Filter) Page {
	matched := make([]entity.Transaction, 0, len(view.Transactions))
	for _, transaction := range view.Transactions {
		if a.matches(&transaction, filter) {
			matched = append(matched, transaction)
		}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * a.pageSize
	limit := offset + a.pageSize

	result := Page{HasMore: len(matched) > limit}
	switch {
	case offset >= len(matched):
		result.Transactions = []entity.Transaction{}
	case limit > len(matched):
		result.Transactions = matched[offset:]
	default:
		result.Transactions = matched[offset:limit]
	}
	return result
}

func (a *Assembler) matches(transaction *entity.Transaction, filter Filter) bool {
	if filter.Kind != nil && transaction.Kind != *filter.Kind {
		return false
	}

	if filter.StartDate != nil || filter.EndDate != nil {
		date := transaction.DateIn(a.loc)
		if filter.StartDate != nil && date < filter.StartDate.Format("2006-01-02") {
			return false
		}
		if filter.EndDate != nil && date > filter.EndDate.Format("2006-01-02") {
			return false
		}
	}

	if filter.DescriptionSearch != "" {
		if !strings.Contains(strings.ToLower(transaction.Description), strings.ToLower(filter.DescriptionSearch)) {
			return false
		}
	}

	if filter.CodeSearch != "" {
		id, ok := parseCodeSearch(filter.CodeSearch)
		if !ok || transaction.ID != id {
			return false
		}
	}

	return true
}

// parseCodeSearch accepts either a raw integer or a TRN-prefixed display
// code. Non-numeric input matches nothing rather than erroring.
func parseCodeSearch(code string) (uint64, bool) {
	raw := strings.TrimPrefix(code, "TRN-")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
