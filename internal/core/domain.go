package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month identifies a calendar month as "YYYY-MM". It is the key under which
// a user's ledger data is partitioned.
type Month string

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// Validate checks the "YYYY-MM" shape and the month range.
func (m Month) Validate() error {
	s := string(m)
	if len(s) != 7 || s[4] != '-' {
		return fmt.Errorf("month %q must be YYYY-MM: %w", s, ErrValidation)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year < 1 {
		return fmt.Errorf("month %q has invalid year: %w", s, ErrValidation)
	}
	mon, err := strconv.Atoi(s[5:])
	if err != nil || mon < 1 || mon > 12 {
		return fmt.Errorf("month %q has invalid month: %w", s, ErrValidation)
	}
	return nil
}

// Category is a named spending bucket. Spent is derived from the transaction
// list and is overwritten by every Recompute; it is stored only so the
// persisted blob is self-describing.
type Category struct {
	Limit Money `json:"limit"`
	Spent Money `json:"spent"`
}

// Transaction is a single recorded expense. Amount is stored negative; the
// magnitude is what the user entered. Category may name a bucket that has
// since been deleted, in which case the reference dangles and the spend no
// longer counts toward any bucket.
type Transaction struct {
	ID       int64     `json:"id"`
	Amount   Money     `json:"amount"`
	Note     string    `json:"note"`
	Category string    `json:"category,omitempty"`
	Date     time.Time `json:"date"`
}

// IsExpense reports whether the transaction counts toward spend.
func (t Transaction) IsExpense() bool {
	return t.Amount.Cents < 0
}

// MonthLedger is the budget, category and transaction aggregate for one
// calendar month of one user.
//
// Budget and Transactions are authoritative; Remaining and every
// Category.Spent are derived and must be refreshed with Recompute after any
// change. LastTxnID is a per-month counter so transaction ids stay unique for
// the lifetime of the month's data, even across deletes.
type MonthLedger struct {
	Budget       Money               `json:"budget"`
	Remaining    Money               `json:"remaining"`
	Categories   map[string]Category `json:"categories"`
	Transactions []Transaction       `json:"transactions"`
	LastTxnID    int64               `json:"last_txn_id"`
}

// NewMonthLedger returns a zeroed ledger: no budget, no categories, no
// transactions.
func NewMonthLedger() *MonthLedger {
	return &MonthLedger{
		Categories:   make(map[string]Category),
		Transactions: []Transaction{},
	}
}

// TotalSpent sums the magnitudes of all expense transactions.
func (l *MonthLedger) TotalSpent() Money {
	var total Money
	for _, t := range l.Transactions {
		if t.IsExpense() {
			total = total.Add(t.Amount.Abs())
		}
	}
	return total
}

// Recompute rederives every aggregate from the transaction list: Remaining
// from the budget and total spend, and each category's Spent from the
// transactions that reference it. Stored aggregates are never used as update
// targets; incremental patching is how the numbers drift.
func (l *MonthLedger) Recompute() {
	l.Remaining = l.Budget.Sub(l.TotalSpent())

	spent := make(map[string]Money, len(l.Categories))
	for _, t := range l.Transactions {
		if t.Category == "" || !t.IsExpense() {
			continue
		}
		if _, ok := l.Categories[t.Category]; !ok {
			continue // dangling reference to a deleted category
		}
		spent[t.Category] = spent[t.Category].Add(t.Amount.Abs())
	}
	for name, c := range l.Categories {
		c.Spent = spent[name]
		l.Categories[name] = c
	}
}

// FindTransaction returns the index of the transaction with the given id,
// or -1 if absent.
func (l *MonthLedger) FindTransaction(id int64) int {
	for i, t := range l.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. The ledger engine mutates only clones so a
// failed operation leaves the loaded data untouched.
func (l *MonthLedger) Clone() *MonthLedger {
	out := &MonthLedger{
		Budget:       l.Budget,
		Remaining:    l.Remaining,
		Categories:   make(map[string]Category, len(l.Categories)),
		Transactions: make([]Transaction, len(l.Transactions)),
		LastTxnID:    l.LastTxnID,
	}
	for name, c := range l.Categories {
		out.Categories[name] = c
	}
	copy(out.Transactions, l.Transactions)
	return out
}

// UserData is everything stored for one user, keyed by month. It is loaded
// and saved as a single blob; there is no finer write granularity.
type UserData struct {
	Months map[Month]*MonthLedger `json:"months"`
}

// NewUserData returns an empty data set. Absence of stored data is not an
// error; a fresh structure is indistinguishable from a never-seen user.
func NewUserData() UserData {
	return UserData{Months: make(map[Month]*MonthLedger)}
}

// Ledger returns the ledger for the month, creating a zeroed one on first
// access. Repeated calls for the same month return the same ledger.
func (d *UserData) Ledger(month Month) *MonthLedger {
	if d.Months == nil {
		d.Months = make(map[Month]*MonthLedger)
	}
	l, ok := d.Months[month]
	if !ok {
		l = NewMonthLedger()
		d.Months[month] = l
	}
	return l
}

// Clone deep-copies the whole data set.
func (d UserData) Clone() UserData {
	out := NewUserData()
	for month, l := range d.Months {
		out.Months[month] = l.Clone()
	}
	return out
}

// ValidateCategoryName rejects empty and whitespace-only names. Names are
// case-sensitive and used verbatim as map keys.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty category name: %w", ErrValidation)
	}
	return nil
}

// ValidateNote rejects empty and whitespace-only transaction notes.
func ValidateNote(note string) error {
	if strings.TrimSpace(note) == "" {
		return fmt.Errorf("empty note: %w", ErrValidation)
	}
	return nil
}
