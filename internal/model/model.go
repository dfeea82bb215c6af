package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind determines whether an entry increases or decreases an
// account's balance. It is the single source of truth for sign: the
// stored amount is always non-negative.
type EntryKind string

const (
	// KindDebit ("debe") increases the account balance.
	KindDebit EntryKind = "debe"
	// KindCredit ("haber") decreases the account balance.
	KindCredit EntryKind = "haber"
)

// SignFor returns +1 for debit-like entries and -1 for credit-like
// ones. Every place that turns a magnitude into a balance effect goes
// through this function.
func SignFor(kind EntryKind) int64 {
	if kind == KindCredit {
		return -1
	}
	return 1
}

// Account is a user-created money bucket addressed by its alias.
// Accounts are archived (Active=false), never deleted, so historical
// entries keep a valid reference.
type Account struct {
	ID        int64
	Name      string
	Alias     string
	Color     string
	Currency  string
	Active    bool
	CreatedAt time.Time
}

// Entry is a single signed change to one account's balance. Amount is
// always stored non-negative; the sign comes from Kind at read time.
type Entry struct {
	ID          int64
	AccountID   int64
	Kind        EntryKind
	Amount      decimal.Decimal
	Description string
	Notes       string
	MessageID   int64 // originating telegram message, 0 when none
	TransferID  int64 // linked transfer, 0 for standalone entries
	CreatedAt   time.Time
}

// Signed returns the entry's effect on its account balance.
func (e Entry) Signed() decimal.Decimal {
	return e.Amount.Mul(decimal.NewFromInt(SignFor(e.Kind)))
}

// Transfer links the two opposite entries that move value between two
// accounts. A transfer row implies exactly two entries referencing it:
// a credit on the origin and a debit on the destination, both with the
// same magnitude and description.
type Transfer struct {
	ID            int64
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
	Description   string
	CreatedAt     time.Time
}

// AccountBalance pairs an account with its recomputed balance.
type AccountBalance struct {
	Account Account
	Balance decimal.Decimal
}

// EntryWithAccount is a read-side join used by the daily feed and the
// CSV export.
type EntryWithAccount struct {
	Entry
	AccountAlias string
	AccountName  string
}
