package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevinkling/kashflow/internal/model"
	"github.com/kevinkling/kashflow/internal/store"
)

// Projector derives balances and activity feeds from the stored
// entries. Nothing is cached: every read recomputes from the full
// entry set, which is fine at personal-finance volumes.
type Projector struct {
	store *store.Store
	now   func() time.Time
}

func NewProjector(s *store.Store) *Projector {
	return &Projector{store: s, now: time.Now}
}

// CurrentBalance sums the signed effects of every entry on the
// account. Sign derivation goes through model.SignFor via
// Entry.Signed, never recomputed locally.
func (p *Projector) CurrentBalance(accountID int64) (decimal.Decimal, error) {
	entries, err := p.store.EntriesForAccount(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.Signed())
	}
	return balance, nil
}

// Balances recomputes the balance of every active account.
func (p *Projector) Balances() ([]model.AccountBalance, error) {
	accounts, err := p.store.ListAccounts(false)
	if err != nil {
		return nil, err
	}

	result := make([]model.AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		balance, err := p.CurrentBalance(account.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, model.AccountBalance{Account: account, Balance: balance})
	}
	return result, nil
}

// LastSalary returns the amount of the most recent payroll deposit,
// or false when none exists yet.
func (p *Projector) LastSalary(description string) (decimal.Decimal, bool, error) {
	return p.store.LastSalaryDeposit(description)
}

// TodaysEntries returns the entries recorded on the current local
// calendar day. The day boundary follows the server's local timezone,
// matching how timestamps are stored.
func (p *Projector) TodaysEntries() ([]model.EntryWithAccount, error) {
	now := p.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return p.store.EntriesBetween(midnight, midnight.AddDate(0, 0, 1))
}
