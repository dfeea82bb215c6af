// Package ledger contains the posting and projection core: turning a
// parsed intent into balanced account mutations, and recomputing
// balances from the stored entries.
package ledger

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kevinkling/kashflow/internal/model"
	"github.com/kevinkling/kashflow/internal/parser"
	"github.com/kevinkling/kashflow/internal/store"
)

// Poster resolves account aliases and writes signed entries: a single
// entry for incomes and expenses, two linked opposite entries for
// transfers.
type Poster struct {
	store *store.Store
	log   zerolog.Logger
}

func NewPoster(s *store.Store, log zerolog.Logger) *Poster {
	return &Poster{store: s, log: log}
}

// PostResult is what a successful posting produced.
type PostResult struct {
	Type     parser.IntentType
	Entries  []model.Entry
	Transfer *model.Transfer
}

// PostIntent normalizes and posts a parsed intent from either parsing
// front-end. Payroll deposits become plain incomes; a strict
// "movimiento" posts like a transfer. The caller has already collected
// the user's confirmation where one is required.
func (p *Poster) PostIntent(in parser.Intent, messageID int64) (*PostResult, error) {
	if !in.Valid {
		return nil, ErrInvalidIntent
	}

	tipo := in.Type
	if tipo == parser.IntentSalary {
		tipo = parser.IntentIncome
	}

	switch tipo {
	case parser.IntentIncome:
		entry, err := p.PostIncomeOrExpense(in.Account, model.KindDebit, in.Amount, in.Description, messageID)
		if err != nil {
			return nil, err
		}
		return &PostResult{Type: tipo, Entries: []model.Entry{entry}}, nil

	case parser.IntentExpense:
		entry, err := p.PostIncomeOrExpense(in.Account, model.KindCredit, in.Amount, in.Description, messageID)
		if err != nil {
			return nil, err
		}
		return &PostResult{Type: tipo, Entries: []model.Entry{entry}}, nil

	case parser.IntentTransfer, parser.IntentMovement:
		description := in.Description
		if description == "" {
			description = fmt.Sprintf("Transferencia de %s a %s", in.FromAccount, in.ToAccount)
		}
		transfer, entries, err := p.PostTransfer(in.FromAccount, in.ToAccount, in.Amount, description, messageID)
		if err != nil {
			return nil, err
		}
		return &PostResult{Type: parser.IntentTransfer, Entries: entries, Transfer: &transfer}, nil

	default:
		return nil, fmt.Errorf("%w: tipo %q", ErrInvalidIntent, in.Type)
	}
}

// PostIncomeOrExpense writes one entry on the account the alias
// resolves to. The stored magnitude is always non-negative; the sign
// convention lives in the entry kind.
func (p *Poster) PostIncomeOrExpense(alias string, kind model.EntryKind, amount decimal.Decimal, description string, messageID int64) (model.Entry, error) {
	if !amount.IsPositive() {
		return model.Entry{}, ErrNonPositiveAmount
	}
	if description == "" {
		return model.Entry{}, ErrMissingDescription
	}

	account, err := p.store.ResolveByAlias(alias)
	if err != nil {
		return model.Entry{}, fmt.Errorf("resolve account: %w", err)
	}
	if account == nil {
		return model.Entry{}, &AccountNotFoundError{Alias: alias}
	}

	entry, err := p.store.InsertEntry(model.Entry{
		AccountID:   account.ID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		MessageID:   messageID,
	})
	if err != nil {
		return model.Entry{}, err
	}

	p.log.Info().
		Str("kind", string(kind)).
		Str("account", account.Alias).
		Str("amount", amount.String()).
		Str("description", description).
		Msg("entry posted")
	return entry, nil
}

// PostTransfer resolves both aliases, requires them to be distinct
// active accounts and writes the transfer with its credit leg on the
// origin and debit leg on the destination. All three writes happen in
// one storage transaction.
func (p *Poster) PostTransfer(fromAlias, toAlias string, amount decimal.Decimal, description string, messageID int64) (model.Transfer, []model.Entry, error) {
	if !amount.IsPositive() {
		return model.Transfer{}, nil, ErrNonPositiveAmount
	}

	from, err := p.store.ResolveByAlias(fromAlias)
	if err != nil {
		return model.Transfer{}, nil, fmt.Errorf("resolve origin: %w", err)
	}
	if from == nil {
		return model.Transfer{}, nil, &AccountNotFoundError{Alias: fromAlias}
	}

	to, err := p.store.ResolveByAlias(toAlias)
	if err != nil {
		return model.Transfer{}, nil, fmt.Errorf("resolve destination: %w", err)
	}
	if to == nil {
		return model.Transfer{}, nil, &AccountNotFoundError{Alias: toAlias}
	}

	if from.ID == to.ID {
		return model.Transfer{}, nil, ErrSameAccount
	}

	return p.store.CreateTransfer(from.ID, to.ID, amount, description, messageID)
}
