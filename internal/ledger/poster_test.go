package ledger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinkling/kashflow/internal/model"
	"github.com/kevinkling/kashflow/internal/parser"
	"github.com/kevinkling/kashflow/internal/store"
)

type fixture struct {
	store     *store.Store
	poster    *Poster
	projector *Projector
	banco     model.Account
	efectivo  model.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "ledger.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	banco, err := s.CreateAccount(model.Account{Name: "Banco BBVA", Alias: "bbva"})
	require.NoError(t, err)
	efectivo, err := s.CreateAccount(model.Account{Name: "Efectivo", Alias: "efectivo"})
	require.NoError(t, err)

	return &fixture{
		store:     s,
		poster:    NewPoster(s, zerolog.Nop()),
		projector: NewProjector(s),
		banco:     banco,
		efectivo:  efectivo,
	}
}

func (f *fixture) balance(t *testing.T, accountID int64) decimal.Decimal {
	t.Helper()
	b, err := f.projector.CurrentBalance(accountID)
	require.NoError(t, err)
	return b
}

func TestPostIncomeOrExpense_Income(t *testing.T) {
	f := newFixture(t)

	entry, err := f.poster.PostIncomeOrExpense("bbva", model.KindDebit, decimal.NewFromInt(50000), "Ingreso", 11)
	require.NoError(t, err)

	assert.Equal(t, f.banco.ID, entry.AccountID)
	assert.Equal(t, model.KindDebit, entry.Kind)
	assert.Equal(t, int64(11), entry.MessageID)
	assert.True(t, f.balance(t, f.banco.ID).Equal(decimal.NewFromInt(50000)))
}

func TestPostIncomeOrExpense_ExpenseIsNegative(t *testing.T) {
	f := newFixture(t)

	_, err := f.poster.PostIncomeOrExpense("bbva", model.KindCredit, decimal.NewFromInt(1500), "Supermercado", 0)
	require.NoError(t, err)

	assert.True(t, f.balance(t, f.banco.ID).Equal(decimal.NewFromInt(-1500)))
}

func TestPostIncomeOrExpense_AliasIgnoresCase(t *testing.T) {
	f := newFixture(t)

	entry, err := f.poster.PostIncomeOrExpense("BBVA", model.KindDebit, decimal.NewFromInt(100), "Ingreso", 0)
	require.NoError(t, err)
	assert.Equal(t, f.banco.ID, entry.AccountID)
}

func TestPostIncomeOrExpense_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.poster.PostIncomeOrExpense("bbva", model.KindDebit, decimal.Zero, "Ingreso", 0)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = f.poster.PostIncomeOrExpense("bbva", model.KindDebit, decimal.NewFromInt(-5), "Ingreso", 0)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = f.poster.PostIncomeOrExpense("bbva", model.KindDebit, decimal.NewFromInt(100), "", 0)
	assert.ErrorIs(t, err, ErrMissingDescription)

	_, err = f.poster.PostIncomeOrExpense("inexistente", model.KindDebit, decimal.NewFromInt(100), "Ingreso", 0)
	var notFound *AccountNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "inexistente", notFound.Alias)

	// Nothing above may have written an entry.
	assert.True(t, f.balance(t, f.banco.ID).IsZero())
}

func TestPostTransfer(t *testing.T) {
	f := newFixture(t)

	transfer, legs, err := f.poster.PostTransfer("bbva", "efectivo", decimal.NewFromInt(5000), "Transferencia", 3)
	require.NoError(t, err)
	require.Len(t, legs, 2)

	assert.Equal(t, f.banco.ID, transfer.FromAccountID)
	assert.Equal(t, f.efectivo.ID, transfer.ToAccountID)

	assert.True(t, f.balance(t, f.banco.ID).Equal(decimal.NewFromInt(-5000)))
	assert.True(t, f.balance(t, f.efectivo.ID).Equal(decimal.NewFromInt(5000)))

	// Total money in the system is unchanged.
	total := f.balance(t, f.banco.ID).Add(f.balance(t, f.efectivo.ID))
	assert.True(t, total.IsZero())
}

func TestPostTransfer_SameAccount(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.poster.PostTransfer("bbva", "BBVA", decimal.NewFromInt(100), "loop", 0)
	assert.ErrorIs(t, err, ErrSameAccount)

	assert.True(t, f.balance(t, f.banco.ID).IsZero())
}

func TestPostTransfer_UnknownAccounts(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.poster.PostTransfer("nada", "efectivo", decimal.NewFromInt(100), "x", 0)
	var notFound *AccountNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nada", notFound.Alias)

	_, _, err = f.poster.PostTransfer("bbva", "nada", decimal.NewFromInt(100), "x", 0)
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nada", notFound.Alias)
}

func TestPostIntent_Income(t *testing.T) {
	f := newFixture(t)

	res, err := f.poster.PostIntent(parser.Intent{
		Type:        parser.IntentIncome,
		Amount:      decimal.NewFromInt(50000),
		Account:     "efectivo",
		Description: "Ingreso",
		Valid:       true,
	}, 9)
	require.NoError(t, err)

	assert.Equal(t, parser.IntentIncome, res.Type)
	require.Len(t, res.Entries, 1)
	assert.Nil(t, res.Transfer)
	assert.True(t, f.balance(t, f.efectivo.ID).Equal(decimal.NewFromInt(50000)))
}

func TestPostIntent_SalaryPostsAsIncome(t *testing.T) {
	f := newFixture(t)

	res, err := f.poster.PostIntent(parser.Intent{
		Type:        parser.IntentSalary,
		Amount:      decimal.NewFromInt(900000),
		Account:     "bbva",
		Description: parser.SalaryDescription,
		Valid:       true,
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, parser.IntentIncome, res.Type)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, model.KindDebit, res.Entries[0].Kind)

	// The deposit is now what /503020 picks up.
	amount, found, err := f.projector.LastSalary(parser.SalaryDescription)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, amount.Equal(decimal.NewFromInt(900000)))
}

func TestPostIntent_MovementPostsAsTransfer(t *testing.T) {
	f := newFixture(t)

	res, err := f.poster.PostIntent(parser.Intent{
		Type:        parser.IntentMovement,
		Amount:      decimal.NewFromInt(3000),
		FromAccount: "bbva",
		ToAccount:   "efectivo",
		Valid:       true,
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, parser.IntentTransfer, res.Type)
	require.NotNil(t, res.Transfer)
	assert.Equal(t, "Transferencia de bbva a efectivo", res.Transfer.Description)
	require.Len(t, res.Entries, 2)
}

func TestPostIntent_InvalidIntent(t *testing.T) {
	f := newFixture(t)

	_, err := f.poster.PostIntent(parser.Intent{
		Type:   parser.IntentExpense,
		Amount: decimal.NewFromInt(100),
		Errors: []string{"No se pudo identificar la cuenta"},
	}, 0)
	assert.ErrorIs(t, err, ErrInvalidIntent)
}

func TestPostIntent_UnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.poster.PostIntent(parser.Intent{Type: parser.IntentUnknown, Valid: true}, 0)
	assert.True(t, errors.Is(err, ErrInvalidIntent))
}

func TestProjector_Balances(t *testing.T) {
	f := newFixture(t)

	_, err := f.poster.PostIncomeOrExpense("bbva", model.KindDebit, decimal.NewFromInt(1000), "Ingreso", 0)
	require.NoError(t, err)
	_, err = f.poster.PostIncomeOrExpense("bbva", model.KindCredit, decimal.NewFromInt(250), "Gasto", 0)
	require.NoError(t, err)

	balances, err := f.projector.Balances()
	require.NoError(t, err)
	require.Len(t, balances, 2)

	byAlias := map[string]decimal.Decimal{}
	for _, b := range balances {
		byAlias[b.Account.Alias] = b.Balance
	}
	assert.True(t, byAlias["bbva"].Equal(decimal.NewFromInt(750)))
	assert.True(t, byAlias["efectivo"].IsZero())
}

func TestProjector_TodaysEntries(t *testing.T) {
	f := newFixture(t)

	_, err := f.poster.PostIncomeOrExpense("bbva", model.KindCredit, decimal.NewFromInt(800), "Café", 0)
	require.NoError(t, err)

	today, err := f.projector.TodaysEntries()
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "Café", today[0].Description)
	assert.Equal(t, "bbva", today[0].AccountAlias)
}
