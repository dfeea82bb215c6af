// Package store is the sqlite persistence layer: the account
// directory plus the append-only entry/transfer store the ledger
// writes to and the projector reads from.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kevinkling/kashflow/internal/model"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

type Store struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// New opens (creating if needed) the sqlite database at dbPath and
// applies the schema.
func New(dbPath string, log zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		alias TEXT NOT NULL UNIQUE COLLATE NOCASE,
		color TEXT NOT NULL DEFAULT '#4CAF50',
		currency TEXT NOT NULL DEFAULT 'ARS',
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transfers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_account_id INTEGER NOT NULL REFERENCES accounts(id),
		to_account_id INTEGER NOT NULL REFERENCES accounts(id),
		amount TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER NOT NULL REFERENCES accounts(id),
		kind TEXT NOT NULL CHECK (kind IN ('debe', 'haber')),
		amount TEXT NOT NULL,
		description TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		message_id INTEGER NOT NULL DEFAULT 0,
		transfer_id INTEGER REFERENCES transfers(id),
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(account_id);
	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, log: log, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- Account directory ---

// CreateAccount inserts a new active account. The alias must be
// unique (case-insensitive); sqlite's NOCASE unique index enforces it.
func (s *Store) CreateAccount(a model.Account) (model.Account, error) {
	a.CreatedAt = s.now()
	if a.Color == "" {
		a.Color = "#4CAF50"
	}
	if a.Currency == "" {
		a.Currency = "ARS"
	}
	res, err := s.db.Exec(
		`INSERT INTO accounts (name, alias, color, currency, active, created_at) VALUES (?, ?, ?, ?, 1, ?)`,
		a.Name, a.Alias, a.Color, a.Currency, a.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return model.Account{}, err
	}
	a.ID, _ = res.LastInsertId()
	a.Active = true
	return a, nil
}

// ResolveByAlias looks up an active account by alias, ignoring case.
// Returns (nil, nil) when no active account carries the alias.
func (s *Store) ResolveByAlias(alias string) (*model.Account, error) {
	row := s.db.QueryRow(
		`SELECT id, name, alias, color, currency, active, created_at
		 FROM accounts WHERE alias = ? COLLATE NOCASE AND active = 1`, alias)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAccount fetches an account by id, archived or not.
func (s *Store) GetAccount(id int64) (*model.Account, error) {
	row := s.db.QueryRow(
		`SELECT id, name, alias, color, currency, active, created_at FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAccounts returns active accounts, or every account when
// includeArchived is set.
func (s *Store) ListAccounts(includeArchived bool) ([]model.Account, error) {
	query := `SELECT id, name, alias, color, currency, active, created_at FROM accounts`
	if !includeArchived {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *Store) UpdateAccount(a model.Account) error {
	active := 0
	if a.Active {
		active = 1
	}
	_, err := s.db.Exec(
		`UPDATE accounts SET name = ?, alias = ?, color = ?, currency = ?, active = ? WHERE id = ?`,
		a.Name, a.Alias, a.Color, a.Currency, active, a.ID,
	)
	return err
}

// ArchiveAccount soft-deactivates an account. Accounts are never hard
// deleted so historical entries keep a valid reference.
func (s *Store) ArchiveAccount(id int64) error {
	_, err := s.db.Exec(`UPDATE accounts SET active = 0 WHERE id = ?`, id)
	return err
}

// --- Entry / transfer store ---

// InsertEntry appends one ledger line and returns it with id and
// timestamp filled in.
func (s *Store) InsertEntry(e model.Entry) (model.Entry, error) {
	e.CreatedAt = s.now()
	res, err := s.db.Exec(
		`INSERT INTO entries (account_id, kind, amount, description, notes, message_id, transfer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.AccountID, string(e.Kind), e.Amount.String(), e.Description, e.Notes,
		e.MessageID, nullableID(e.TransferID), e.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return model.Entry{}, err
	}
	e.ID, _ = res.LastInsertId()
	return e, nil
}

// CreateTransfer writes the transfer row and its two linked entries
// (credit on origin, debit on destination) inside a single sqlite
// transaction, so a failed leg never leaves a partial transfer behind.
func (s *Store) CreateTransfer(fromID, toID int64, amount decimal.Decimal, description string, messageID int64) (model.Transfer, []model.Entry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return model.Transfer{}, nil, err
	}
	defer tx.Rollback()

	now := s.now()
	nowStr := now.Format(timeLayout)

	res, err := tx.Exec(
		`INSERT INTO transfers (from_account_id, to_account_id, amount, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		fromID, toID, amount.String(), description, nowStr,
	)
	if err != nil {
		return model.Transfer{}, nil, fmt.Errorf("insert transfer: %w", err)
	}
	transferID, _ := res.LastInsertId()

	entries := []model.Entry{
		{AccountID: fromID, Kind: model.KindCredit, Amount: amount, Description: description, MessageID: messageID, TransferID: transferID, CreatedAt: now},
		{AccountID: toID, Kind: model.KindDebit, Amount: amount, Description: description, MessageID: messageID, TransferID: transferID, CreatedAt: now},
	}
	for i := range entries {
		e := &entries[i]
		res, err := tx.Exec(
			`INSERT INTO entries (account_id, kind, amount, description, notes, message_id, transfer_id, created_at)
			 VALUES (?, ?, ?, ?, '', ?, ?, ?)`,
			e.AccountID, string(e.Kind), e.Amount.String(), e.Description, e.MessageID, transferID, nowStr,
		)
		if err != nil {
			return model.Transfer{}, nil, fmt.Errorf("insert transfer leg: %w", err)
		}
		e.ID, _ = res.LastInsertId()
	}

	if err := tx.Commit(); err != nil {
		return model.Transfer{}, nil, err
	}

	transfer := model.Transfer{
		ID:            transferID,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Description:   description,
		CreatedAt:     now,
	}
	s.log.Info().Int64("transfer_id", transferID).Str("amount", amount.String()).Msg("transfer recorded")
	return transfer, entries, nil
}

// EntriesForAccount returns every entry of one account, oldest first.
func (s *Store) EntriesForAccount(accountID int64) ([]model.Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, account_id, kind, amount, description, notes, message_id, transfer_id, created_at
		 FROM entries WHERE account_id = ? ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// EntriesBetween returns entries with from <= created_at < to, newest
// first, joined with their account for display.
func (s *Store) EntriesBetween(from, to time.Time) ([]model.EntryWithAccount, error) {
	rows, err := s.db.Query(
		`SELECT e.id, e.account_id, e.kind, e.amount, e.description, e.notes, e.message_id, e.transfer_id, e.created_at,
		        a.alias, a.name
		 FROM entries e JOIN accounts a ON a.id = e.account_id
		 WHERE e.created_at >= ? AND e.created_at < ?
		 ORDER BY e.created_at DESC, e.id DESC`,
		from.Format(timeLayout), to.Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntriesWithAccount(rows)
}

// AllEntries returns the full ledger newest first, for export.
func (s *Store) AllEntries() ([]model.EntryWithAccount, error) {
	rows, err := s.db.Query(
		`SELECT e.id, e.account_id, e.kind, e.amount, e.description, e.notes, e.message_id, e.transfer_id, e.created_at,
		        a.alias, a.name
		 FROM entries e JOIN accounts a ON a.id = e.account_id
		 ORDER BY e.created_at DESC, e.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntriesWithAccount(rows)
}

// LastSalaryDeposit returns the amount of the most recent payroll
// deposit entry, or false when none was ever recorded.
func (s *Store) LastSalaryDeposit(description string) (decimal.Decimal, bool, error) {
	var amountStr string
	err := s.db.QueryRow(
		`SELECT amount FROM entries WHERE kind = 'debe' AND description = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`, description).Scan(&amountStr)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Zero, false, err
	}
	return amount, true, nil
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (model.Account, error) {
	var a model.Account
	var active int
	var createdStr string
	if err := r.Scan(&a.ID, &a.Name, &a.Alias, &a.Color, &a.Currency, &active, &createdStr); err != nil {
		return model.Account{}, err
	}
	a.Active = active == 1
	a.CreatedAt, _ = parseStoredTime(createdStr)
	return a, nil
}

func scanEntry(r rowScanner, extra ...any) (model.Entry, error) {
	var e model.Entry
	var amountStr, createdStr string
	var transferID sql.NullInt64
	dest := []any{&e.ID, &e.AccountID, &e.Kind, &amountStr, &e.Description, &e.Notes, &e.MessageID, &transferID, &createdStr}
	dest = append(dest, extra...)
	if err := r.Scan(dest...); err != nil {
		return model.Entry{}, err
	}
	var err error
	if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return model.Entry{}, fmt.Errorf("bad stored amount %q: %w", amountStr, err)
	}
	if transferID.Valid {
		e.TransferID = transferID.Int64
	}
	e.CreatedAt, _ = parseStoredTime(createdStr)
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	var result []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func collectEntriesWithAccount(rows *sql.Rows) ([]model.EntryWithAccount, error) {
	var result []model.EntryWithAccount
	for rows.Next() {
		var ea model.EntryWithAccount
		e, err := scanEntry(rows, &ea.AccountAlias, &ea.AccountName)
		if err != nil {
			return nil, err
		}
		ea.Entry = e
		result = append(result, ea)
	}
	return result, rows.Err()
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func parseStoredTime(s string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %s", s)
}
