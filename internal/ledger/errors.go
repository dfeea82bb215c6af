package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNonPositiveAmount rejects postings whose magnitude is not > 0.
	ErrNonPositiveAmount = errors.New("el monto debe ser mayor a cero")
	// ErrSameAccount rejects transfers whose origin and destination
	// resolve to the same account.
	ErrSameAccount = errors.New("la cuenta origen y destino deben ser distintas")
	// ErrInvalidIntent rejects posting an intent flagged invalid by a
	// parser.
	ErrInvalidIntent = errors.New("intento de transacción inválido")
	// ErrMissingDescription rejects incomes and expenses without a
	// description.
	ErrMissingDescription = errors.New("se requiere descripción para ingresos y egresos")
)

// AccountNotFoundError names the alias that did not resolve to an
// active account, so the user sees exactly what was wrong.
type AccountNotFoundError struct {
	Alias string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("la cuenta %q no existe o está inactiva", e.Alias)
}
