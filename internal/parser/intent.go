// Package parser turns raw user text into structured transaction
// intents. Two front-ends share one output type: a strict regex
// parser for typed chat commands and a heuristic keyword parser for
// voice transcriptions.
package parser

import "github.com/shopspring/decimal"

// IntentType classifies what the user wants to record. Values are the
// Spanish domain words the bot speaks with its users.
type IntentType string

const (
	IntentIncome   IntentType = "ingreso"
	IntentExpense  IntentType = "egreso"
	IntentTransfer IntentType = "transferencia"
	// IntentMovement is the strict-command spelling of a transfer
	// ("movi de X a Y"). The poster treats it like IntentTransfer.
	IntentMovement IntentType = "movimiento"
	// IntentSalary is a payroll deposit; it is normalized to a plain
	// income before posting.
	IntentSalary  IntentType = "deposito de sueldo"
	IntentUnknown IntentType = "desconocido"
)

// Intent is the structured result of parsing one utterance. Account
// fields hold aliases, not ids; resolution happens at posting time.
// Income and expense use Account; transfers use FromAccount and
// ToAccount.
type Intent struct {
	Type        IntentType
	Amount      decimal.Decimal
	Account     string
	FromAccount string
	ToAccount   string
	Description string
	RawText     string
	Valid       bool
	Errors      []string
}

// IsTransfer reports whether the intent moves value between two
// accounts, under either spelling.
func (in Intent) IsTransfer() bool {
	return in.Type == IntentTransfer || in.Type == IntentMovement
}
