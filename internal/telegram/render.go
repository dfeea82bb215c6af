package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/kevinkling/kashflow/internal/advisor"
	"github.com/kevinkling/kashflow/internal/model"
	"github.com/kevinkling/kashflow/internal/parser"
)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func formattedDate(t time.Time) string {
	return t.Format("02/01/2006 15:04:05")
}

// Confirmation matching: whole words only, so "no sé nada" still
// counts as negative but "bueno" does not count as anything.
var (
	affirmativeWords = map[string]bool{"sí": true, "si": true, "dale": true, "ok": true, "confirmo": true, "✅": true}
	negativeWords    = map[string]bool{"no": true, "cancelar": true, "cancelá": true, "❌": true}
)

func isAffirmative(text string) bool { return matchesAny(text, affirmativeWords) }
func isNegative(text string) bool    { return matchesAny(text, negativeWords) }

func matchesAny(text string, words map[string]bool) bool {
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!¡¿?")
		if words[token] {
			return true
		}
	}
	return false
}

func format503020(salary decimal.Decimal, now time.Time) string {
	split := advisor.Split503020(salary)
	month := spanishMonths[now.Month()-1]
	return fmt.Sprintf(`💰 Regla 50/30/20

Sueldo de %s %s
Gastos imprescindibles %s
Gastos prescindibles %s
Ahorro del mes %s`,
		month,
		parser.FormatAmount(split.Salary),
		parser.FormatAmount(split.Needs),
		parser.FormatAmount(split.Wants),
		parser.FormatAmount(split.Savings),
	)
}

func formatSavings(salary decimal.Decimal) string {
	amount := advisor.RoundedSavings(salary, decimal.NewFromFloat(0.2), 1000)
	return fmt.Sprintf("💰 El monto que debes ahorrar este mes es %s pesos.", parser.FormatAmount(amount))
}

func formatBalances(balances []model.AccountBalance) string {
	if len(balances) == 0 {
		return "💳 No hay cuentas activas todavía. Creá una desde el panel web."
	}
	var b strings.Builder
	b.WriteString("💳 *Resumen de saldos por cuenta:*\n\n")
	for _, ab := range balances {
		fmt.Fprintf(&b, "🏦 %s: *%s*\n", capitalizeWord(ab.Account.Alias), parser.FormatAmount(ab.Balance))
	}
	return b.String()
}

func formatTodaysEntries(entries []model.EntryWithAccount) string {
	if len(entries) == 0 {
		return "📅 No hay registros cargados hasta la fecha de hoy."
	}
	var b strings.Builder
	b.WriteString("📋 *Registros cargados hoy:*\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "📝 *%s*\n", e.Description)
		fmt.Fprintf(&b, "   - Cuenta: %s\n", e.AccountAlias)
		fmt.Fprintf(&b, "   - Monto: %s\n", parser.FormatAmount(e.Signed()))
	}
	return b.String()
}

func capitalizeWord(s string) string {
	lower := strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(lower)
	if r == utf8.RuneError {
		return lower
	}
	return string(unicode.ToUpper(r)) + lower[size:]
}
