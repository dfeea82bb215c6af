package telegram

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kevinkling/kashflow/internal/model"
)

func TestIsAffirmative(t *testing.T) {
	yes := []string{"sí", "si", "Sí", "SI", "dale", "ok", "OK!", "confirmo", "✅", "sí, mandale", "bueno dale"}
	for _, text := range yes {
		assert.True(t, isAffirmative(text), "%q should confirm", text)
	}

	no := []string{"", "bueno", "quizás", "sisi", "vale", "no"}
	for _, text := range no {
		assert.False(t, isAffirmative(text), "%q should not confirm", text)
	}
}

func TestIsNegative(t *testing.T) {
	// "no sé nada" still cancels: "no" counts as a whole word.
	yes := []string{"no", "No", "NO!", "cancelar", "cancelá", "❌", "no, pará", "no sé nada"}
	for _, text := range yes {
		assert.True(t, isNegative(text), "%q should cancel", text)
	}

	no := []string{"", "sí", "nunca", "nop", "noche"}
	for _, text := range no {
		assert.False(t, isNegative(text), "%q should not cancel", text)
	}
}

func TestFormat503020(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.Local)
	got := format503020(decimal.NewFromInt(100000), now)

	assert.Contains(t, got, "Regla 50/30/20")
	assert.Contains(t, got, "Sueldo de marzo $100.000,00")
	assert.Contains(t, got, "Gastos imprescindibles $50.000,00")
	assert.Contains(t, got, "Gastos prescindibles $30.000,00")
	assert.Contains(t, got, "Ahorro del mes $20.000,00")
}

func TestFormatSavings(t *testing.T) {
	got := formatSavings(decimal.NewFromInt(1123456))
	assert.Equal(t, "💰 El monto que debes ahorrar este mes es $225.000,00 pesos.", got)
}

func TestFormatBalances(t *testing.T) {
	assert.Equal(t,
		"💳 No hay cuentas activas todavía. Creá una desde el panel web.",
		formatBalances(nil))

	got := formatBalances([]model.AccountBalance{
		{Account: model.Account{Alias: "bbva"}, Balance: decimal.NewFromInt(1500)},
		{Account: model.Account{Alias: "efectivo"}, Balance: decimal.RequireFromString("-50.25")},
	})

	assert.Contains(t, got, "Resumen de saldos por cuenta")
	assert.Contains(t, got, "🏦 Bbva: *$1.500,00*")
	assert.Contains(t, got, "🏦 Efectivo: *-$50,25*")
}

func TestFormatTodaysEntries(t *testing.T) {
	assert.Equal(t,
		"📅 No hay registros cargados hasta la fecha de hoy.",
		formatTodaysEntries(nil))

	got := formatTodaysEntries([]model.EntryWithAccount{
		{
			Entry: model.Entry{
				Kind:        model.KindCredit,
				Amount:      decimal.NewFromInt(2500),
				Description: "Supermercado",
			},
			AccountAlias: "bbva",
		},
	})

	assert.Contains(t, got, "Registros cargados hoy")
	assert.Contains(t, got, "📝 *Supermercado*")
	assert.Contains(t, got, "Cuenta: bbva")
	// Credits render signed.
	assert.Contains(t, got, "Monto: -$2.500,00")
}

func TestCapitalizeWord(t *testing.T) {
	assert.Equal(t, "Bbva", capitalizeWord("BBVA"))
	assert.Equal(t, "Efectivo", capitalizeWord("efectivo"))
	assert.Equal(t, "Ñoqui", capitalizeWord("ñoqui"))
	assert.Equal(t, "", capitalizeWord(""))
}

func TestFormattedDate(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 15, 4, 5, 0, time.Local)
	assert.Equal(t, "02/01/2025 15:04:05", formattedDate(ts))
}
