package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RenderSummary produces the human-readable confirmation text shown to
// the user before a voice-parsed intent is posted.
func RenderSummary(in Intent) string {
	if !in.Valid {
		return "❌ No se pudo procesar la transacción:\n" + strings.Join(in.Errors, "\n")
	}

	monto := FormatAmount(in.Amount)

	switch in.Type {
	case IntentTransfer, IntentMovement:
		return fmt.Sprintf("📤 Transferencia de %s\n   De: %s\n   A: %s\n   Descripción: %s",
			monto, in.FromAccount, in.ToAccount, in.Description)
	case IntentIncome, IntentSalary:
		return fmt.Sprintf("📥 Ingreso de %s\n   En: %s\n   Descripción: %s",
			monto, in.Account, in.Description)
	case IntentExpense:
		return fmt.Sprintf("📤 Egreso de %s\n   De: %s\n   Descripción: %s",
			monto, in.Account, in.Description)
	default:
		return "❓ Transacción desconocida"
	}
}

// FormatAmount renders an amount the way the bot speaks: es-AR style,
// dots for thousands, comma before the two decimals ($12.345,67).
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s,%s", sign, b.String(), fracPart)
}

// VoiceExamples is the /ayuda_voz help text.
func VoiceExamples() string {
	return `📝 *Ejemplos de comandos de voz:*

*Ingresos:*
• "Ingreso de 50000 en efectivo"
• "Cobré 1500 pesos en Mercado Pago"
• "Depósito de 80000 en banco"

*Egresos:*
• "Gasto de 2500 en supermercado con tarjeta"
• "Pagué 1000 pesos de uber en efectivo"
• "Compra de 15000 en Mercado Pago"

*Transferencias:*
• "Transferencia de 5000 de banco a Mercado Pago"
• "Pasé 3000 pesos de efectivo a banco"
• "Moví 10000 desde tarjeta a Mercado Pago"

*Consejos:*
✓ Menciona el monto claramente
✓ Indica el tipo de movimiento (ingreso/gasto/transferencia)
✓ Especifica la cuenta (usa el alias de tu cuenta)`
}
