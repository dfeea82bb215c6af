package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Keyword tables for intent classification. Order inside each list is
// the lookup order for description anchoring; the lists themselves are
// evaluated transfer > income > expense because transfer utterances
// often also contain income-looking words ("pasé plata a la cuenta").
var (
	incomeKeywords = []string{
		"ingreso", "deposito", "depósito", "cobro", "cobré", "gané", "recibí",
		"entró", "entrada", "sueldo", "salario", "ganancia", "venta",
	}
	expenseKeywords = []string{
		"gasto", "gasté", "egreso", "pago", "pagué", "compra", "compré",
		"salida", "salió", "consumo", "consumí", "costo", "costó",
	}
	transferKeywords = []string{
		"transferencia", "transferir", "transferí", "pasé", "moví",
		"envié", "enviar", "mover", "pasar",
	}

	originPrepositions      = []string{"de", "desde"}
	destinationPrepositions = []string{"a", "para", "hacia", "en"}
)

// Amount scanning: one pattern tolerant of thousands separators, one
// not. All matches from both are collected and the largest positive
// candidate wins (the principal amount dominates incidental numbers).
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$?\s*(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`\$?\s*(\d+(?:[.,]\d{2})?)`),
}

// Description cleanup: strip amounts and everything from the first
// preposition onward.
var (
	reAmounts         = regexp.MustCompile(`\$?\d+([.,]\d+)?`)
	rePrepositionTail = regexp.MustCompile(`(?i)\b(de|en|desde|a|para|hacia)\b.*`)
)

// prepositionPatterns holds one precompiled "preposition followed by
// one or two lowercase words" pattern per preposition. Accented
// Spanish vowels and ñ count as word characters for account names.
var prepositionPatterns = buildPrepositionPatterns()

func buildPrepositionPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, prep := range append(append([]string{}, originPrepositions...), destinationPrepositions...) {
		out[prep] = regexp.MustCompile(`\b` + prep + `\s+([a-záéíóúñ]+)(?:\s+([a-záéíóúñ]+))?`)
	}
	return out
}

const defaultVoiceDescription = "Movimiento registrado por voz"

// HeuristicParser interprets loosely structured voice transcriptions.
// It never fails outright: the result always carries a validity flag
// and the list of missing pieces instead.
type HeuristicParser struct{}

func NewHeuristicParser() *HeuristicParser { return &HeuristicParser{} }

// Parse classifies the transcript, extracts amount, account(s) and a
// description, and assembles per-type validity. Internal panics are
// converted into an invalid result rather than escaping.
func (p *HeuristicParser) Parse(text string) (out Intent) {
	defer func() {
		if r := recover(); r != nil {
			out = Intent{
				Type:    IntentUnknown,
				RawText: text,
				Errors:  []string{fmt.Sprintf("error interno al parsear: %v", r)},
			}
		}
	}()

	out = Intent{
		Type:    classifyIntent(text),
		RawText: text,
	}

	amount, ok := extractAmount(text)
	if !ok {
		out.Errors = append(out.Errors, "No se pudo identificar el monto")
		return out
	}
	out.Amount = amount

	switch out.Type {
	case IntentTransfer:
		out.FromAccount = extractAccountName(text, originPrepositions)
		out.ToAccount = extractAccountName(text, destinationPrepositions)
		out.Description = extractDescription(text, transferKeywords)
		if out.FromAccount == "" {
			out.Errors = append(out.Errors, "No se pudo identificar la cuenta origen")
		}
		if out.ToAccount == "" {
			out.Errors = append(out.Errors, "No se pudo identificar la cuenta destino")
		}
		out.Valid = out.FromAccount != "" && out.ToAccount != ""

	case IntentIncome:
		out.Account = extractAccountName(text, anyPreposition())
		out.Description = extractDescription(text, incomeKeywords)
		if out.Account == "" {
			out.Errors = append(out.Errors, "No se pudo identificar la cuenta")
		}
		out.Valid = out.Account != ""

	case IntentExpense:
		out.Account = extractAccountName(text, anyPreposition())
		out.Description = extractDescription(text, expenseKeywords)
		if out.Account == "" {
			out.Errors = append(out.Errors, "No se pudo identificar la cuenta")
		}
		out.Valid = out.Account != ""

	default:
		out.Errors = append(out.Errors, "No se pudo identificar el tipo de transacción")
	}
	return out
}

func anyPreposition() []string {
	return append(append([]string{}, originPrepositions...), destinationPrepositions...)
}

// classifyIntent scans for keyword membership in fixed priority order:
// transfer wins over income wins over expense.
func classifyIntent(text string) IntentType {
	lower := strings.ToLower(text)
	for _, kw := range transferKeywords {
		if strings.Contains(lower, kw) {
			return IntentTransfer
		}
	}
	for _, kw := range incomeKeywords {
		if strings.Contains(lower, kw) {
			return IntentIncome
		}
	}
	for _, kw := range expenseKeywords {
		if strings.Contains(lower, kw) {
			return IntentExpense
		}
	}
	return IntentUnknown
}

// extractAmount collects every numeric candidate from both patterns,
// normalizes separators (thousands dots stripped, first decimal comma
// becomes a point), drops non-positive values and returns the largest
// survivor.
func extractAmount(text string) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false

	for _, pattern := range amountPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			normalized := strings.Replace(strings.ReplaceAll(m[1], ".", ""), ",", ".", 1)
			d, err := decimal.NewFromString(normalized)
			if err != nil || !d.IsPositive() {
				continue
			}
			if !found || d.GreaterThan(best) {
				best = d
				found = true
			}
		}
	}
	return best, found
}

// extractAccountName returns the 1-2 word span following the first
// matching preposition, or "" when none matches. Prepositions are
// tried in the given order, not by position in the text.
func extractAccountName(text string, prepositions []string) string {
	lower := strings.ToLower(text)
	for _, prep := range prepositions {
		m := prepositionPatterns[prep].FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if m[2] != "" {
			return m[1] + " " + m[2]
		}
		return m[1]
	}
	return ""
}

// extractDescription takes the substring from the first classification
// keyword to the end, strips amounts and the preposition tail, and
// capitalizes the result. Falls back to cleaning the whole transcript,
// then to a fixed default.
func extractDescription(text string, keywords []string) string {
	lower := strings.ToLower(text)

	for _, kw := range keywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		desc := cleanDescription(text[idx:])
		if utf8.RuneCountInString(desc) > 3 {
			return capitalize(desc)
		}
	}

	if clean := cleanDescription(text); clean != "" {
		return clean
	}
	return defaultVoiceDescription
}

func cleanDescription(s string) string {
	s = reAmounts.ReplaceAllString(s, "")
	s = rePrepositionTail.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
