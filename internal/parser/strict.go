package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyMessage is returned when the input is empty after trimming.
	ErrEmptyMessage = errors.New("el mensaje debe ser un texto no vacío")
	// ErrUnknownFormat is returned when no command shape matches.
	ErrUnknownFormat = errors.New("formato de mensaje no reconocido")
)

// strictRule pairs a command shape with its extractor. Patterns anchor
// the whole line, so they are mutually exclusive by construction and
// only the first structural match is used.
type strictRule struct {
	tipo  IntentType
	re    *regexp.Regexp
	build func(m []string) Intent
}

// StrictParser recognizes the four fixed typed-command shapes. It is a
// pure function of its input plus the configured payroll account.
type StrictParser struct {
	// SalaryAccount is the alias credited by the bare "sueldo N"
	// command.
	SalaryAccount string

	rules []strictRule
}

// SalaryDescription is the fixed description payroll deposits carry;
// the advisor commands look it up by this exact text.
const SalaryDescription = "Depósito de sueldo"

// NewStrictParser builds the ordered rule table. salaryAccount is the
// alias used for payroll deposits.
func NewStrictParser(salaryAccount string) *StrictParser {
	p := &StrictParser{SalaryAccount: salaryAccount}
	p.rules = []strictRule{
		{
			tipo: IntentExpense,
			re:   regexp.MustCompile(`(?i)^gaste de (\w+) (\d+([.,]\d{1,3})?) para (.+)$`),
			build: func(m []string) Intent {
				return Intent{
					Type:        IntentExpense,
					Account:     m[1],
					Amount:      parseStrictAmount(m[2]),
					Description: m[4],
				}
			},
		},
		{
			tipo: IntentIncome,
			re:   regexp.MustCompile(`(?i)^recibi en (\w+) (\d+([.,]\d{1,3})?) de (.+)$`),
			build: func(m []string) Intent {
				return Intent{
					Type:        IntentIncome,
					Account:     m[1],
					Amount:      parseStrictAmount(m[2]),
					Description: m[4],
				}
			},
		},
		{
			tipo: IntentMovement,
			re:   regexp.MustCompile(`(?i)^movi de (\w+) a (\w+) (\d+([.,]\d{1,3})?)$`),
			build: func(m []string) Intent {
				return Intent{
					Type:        IntentMovement,
					FromAccount: m[1],
					ToAccount:   m[2],
					Amount:      parseStrictAmount(m[3]),
				}
			},
		},
		{
			tipo: IntentSalary,
			re:   regexp.MustCompile(`(?i)^sueldo (\d+([.,]\d{1,3})?)$`),
			build: func(m []string) Intent {
				return Intent{
					Type:        IntentSalary,
					Account:     p.SalaryAccount,
					Amount:      parseStrictAmount(m[1]),
					Description: SalaryDescription,
				}
			},
		},
	}
	return p
}

// Parse matches text against the rule table. Failures are values, not
// panics: callers check the returned error (ErrEmptyMessage or
// ErrUnknownFormat) explicitly.
func (p *StrictParser) Parse(text string) (Intent, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Intent{}, ErrEmptyMessage
	}

	for _, rule := range p.rules {
		if m := rule.re.FindStringSubmatch(trimmed); m != nil {
			in := rule.build(m)
			in.RawText = trimmed
			in.Valid = true
			return in, nil
		}
	}
	return Intent{RawText: trimmed, Type: IntentUnknown}, ErrUnknownFormat
}

// parseStrictAmount converts a strict-command amount, where the
// decimal separator may be "." or ",". The patterns guarantee the
// string is numeric.
func parseStrictAmount(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	return d
}
