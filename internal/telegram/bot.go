// Package telegram is the chat transport: it routes commands, feeds
// free text through the strict parser, and runs voice notes through
// transcription, the heuristic parser and the confirmation gate.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"github.com/kevinkling/kashflow/internal/ledger"
	"github.com/kevinkling/kashflow/internal/parser"
	"github.com/kevinkling/kashflow/internal/session"
	"github.com/kevinkling/kashflow/internal/transcribe"
)

const transcribeTimeout = 2 * time.Minute

type Bot struct {
	tb          *tele.Bot
	strict      *parser.StrictParser
	heuristic   *parser.HeuristicParser
	poster      *ledger.Poster
	projector   *ledger.Projector
	sessions    *session.Store
	transcriber transcribe.Transcriber
	salaryDesc  string
	tempDir     string
	log         zerolog.Logger
}

// Options carries the collaborators the bot needs. Transcriber may be
// nil, which disables the voice path with a polite message.
type Options struct {
	Token       string
	Strict      *parser.StrictParser
	Heuristic   *parser.HeuristicParser
	Poster      *ledger.Poster
	Projector   *ledger.Projector
	Sessions    *session.Store
	Transcriber transcribe.Transcriber
	SalaryDesc  string
	Log         zerolog.Logger
}

func New(opts Options) (*Bot, error) {
	pref := tele.Settings{
		Token:  opts.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	tb, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := &Bot{
		tb:          tb,
		strict:      opts.Strict,
		heuristic:   opts.Heuristic,
		poster:      opts.Poster,
		projector:   opts.Projector,
		sessions:    opts.Sessions,
		transcriber: opts.Transcriber,
		salaryDesc:  opts.SalaryDesc,
		tempDir:     os.TempDir(),
		log:         opts.Log,
	}

	tb.Handle("/hola", b.onHola)
	tb.Handle("/503020", b.onRegla503020)
	tb.Handle("/ahorro", b.onAhorro)
	tb.Handle("/resumen", b.onResumen)
	tb.Handle("/resumen_hoy", b.onResumenHoy)
	tb.Handle("/ayuda_voz", b.onAyudaVoz)
	tb.Handle(tele.OnText, b.onText)
	tb.Handle(tele.OnVoice, b.onVoice)

	return b, nil
}

// Start begins long-polling in a goroutine.
func (b *Bot) Start() {
	go func() {
		b.log.Info().Msg("telegram bot polling")
		b.tb.Start()
	}()
}

func (b *Bot) Stop() {
	b.tb.Stop()
}

// --- commands ---

func (b *Bot) onHola(c tele.Context) error {
	name := "amigo"
	if sender := c.Sender(); sender != nil && sender.FirstName != "" {
		name = sender.FirstName
	}
	return c.Send(fmt.Sprintf("¡Hola %s! la fecha actual es %s 👋", name, formattedDate(time.Now())))
}

func (b *Bot) onRegla503020(c tele.Context) error {
	salary, found, err := b.projector.LastSalary(b.salaryDesc)
	if err != nil {
		b.log.Error().Err(err).Msg("query last salary")
		return c.Send(genericErrorMessage)
	}
	if !found {
		return c.Send("💰 Todavía no hay ningún depósito de sueldo registrado.")
	}
	return c.Send(format503020(salary, time.Now()))
}

func (b *Bot) onAhorro(c tele.Context) error {
	salary, found, err := b.projector.LastSalary(b.salaryDesc)
	if err != nil {
		b.log.Error().Err(err).Msg("query last salary")
		return c.Send(genericErrorMessage)
	}
	if !found {
		return c.Send("💰 Todavía no hay ningún depósito de sueldo registrado.")
	}
	return c.Send(formatSavings(salary))
}

func (b *Bot) onResumen(c tele.Context) error {
	balances, err := b.projector.Balances()
	if err != nil {
		b.log.Error().Err(err).Msg("query balances")
		return c.Send(genericErrorMessage)
	}
	return c.Send(formatBalances(balances), tele.ModeMarkdown)
}

func (b *Bot) onResumenHoy(c tele.Context) error {
	entries, err := b.projector.TodaysEntries()
	if err != nil {
		b.log.Error().Err(err).Msg("query today's entries")
		return c.Send(genericErrorMessage)
	}
	return c.Send(formatTodaysEntries(entries), tele.ModeMarkdown)
}

func (b *Bot) onAyudaVoz(c tele.Context) error {
	return c.Send(parser.VoiceExamples(), tele.ModeMarkdown)
}

// --- free text: confirmation replies, then strict commands ---

func (b *Bot) onText(c tele.Context) error {
	chatID := c.Chat().ID
	text := c.Text()

	if _, pending := b.sessions.Peek(chatID); pending {
		return b.handleConfirmationReply(c, chatID, text)
	}

	intent, err := b.strict.Parse(text)
	if err != nil {
		b.log.Warn().Str("text", text).Err(err).Msg("message not recognized")
		return c.Send("⚠️ Formato de mensaje no reconocido.\n\nEjemplo: gaste de BBVA 1500 para supermercado")
	}

	result, err := b.poster.PostIntent(intent, int64(c.Message().ID))
	if err != nil {
		return c.Send(renderPostError(err, b.log))
	}

	b.log.Info().Str("tipo", string(result.Type)).Msg("movement posted from text")
	return c.Send("✅ Movimiento registrado correctamente.")
}

func (b *Bot) handleConfirmationReply(c tele.Context, chatID int64, text string) error {
	switch {
	case isAffirmative(text):
		intent, ok := b.sessions.Pop(chatID)
		if !ok {
			return c.Send("⏰ La confirmación expiró. Volvé a enviar el mensaje de voz.")
		}
		result, err := b.poster.PostIntent(intent, int64(c.Message().ID))
		if err != nil {
			// Slot already consumed: never left occupied after an
			// attempt, success or failure.
			return c.Send(renderPostError(err, b.log))
		}
		b.log.Info().Str("tipo", string(result.Type)).Msg("movement posted from voice")
		return c.Send("✅ Movimiento registrado correctamente.")

	case isNegative(text):
		b.sessions.Pop(chatID)
		return c.Send("🚫 Transacción cancelada.")

	default:
		// Ambiguous reply: keep the slot and re-prompt; the session
		// TTL clears it if the user walks away.
		return c.Send("🤔 Respondé sí o no para confirmar la transacción pendiente.")
	}
}

// --- voice path ---

func (b *Bot) onVoice(c tele.Context) error {
	if b.transcriber == nil {
		return c.Send("🎤 El reconocimiento de voz está deshabilitado en este servidor.")
	}

	voice := c.Message().Voice
	audioPath := filepath.Join(b.tempDir, fmt.Sprintf("voice_%d_%d.oga", c.Chat().ID, c.Message().ID))
	if err := b.tb.Download(&voice.File, audioPath); err != nil {
		b.log.Error().Err(err).Msg("download voice note")
		return c.Send(genericErrorMessage)
	}
	defer os.Remove(audioPath)

	ctx, cancel := context.WithTimeout(context.Background(), transcribeTimeout)
	defer cancel()

	transcript, err := b.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		b.log.Error().Err(err).Msg("transcription failed")
		return c.Send("🎤 No pude entender el audio. Probá de nuevo.")
	}

	intent := b.heuristic.Parse(transcript)
	b.log.Info().
		Str("transcript", transcript).
		Str("tipo", string(intent.Type)).
		Bool("valido", intent.Valid).
		Msg("voice note parsed")

	if !intent.Valid {
		return c.Send(parser.RenderSummary(intent) + "\n\nUsá /ayuda_voz para ver ejemplos.")
	}

	b.sessions.Put(c.Chat().ID, intent)
	return c.Send(parser.RenderSummary(intent) + "\n\n¿Confirmás el movimiento? (sí/no)")
}

const genericErrorMessage = "❌ Error procesando el mensaje. Verificá el formato."

// renderPostError maps posting failures to user-facing text: named
// validation errors verbatim, anything else as a generic failure with
// the detail kept in the log.
func renderPostError(err error, log zerolog.Logger) string {
	var notFound *ledger.AccountNotFoundError
	switch {
	case errors.As(err, &notFound),
		errors.Is(err, ledger.ErrSameAccount),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrMissingDescription):
		return "❌ " + err.Error()
	default:
		log.Error().Err(err).Msg("posting failed")
		return genericErrorMessage
	}
}
