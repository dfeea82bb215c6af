// Package web serves the dashboard: balances per account, the day's
// movements, a small accounts API and a CSV export of the ledger.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kevinkling/kashflow/internal/ledger"
	"github.com/kevinkling/kashflow/internal/model"
	"github.com/kevinkling/kashflow/internal/parser"
	"github.com/kevinkling/kashflow/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Server struct {
	store     *store.Store
	projector *ledger.Projector
	tmpl      *template.Template
	log       zerolog.Logger
}

func NewServer(s *store.Store, projector *ledger.Projector, log zerolog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{store: s, projector: projector, tmpl: tmpl, log: log}, nil
}

// Router wires the dashboard and API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		s.serveDashboard(w, r)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/api/accounts", s.handleAccounts)
	mux.HandleFunc("/api/accounts/", s.handleAccountByID)
	mux.HandleFunc("/export", s.handleExport)

	return mux
}

// --- dashboard ---

type balanceView struct {
	Name    string
	Alias   string
	Color   string
	Balance string
}

type entryView struct {
	Time        string
	Account     string
	Description string
	Amount      string
	IsDebit     bool
}

type dashboardData struct {
	Balances []balanceView
	Today    []entryView
	Total    string
}

func (s *Server) serveDashboard(w http.ResponseWriter, r *http.Request) {
	balances, err := s.projector.Balances()
	if err != nil {
		s.log.Error().Err(err).Msg("load balances")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	today, err := s.projector.TodaysEntries()
	if err != nil {
		s.log.Error().Err(err).Msg("load today's entries")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := dashboardData{}
	for _, ab := range balances {
		data.Balances = append(data.Balances, balanceView{
			Name:    ab.Account.Name,
			Alias:   ab.Account.Alias,
			Color:   ab.Account.Color,
			Balance: parser.FormatAmount(ab.Balance),
		})
	}
	for _, e := range today {
		data.Today = append(data.Today, entryView{
			Time:        e.CreatedAt.Format("15:04"),
			Account:     e.AccountAlias,
			Description: e.Description,
			Amount:      parser.FormatAmount(e.Signed()),
			IsDebit:     e.Kind == model.KindDebit,
		})
	}
	data.Total = totalOf(balances)

	target := "index.html"
	if r.Header.Get("HX-Request") == "true" {
		target = "dashboard"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, target, data); err != nil {
		s.log.Error().Err(err).Msg("execute template")
		http.Error(w, "Template Error", http.StatusInternalServerError)
	}
}

func totalOf(balances []model.AccountBalance) string {
	total := decimal.Zero
	for _, ab := range balances {
		total = total.Add(ab.Balance)
	}
	return parser.FormatAmount(total)
}

// --- accounts API ---

type accountPayload struct {
	Name     string `json:"nombre"`
	Alias    string `json:"alias"`
	Color    string `json:"color"`
	Currency string `json:"moneda"`
	Active   *bool  `json:"activa,omitempty"`
}

type accountResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"nombre"`
	Alias    string `json:"alias"`
	Color    string `json:"color"`
	Currency string `json:"moneda"`
	Active   bool   `json:"activa"`
	Balance  string `json:"saldo,omitempty"`
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listAccounts(w)
	case http.MethodPost:
		s.createAccount(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listAccounts(w http.ResponseWriter) {
	balances, err := s.projector.Balances()
	if err != nil {
		s.log.Error().Err(err).Msg("list accounts")
		writeJSONError(w, http.StatusInternalServerError, "Error al obtener las cuentas")
		return
	}

	out := make([]accountResponse, 0, len(balances))
	for _, ab := range balances {
		out = append(out, accountResponse{
			ID:       ab.Account.ID,
			Name:     ab.Account.Name,
			Alias:    ab.Account.Alias,
			Color:    ab.Account.Color,
			Currency: ab.Account.Currency,
			Active:   ab.Account.Active,
			Balance:  ab.Balance.StringFixed(2),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}
	if payload.Name == "" || payload.Alias == "" {
		writeJSONError(w, http.StatusBadRequest, "Faltan campos requeridos: nombre, alias")
		return
	}
	if payload.Color != "" && !colorPattern.MatchString(payload.Color) {
		writeJSONError(w, http.StatusBadRequest, "El color debe estar en formato hexadecimal (#RRGGBB)")
		return
	}

	// The alias index is case-insensitive unique; report the clash
	// before trusting the driver error text.
	if existing, err := s.store.ResolveByAlias(payload.Alias); err == nil && existing != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("El alias %q ya está en uso", payload.Alias))
		return
	}

	account, err := s.store.CreateAccount(model.Account{
		Name:     payload.Name,
		Alias:    payload.Alias,
		Color:    payload.Color,
		Currency: payload.Currency,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("El alias %q ya está en uso", payload.Alias))
			return
		}
		s.log.Error().Err(err).Msg("create account")
		writeJSONError(w, http.StatusInternalServerError, "Error al crear la cuenta")
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse{
		ID: account.ID, Name: account.Name, Alias: account.Alias,
		Color: account.Color, Currency: account.Currency, Active: account.Active,
	})
}

func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/accounts/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	account, err := s.store.GetAccount(id)
	if err != nil {
		s.log.Error().Err(err).Msg("get account")
		writeJSONError(w, http.StatusInternalServerError, "Error al obtener la cuenta")
		return
	}
	if account == nil {
		writeJSONError(w, http.StatusNotFound, "Cuenta no encontrada")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, accountResponse{
			ID: account.ID, Name: account.Name, Alias: account.Alias,
			Color: account.Color, Currency: account.Currency, Active: account.Active,
		})

	case http.MethodPut:
		var payload accountPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
			return
		}
		if payload.Color != "" && !colorPattern.MatchString(payload.Color) {
			writeJSONError(w, http.StatusBadRequest, "El color debe estar en formato hexadecimal (#RRGGBB)")
			return
		}
		applyAccountPayload(account, payload)
		if err := s.store.UpdateAccount(*account); err != nil {
			s.log.Error().Err(err).Msg("update account")
			writeJSONError(w, http.StatusInternalServerError, "Error al actualizar la cuenta")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Cuenta actualizada exitosamente"})

	case http.MethodDelete:
		// Archive, never delete: historical entries keep their account.
		if err := s.store.ArchiveAccount(id); err != nil {
			s.log.Error().Err(err).Msg("archive account")
			writeJSONError(w, http.StatusInternalServerError, "Error al archivar la cuenta")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Cuenta archivada exitosamente"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func applyAccountPayload(account *model.Account, payload accountPayload) {
	if payload.Name != "" {
		account.Name = payload.Name
	}
	if payload.Alias != "" {
		account.Alias = payload.Alias
	}
	if payload.Color != "" {
		account.Color = payload.Color
	}
	if payload.Currency != "" {
		account.Currency = payload.Currency
	}
	if payload.Active != nil {
		account.Active = *payload.Active
	}
}

// --- export ---

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.AllEntries()
	if err != nil {
		s.log.Error().Err(err).Msg("export entries")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=kashflow_export.csv")

	fmt.Fprintln(w, "ID,Fecha,Cuenta,Tipo,Monto,Descripcion,Transferencia")
	for _, e := range entries {
		transferRef := ""
		if e.TransferID != 0 {
			transferRef = strconv.FormatInt(e.TransferID, 10)
		}
		fmt.Fprintf(w, "%d,%s,%s,%s,%s,\"%s\",%s\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.AccountAlias, e.Kind, e.Signed().StringFixed(2),
			strings.ReplaceAll(e.Description, `"`, `""`), transferRef)
	}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
