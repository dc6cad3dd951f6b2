// Package apitest provides an in-memory fake of the outlai backend for
// tests. It implements just enough of the REST contract for the client
// layer to be exercised end to end: cookie sessions, paginated expense
// listing with category filtering, period totals and the photo
// extraction endpoint with a scriptable response.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"outlai/internal/core"
)

// Server is the fake backend. All fields guarded by mu.
type Server struct {
	mu sync.Mutex

	httpServer *httptest.Server

	user     core.User
	password string
	loggedIn bool

	nextID   int
	expenses []core.Expense

	totals map[string]float64

	// ExtractResponse is returned verbatim by the extraction endpoint.
	extractResponse json.RawMessage

	// failCreateDescriptions makes Create fail for specific descriptions,
	// used to simulate partial batch failures.
	failCreateDescriptions map[string]bool
}

// New starts a fake backend seeded with a single known user.
func New() *Server {
	s := &Server{
		user:                   core.User{ID: "u1", Name: "Paulo", Email: "paulo@example.com"},
		password:               "senha123",
		nextID:                 1,
		totals:                 map[string]float64{},
		failCreateDescriptions: map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", s.handleLogin)
	mux.HandleFunc("/auth/logout", s.handleLogout)
	mux.HandleFunc("/auth/register", s.handleRegister)
	mux.HandleFunc("/users/me", s.handleMe)
	mux.HandleFunc("/expenses/totals/period", s.handleTotals)
	mux.HandleFunc("/expenses/ai/extract-expenses-from-photo", s.handleExtract)
	mux.HandleFunc("/expenses/", s.handleExpenses)
	s.httpServer = httptest.NewServer(mux)
	return s
}

// URL returns the fake backend's base URL.
func (s *Server) URL() string { return s.httpServer.URL }

// Close shuts the fake backend down.
func (s *Server) Close() { s.httpServer.Close() }

// Seed inserts expenses directly, bypassing the HTTP surface.
func (s *Server) Seed(expenses ...core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range expenses {
		if e.ID == "" {
			e.ID = fmt.Sprintf("e%d", s.nextID)
			s.nextID++
		}
		s.expenses = append(s.expenses, e)
	}
}

// SetTotals replaces the period-totals mapping.
func (s *Server) SetTotals(totals map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = totals
}

// SetExtractResponse scripts the extraction endpoint's response body.
func (s *Server) SetExtractResponse(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extractResponse = json.RawMessage(raw)
}

// FailCreateFor makes expense creation fail with a 500 for the given
// description.
func (s *Server) FailCreateFor(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreateDescriptions[description] = true
}

// Expenses returns a snapshot of the stored expenses.
func (s *Server) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// LoggedIn reports whether a session is currently established.
func (s *Server) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if creds.Email != s.user.Email || creds.Password != s.password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.loggedIn = true
	http.SetCookie(w, &http.Cookie{Name: "outlai_session", Value: "test-session", Path: "/"})
	writeJSON(w, map[string]any{"token": testToken, "user": s.user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.loggedIn = false
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if creds.Email == s.user.Email {
		writeError(w, http.StatusConflict, "email already taken")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.user)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.totals)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var payload struct {
		URI string `json:"uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.URI == "" {
		writeError(w, http.StatusBadRequest, "missing uri")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extractResponse == nil {
		writeJSON(w, []any{})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.extractResponse)
}

// handleExpenses dispatches /expenses/ and /expenses/{id}.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/expenses/")
	switch {
	case id == "" && r.Method == http.MethodGet:
		s.handleList(w, r)
	case id == "" && r.Method == http.MethodPost:
		s.handleCreate(w, r)
	case id != "" && r.Method == http.MethodGet:
		s.handleGet(w, id)
	case id != "" && r.Method == http.MethodPut:
		s.handleUpdate(w, r, id)
	case id != "" && r.Method == http.MethodDelete:
		s.handleDelete(w, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		writeError(w, http.StatusBadRequest, "page must be at least 1")
		return
	}
	if limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be at least 1")
		return
	}
	category := r.URL.Query().Get("category")

	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if category == "" || e.Category == category {
			filtered = append(filtered, e)
		}
	}
	// newest first, like the real backend
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date.Time)
	})

	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, map[string]any{
		"data": filtered[start:end],
		"pagination": core.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload core.CreateExpense
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateDescriptions[payload.Description] {
		writeError(w, http.StatusInternalServerError, "creation failed")
		return
	}

	date, err := core.ParseDate(payload.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	e := core.Expense{
		ID:          fmt.Sprintf("e%d", s.nextID),
		UserID:      s.user.ID,
		Description: payload.Description,
		Amount:      payload.Amount,
		Category:    payload.Category,
		Date:        date,
	}
	s.nextID++
	s.expenses = append(s.expenses, e)
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, e)
}

func (s *Server) handleGet(w http.ResponseWriter, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id {
			writeJSON(w, e)
			return
		}
	}
	writeError(w, http.StatusNotFound, "expense not found")
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var payload core.UpdateExpense
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID != id {
			continue
		}
		if payload.Description != nil {
			s.expenses[i].Description = *payload.Description
		}
		if payload.Amount != nil {
			s.expenses[i].Amount = *payload.Amount
		}
		if payload.Category != nil {
			s.expenses[i].Category = *payload.Category
		}
		if payload.Date != nil {
			date, err := core.ParseDate(*payload.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid date")
				return
			}
			s.expenses[i].Date = date
		}
		writeJSON(w, s.expenses[i])
		return
	}
	writeError(w, http.StatusNotFound, "expense not found")
}

func (s *Server) handleDelete(w http.ResponseWriter, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "expense not found")
}

func (s *Server) authorized(r *http.Request) bool {
	cookie, err := r.Cookie("outlai_session")
	if err != nil || cookie.Value != "test-session" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
