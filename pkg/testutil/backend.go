// Package testutil provides test helpers for hc: an in-memory fake of
// the helpcab backend and assertion helpers.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// FakeUser is a registered account on the fake backend.
type FakeUser struct {
	Nome     string
	Telefone string
	Senha    string
	Cargo    string
}

// FakeBackend is an httptest server implementing the helpcab REST
// surface over in-memory fixtures. Safe for concurrent use.
type FakeBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	users       []FakeUser
	tickets     []model.Ticket
	comments    map[int][]model.Comment
	assignments []model.SectorAssignment
	nextID      int
	protocols   []string
	requests    []string

	failNextStatus  int
	failNextMessage string
}

// NewFakeBackend starts a fake backend. It is closed automatically when
// the test finishes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		comments: make(map[int][]model.Comment),
		nextID:   1,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend's base URL.
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// AddUser registers an account.
func (b *FakeBackend) AddUser(u FakeUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = append(b.users, u)
}

// AddTicket seeds a ticket, assigning an id if absent, and returns it.
func (b *FakeBackend) AddTicket(t model.Ticket) model.Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.ID == 0 {
		t.ID = b.nextID
	}
	if t.ID >= b.nextID {
		b.nextID = t.ID + 1
	}
	if t.DataAbertura.IsZero() {
		t.DataAbertura = time.Now()
	}
	b.tickets = append(b.tickets, t)
	return t
}

// SetNextProtocol queues protocol codes returned by ticket creation.
func (b *FakeBackend) SetNextProtocol(protocols ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.protocols = append(b.protocols, protocols...)
}

// AddAssignment seeds a sector → technician assignment.
func (b *FakeBackend) AddAssignment(a model.SectorAssignment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assignments = append(b.assignments, a)
}

// FailNext makes the next request fail with the given status and
// payload message.
func (b *FakeBackend) FailNext(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNextStatus = status
	b.failNextMessage = message
}

// Requests returns the "METHOD path" log of every request served.
func (b *FakeBackend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.requests))
	copy(out, b.requests)
	return out
}

// Tickets returns a copy of the current ticket fixtures.
func (b *FakeBackend) Tickets() []model.Ticket {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Ticket, len(b.tickets))
	copy(out, b.tickets)
	return out
}

// Comments returns a copy of a ticket's comments.
func (b *FakeBackend) Comments(ticketID int) []model.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Comment, len(b.comments[ticketID]))
	copy(out, b.comments[ticketID])
	return out
}

// Assignments returns a copy of the sector directory.
func (b *FakeBackend) Assignments() []model.SectorAssignment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.SectorAssignment, len(b.assignments))
	copy(out, b.assignments)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := json.Marshal(v)
	w.Write(data)
}

func (b *FakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.EscapedPath())
	if b.failNextStatus != 0 {
		status, message := b.failNextStatus, b.failNextMessage
		b.failNextStatus = 0
		b.mu.Unlock()
		writeJSON(w, status, map[string]string{"message": message})
		return
	}
	b.mu.Unlock()

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodPost && path == "/auth/login":
		b.handleLogin(w, r)
	case r.Method == http.MethodPost && path == "/auth/register":
		b.handleRegister(w, r)
	case r.Method == http.MethodGet && path == "/tickets":
		writeJSON(w, http.StatusOK, b.Tickets())
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/tickets/tecnico/"):
		b.handleTicketsByTechnician(w, r, strings.TrimPrefix(path, "/tickets/tecnico/"))
	case r.Method == http.MethodPost && path == "/tickets":
		b.handleCreateTicket(w, r)
	case r.Method == http.MethodPatch && strings.HasPrefix(path, "/tickets/"):
		b.handleUpdateTicket(w, r, strings.TrimPrefix(path, "/tickets/"))
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/comentarios"):
		b.handleListComments(w, r, path)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/comentarios"):
		b.handleAddComment(w, r, path)
	case r.Method == http.MethodGet && path == "/auth/setores-tecnicos":
		writeJSON(w, http.StatusOK, b.Assignments())
	case r.Method == http.MethodPost && path == "/auth/setor-tecnico":
		b.handleAssign(w, r)
	case r.Method == http.MethodGet && path == "/auth/usuarios":
		b.handleUsers(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "rota não encontrada"})
	}
}

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Telefone string `json:"telefone"`
		Senha    string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "corpo inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Telefone == req.Telefone && u.Senha == req.Senha {
			writeJSON(w, http.StatusOK, map[string]any{
				"usuario": model.Session{Nome: u.Nome, Telefone: u.Telefone, Cargo: u.Cargo},
			})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
}

func (b *FakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nome     string `json:"nome"`
		Telefone string `json:"telefone"`
		Senha    string `json:"senha"`
		Cargo    string `json:"cargo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Telefone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "corpo inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Telefone == req.Telefone {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Telefone já cadastrado"})
			return
		}
	}
	b.users = append(b.users, FakeUser{Nome: req.Nome, Telefone: req.Telefone, Senha: req.Senha, Cargo: req.Cargo})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Cadastro realizado"})
}

func (b *FakeBackend) handleTicketsByTechnician(w http.ResponseWriter, _ *http.Request, rawName string) {
	name := rawName
	if unescaped, err := url.PathUnescape(rawName); err == nil {
		name = unescaped
	}

	filtered := []model.Ticket{}
	for _, t := range b.Tickets() {
		if t.TecnicoResponsavel == name {
			filtered = append(filtered, t)
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (b *FakeBackend) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var draft model.Ticket
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "corpo inválido"})
		return
	}

	b.mu.Lock()
	draft.ID = b.nextID
	b.nextID++
	if len(b.protocols) > 0 {
		draft.Protocolo = b.protocols[0]
		b.protocols = b.protocols[1:]
	} else {
		draft.Protocolo = fmt.Sprintf("P%04d", draft.ID)
	}
	if draft.Status == "" {
		draft.Status = model.StatusOpen
	}
	draft.DataAbertura = time.Now()
	b.tickets = append(b.tickets, draft)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"ticket": draft})
}

func (b *FakeBackend) handleUpdateTicket(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id inválido"})
		return
	}
	var req struct {
		Status             model.Status `json:"status"`
		TecnicoResponsavel string       `json:"tecnicoResponsavel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "corpo inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tickets {
		if b.tickets[i].ID == id {
			b.tickets[i].Status = req.Status
			b.tickets[i].TecnicoResponsavel = req.TecnicoResponsavel
			b.tickets[i].DataAtualizacao = time.Now()
			writeJSON(w, http.StatusOK, b.tickets[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Chamado não encontrado"})
}

func commentTicketID(path string) (int, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "/tickets/"), "/comentarios")
	return strconv.Atoi(trimmed)
}

func (b *FakeBackend) handleListComments(w http.ResponseWriter, _ *http.Request, path string) {
	id, err := commentTicketID(path)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id inválido"})
		return
	}
	comments := b.Comments(id)
	if comments == nil {
		comments = []model.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (b *FakeBackend) handleAddComment(w http.ResponseWriter, r *http.Request, path string) {
	id, err := commentTicketID(path)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "id inválido"})
		return
	}
	var req struct {
		Autor string `json:"autor"`
		Texto string `json:"texto"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Texto) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "comentário vazio"})
		return
	}

	comment := model.Comment{Autor: req.Autor, Texto: req.Texto, Data: time.Now()}
	b.mu.Lock()
	b.comments[id] = append(b.comments[id], comment)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, comment)
}

func (b *FakeBackend) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req model.SectorAssignment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Setor == "" || req.Tecnico == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Preencha todos os campos"})
		return
	}

	b.mu.Lock()
	replaced := false
	for i := range b.assignments {
		if b.assignments[i].Setor == req.Setor {
			b.assignments[i].Tecnico = req.Tecnico
			replaced = true
			break
		}
	}
	if !replaced {
		b.assignments = append(b.assignments, req)
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Técnico salvo com sucesso"})
}

func (b *FakeBackend) handleUsers(w http.ResponseWriter, r *http.Request) {
	cargo := r.URL.Query().Get("cargo")

	b.mu.Lock()
	defer b.mu.Unlock()
	users := []model.User{}
	for _, u := range b.users {
		if cargo == "" || u.Cargo == cargo {
			users = append(users, model.User{Nome: u.Nome, Telefone: u.Telefone, Cargo: u.Cargo})
		}
	}
	writeJSON(w, http.StatusOK, users)
}
