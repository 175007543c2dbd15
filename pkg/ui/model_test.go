package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/helpcab/pkg/api"
	"github.com/vanderheijden86/helpcab/pkg/model"
	"github.com/vanderheijden86/helpcab/pkg/session"
	"github.com/vanderheijden86/helpcab/pkg/testutil"
)

func newTestClient(t *testing.T, backend *testutil.FakeBackend) *api.Client {
	t.Helper()
	client, err := api.NewClient(api.Config{BaseURL: backend.URL()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func adminSession() *model.Session {
	return &model.Session{Nome: "Beatriz Lima", Telefone: "11988887777", Cargo: "admin"}
}

func technicianSession(nome string) *model.Session {
	return &model.Session{Nome: nome, Telefone: "11977776666", Cargo: "tecnico"}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func asModel(t *testing.T, tm tea.Model) Model {
	t.Helper()
	m, ok := tm.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", tm)
	}
	return m
}

func TestLoginSuccessEntersDashboard(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.AddUser(testutil.FakeUser{Nome: "João Silva", Telefone: "11999999999", Senha: "secret", Cargo: "solicitante"})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client})
	if m.screen != screenLogin {
		t.Fatalf("fresh model screen = %v, want login", m.screen)
	}

	msg := loginCmd(client, "11999999999", "secret")()
	next, _ := m.Update(msg)
	m = asModel(t, next)

	if m.screen != screenMain {
		t.Fatalf("screen after login = %v, want main", m.screen)
	}
	if m.section != model.SectionDashboard {
		t.Errorf("initial section = %q, want dashboard", m.section)
	}
	if got, _ := m.StatusLine(); !strings.Contains(got, "João Silva") {
		t.Errorf("welcome toast = %q, want the user's name in it", got)
	}
}

func TestLoginFailureStaysOnLoginScreen(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)
	backend.FailNext(401, "Credenciais inválidas")

	m := NewModel(Options{Client: client})
	msg := loginCmd(client, "11999999999", "wrong")()
	next, _ := m.Update(msg)
	m = asModel(t, next)

	if m.screen != screenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	text, isErr := m.StatusLine()
	if text != "Credenciais inválidas" || !isErr {
		t.Errorf("toast = (%q, %v), want server message as error", text, isErr)
	}
}

func TestLoginValidatesLocally(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = asModel(t, next)

	if _, isErr := m.StatusLine(); !isErr {
		t.Error("empty credentials should notify an error")
	}
	testutil.AssertNotRequested(t, backend, "POST /auth/login")
}

func TestTechnicianTicketsScopedToTheirName(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.AddTicket(model.Ticket{Titulo: "Projetor", TecnicoResponsavel: "Ana Souza", Status: model.StatusOpen})
	backend.AddTicket(model.Ticket{Titulo: "Impressora", TecnicoResponsavel: "Ana Souza", Status: model.StatusInProgress})
	backend.AddTicket(model.Ticket{Titulo: "Rede", TecnicoResponsavel: "Carlos", Status: model.StatusOpen})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: technicianSession("Ana Souza")})
	msg := loadTicketsCmd(client, *m.session)()
	next, _ := m.Update(msg)
	m = asModel(t, next)

	testutil.AssertRequested(t, backend, "GET /tickets/tecnico/Ana%20Souza")
	testutil.AssertTicketCount(t, m.Tickets(), 2)
	testutil.AssertAllAssignedTo(t, m.Tickets(), "Ana Souza")
}

func TestAdminSeesSectorSection(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	found := false
	for _, s := range m.perms.VisibleSections {
		if s == model.SectionAdminSetores {
			found = true
		}
	}
	if !found {
		t.Error("admin should see the sector section")
	}
	if !m.perms.CanAssign {
		t.Error("admin should be allowed to assign")
	}
}

func TestOpenTicketShowsDetail(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	seeded := backend.AddTicket(model.Ticket{Titulo: "Sem internet", Status: model.StatusOpen, Solicitante: "João"})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.detail.open(seeded.ID)
	msg := openTicketCmd(client, seeded.ID)()
	next, _ := m.Update(msg)
	m = asModel(t, next)

	if m.detail.state != detailDisplayed {
		t.Fatalf("detail state = %v, want displayed", m.detail.state)
	}
	if m.detail.ticket.Titulo != "Sem internet" {
		t.Errorf("detail ticket = %q", m.detail.ticket.Titulo)
	}
}

func TestOpenMissingTicketNotifiesAndCloses(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.detail.open(99)
	msg := openTicketCmd(client, 99)()
	next, _ := m.Update(msg)
	m = asModel(t, next)

	if m.detail.state != detailClosed {
		t.Errorf("detail state = %v, want closed", m.detail.state)
	}
	text, isErr := m.StatusLine()
	if text != "Chamado não encontrado" || !isErr {
		t.Errorf("toast = (%q, %v)", text, isErr)
	}
}

func TestLastOpenWins(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	first := backend.AddTicket(model.Ticket{Titulo: "Primeiro", Status: model.StatusOpen})
	second := backend.AddTicket(model.Ticket{Titulo: "Segundo", Status: model.StatusOpen})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.detail.open(first.ID)
	staleLoad := openTicketCmd(client, first.ID)()

	// The user opens another ticket before the first load lands.
	m.detail.open(second.ID)
	next, _ := m.Update(staleLoad)
	m = asModel(t, next)

	if m.detail.state != detailLoading {
		t.Errorf("stale load should be dropped, state = %v", m.detail.state)
	}
	if m.detail.ticketID != second.ID {
		t.Errorf("ticketID = %d, want %d", m.detail.ticketID, second.ID)
	}
}

func TestStatusUpdateRefetchesAndNotifies(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	seeded := backend.AddTicket(model.Ticket{Titulo: "Projetor", Status: model.StatusOpen})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.detail.open(seeded.ID)
	next, _ := m.Update(openTicketCmd(client, seeded.ID)())
	m = asModel(t, next)

	// Raw form token goes in, canonical status lands on the server.
	msg := updateStatusCmd(client, seeded.ID, "Em_andamento", "Ana Souza")()
	next, _ = m.Update(msg)
	m = asModel(t, next)

	testutil.AssertStatusCounts(t, backend.Tickets(), 0, 1, 0, 0)
	stored := backend.Tickets()[0]
	if stored.TecnicoResponsavel != "Ana Souza" {
		t.Errorf("stored technician = %q", stored.TecnicoResponsavel)
	}
	if text, _ := m.StatusLine(); text != "Chamado atualizado" {
		t.Errorf("toast = %q", text)
	}
	if m.detail.showStatusModal {
		t.Error("modal should close after a successful update")
	}
}

func TestStatusUpdateWithCurrentStatusIsIdempotent(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	seeded := backend.AddTicket(model.Ticket{Titulo: "Projetor", Status: model.StatusInProgress, TecnicoResponsavel: "Ana Souza"})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.detail.open(seeded.ID)
	next, _ := m.Update(openTicketCmd(client, seeded.ID)())
	m = asModel(t, next)

	for i := 0; i < 2; i++ {
		next, _ = m.Update(updateStatusCmd(client, seeded.ID, "Em_andamento", "Ana Souza")())
		m = asModel(t, next)
	}

	testutil.AssertStatusCounts(t, backend.Tickets(), 0, 1, 0, 0)
	stored := backend.Tickets()[0]
	if stored.TecnicoResponsavel != "Ana Souza" {
		t.Errorf("stored technician = %q", stored.TecnicoResponsavel)
	}
	if m.detail.state != detailDisplayed {
		t.Errorf("detail state = %v, want displayed", m.detail.state)
	}
	if m.detail.ticket.Status != model.StatusInProgress {
		t.Errorf("displayed status = %q", m.detail.ticket.Status)
	}
}

func TestStatusUpdateFailureKeepsModalOpen(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	seeded := backend.AddTicket(model.Ticket{Titulo: "Projetor", Status: model.StatusOpen})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.detail.open(seeded.ID)
	next, _ := m.Update(openTicketCmd(client, seeded.ID)())
	m = asModel(t, next)
	m.detail.openStatusModal()
	m.detail.state = detailUpdating

	backend.FailNext(500, "Erro interno")
	msg := updateStatusCmd(client, seeded.ID, "resolvido", "")()
	next, _ = m.Update(msg)
	m = asModel(t, next)

	if !m.detail.showStatusModal {
		t.Error("modal should stay open after a failed update")
	}
	if m.detail.state != detailDisplayed {
		t.Errorf("detail state = %v, want displayed", m.detail.state)
	}
	if text, isErr := m.StatusLine(); text != "Erro interno" || !isErr {
		t.Errorf("toast = (%q, %v)", text, isErr)
	}
}

func TestEmptyCommentNeverReachesTheServer(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	seeded := backend.AddTicket(model.Ticket{Titulo: "Projetor", Status: model.StatusOpen})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.detail.open(seeded.ID)
	next, _ := m.Update(openTicketCmd(client, seeded.ID)())
	m = asModel(t, next)
	m.detail.openCommentForm("Beatriz Lima")
	m.detail.commentText.SetValue("   ")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = asModel(t, next)

	if _, isErr := m.StatusLine(); !isErr {
		t.Error("blank comment should notify an error")
	}
	if !m.detail.showCommentForm {
		t.Error("form should stay open with the input retained")
	}
	testutil.AssertNotRequested(t, backend, "POST /tickets/1/comentarios")
}

func TestCommentRoundTrip(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	seeded := backend.AddTicket(model.Ticket{Titulo: "Projetor", Status: model.StatusOpen})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.detail.open(seeded.ID)
	next, _ := m.Update(openTicketCmd(client, seeded.ID)())
	m = asModel(t, next)
	m.detail.openCommentForm("Beatriz Lima")
	m.detail.commentText.SetValue("Trocado o cabo.")

	msg := addCommentCmd(client, seeded.ID, "Beatriz Lima", "Trocado o cabo.")()
	next, _ = m.Update(msg)
	m = asModel(t, next)

	if len(m.detail.comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(m.detail.comments))
	}
	if m.detail.comments[0].Autor != "Beatriz Lima" {
		t.Errorf("autor = %q", m.detail.comments[0].Autor)
	}
	if m.detail.showCommentForm {
		t.Error("form should close on success")
	}
	if m.detail.commentText.Value() != "" {
		t.Error("input should clear on success")
	}
}

func TestCreateTicketResetsFormAndJumpsToList(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SetNextProtocol("A1B2")
	client := newTestClient(t, backend)

	sess := adminSession()
	m := NewModel(Options{Client: client, Session: sess})
	m.section = model.SectionNewTicket
	m.ticketForm.titulo.SetValue("Sem internet na sala 12")
	m.ticketForm.departamento.SetValue("Secretaria")
	m.ticketForm.detalheText.SetValue("12")
	m.ticketForm.descricao.SetValue("O link caiu de manhã.")

	if problem := m.ticketForm.Validate(); problem != "" {
		t.Fatalf("Validate() = %q, want ok", problem)
	}

	msg := createTicketCmd(client, m.ticketForm.Draft(*sess))()
	next, _ := m.Update(msg)
	m = asModel(t, next)

	if m.section != model.SectionTickets {
		t.Errorf("section = %q, want tickets", m.section)
	}
	if got := m.ticketForm.titulo.Value(); got != "" {
		t.Errorf("form should reset, titulo = %q", got)
	}
	if text, _ := m.StatusLine(); !strings.Contains(text, "Protocolo: A1B2") {
		t.Errorf("toast = %q, want the protocol in it", text)
	}

	stored := backend.Tickets()
	if len(stored) != 1 || stored[0].Protocolo != "A1B2" {
		t.Fatalf("stored tickets = %+v", stored)
	}
	if stored[0].Solicitante != sess.Nome {
		t.Errorf("solicitante = %q, want session user", stored[0].Solicitante)
	}
}

func TestEmptyTicketListShowsPlaceholder(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.section = model.SectionTickets
	next, _ := m.Update(TicketsLoadedMsg{})
	m = asModel(t, next)

	if view := m.sectionView(); !strings.Contains(view, emptyListPlaceholder) {
		t.Errorf("tickets view should show %q", emptyListPlaceholder)
	}
}

func TestSectorAssignmentFlow(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.AddUser(testutil.FakeUser{Nome: "Ana Souza", Telefone: "1", Senha: "x", Cargo: "tecnico"})
	backend.AddAssignment(model.SectorAssignment{Setor: "salas", Tecnico: "Carlos"})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	next, _ := m.Update(loadSectorDataCmd(client)())
	m = asModel(t, next)

	if !m.admin.loaded {
		t.Fatal("admin panel should be loaded")
	}
	if len(m.admin.technicians) != 1 {
		t.Fatalf("technicians = %d, want 1", len(m.admin.technicians))
	}

	setor, tecnico, ok := m.admin.selection()
	if !ok {
		t.Fatal("selection should be available")
	}
	next, _ = m.Update(saveAssignmentCmd(client, setor, tecnico)())
	m = asModel(t, next)

	found := false
	for _, a := range backend.Assignments() {
		if a.Setor == setor && a.Tecnico == tecnico {
			found = true
		}
	}
	if !found {
		t.Errorf("assignment %s → %s not stored", setor, tecnico)
	}
	if text, isErr := m.StatusLine(); text == "" || isErr {
		t.Errorf("toast = (%q, %v), want a success message", text, isErr)
	}
}

func TestLogoutClearsStoreAndReturnsToLogin(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	store := session.NewStore(filepath.Join(t.TempDir(), session.FileName))
	if err := store.Save(*adminSession()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m := NewModel(Options{Client: client, Store: store, Session: adminSession()})
	next, _ := m.Update(clearSessionCmd(store)())
	m = asModel(t, next)

	if m.screen != screenLogin {
		t.Errorf("screen = %v, want login", m.screen)
	}
	if sess, err := store.Load(); err != nil || sess != nil {
		t.Errorf("store after logout = (%v, %v), want empty", sess, err)
	}
}

func TestSessionClearedElsewhereReturnsToLogin(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	next, _ := m.Update(SessionReloadedMsg{Session: nil})
	m = asModel(t, next)

	if m.screen != screenLogin {
		t.Errorf("screen = %v, want login", m.screen)
	}
}

func TestRoleDowngradeElsewhereLeavesAdminSection(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.section = model.SectionAdminSetores

	next, _ := m.Update(SessionReloadedMsg{Session: technicianSession("Ana Souza")})
	m = asModel(t, next)

	if m.Section() == model.SectionAdminSetores {
		t.Error("admin section should not survive a downgrade to technician")
	}
	if m.Section() != model.SectionDashboard {
		t.Errorf("section = %q, want dashboard", m.Section())
	}
}

func TestToastExpiryIgnoresStaleIDs(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	m.notify("primeira", false)
	m.notify("segunda", false)

	next, _ := m.Update(ToastExpiredMsg{ID: 1})
	m = asModel(t, next)
	if text, _ := m.StatusLine(); text != "segunda" {
		t.Errorf("stale expiry cleared toast, got %q", text)
	}

	next, _ = m.Update(ToastExpiredMsg{ID: 2})
	m = asModel(t, next)
	if text, _ := m.StatusLine(); text != "" {
		t.Errorf("current expiry should clear, got %q", text)
	}
}

func TestSectionSwitchByNumberKeys(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	next, _ := m.Update(keyRune('2'))
	m = asModel(t, next)

	if m.section != model.SectionTickets {
		t.Errorf("section = %q, want tickets", m.section)
	}

	next, _ = m.Update(keyRune('4'))
	m = asModel(t, next)
	if m.section != model.SectionAdminSetores {
		t.Errorf("section = %q, want adminSetores", m.section)
	}
}

func TestDashboardSummaryFromLoad(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	now := time.Now()
	backend.AddTicket(model.Ticket{Titulo: "A", Status: model.StatusOpen, DataAbertura: now.Add(-48 * time.Hour)})
	backend.AddTicket(model.Ticket{Titulo: "B", Status: model.StatusResolved, TecnicoResponsavel: "Ana", DataAbertura: now})
	client := newTestClient(t, backend)

	m := NewModel(Options{Client: client, Session: adminSession()})
	next, _ := m.Update(loadDashboardCmd(client, *m.session)())
	m = asModel(t, next)

	if !m.summaryLoaded {
		t.Fatal("summary should be loaded")
	}
	if m.summary.Total != 2 || m.summary.Open() != 1 {
		t.Errorf("summary = %+v", m.summary)
	}
	if view := m.dashboardView(); !strings.Contains(view, "2 chamados") {
		t.Errorf("dashboard view missing total: %q", view)
	}
}
