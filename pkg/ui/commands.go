package ui

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/helpcab/pkg/api"
	"github.com/vanderheijden86/helpcab/pkg/model"
	"github.com/vanderheijden86/helpcab/pkg/session"
	"github.com/vanderheijden86/helpcab/pkg/stats"
	"github.com/vanderheijden86/helpcab/pkg/watcher"
)

// requestTimeout bounds every API round trip issued from the UI.
const requestTimeout = 15 * time.Second

// toastLifetime is how long a notification stays on screen.
const toastLifetime = 5 * time.Second

// Gauge counts in-flight API requests. The header spinner renders while the
// count is non-zero, so it reflects real network work rather than guesses.
type Gauge struct {
	n atomic.Int64
}

// Hooks returns request hooks that keep the gauge balanced. RequestEnded is
// guaranteed to fire exactly once per started request, so the count cannot
// drift.
func (g *Gauge) Hooks() api.Hooks {
	return api.Hooks{
		RequestStarted: func() { g.n.Add(1) },
		RequestEnded:   func() { g.n.Add(-1) },
	}
}

// Active reports whether any request is currently in flight.
func (g *Gauge) Active() bool {
	return g.n.Load() > 0
}

// LoggedInMsg is sent after a successful login.
type LoggedInMsg struct {
	Session model.Session
}

// RegisteredMsg is sent after a successful account registration.
type RegisteredMsg struct {
	Nome string
}

// LoggedOutMsg is sent after the stored session has been cleared.
type LoggedOutMsg struct{}

// TicketsLoadedMsg carries a fresh, role-scoped ticket list.
type TicketsLoadedMsg struct {
	Tickets []model.Ticket
}

// DashboardLoadedMsg carries the ticket list plus computed summary figures.
type DashboardLoadedMsg struct {
	Tickets []model.Ticket
	Summary stats.Summary
}

// TicketOpenedMsg carries a ticket and its comments for the detail panel.
type TicketOpenedMsg struct {
	Ticket   model.Ticket
	Comments []model.Comment
}

// TicketNotFoundMsg is sent when the requested ticket id no longer exists.
type TicketNotFoundMsg struct {
	ID int
}

// StatusUpdatedMsg is sent after a ticket patch was accepted.
type StatusUpdatedMsg struct {
	Ticket model.Ticket
}

// CommentAddedMsg carries the refreshed comment list after a post.
type CommentAddedMsg struct {
	TicketID int
	Comments []model.Comment
}

// TicketCreatedMsg is sent after the server accepted a new ticket.
type TicketCreatedMsg struct {
	Ticket model.Ticket
}

// SectorDataMsg carries the sector directory and the technician choices.
type SectorDataMsg struct {
	Assignments []model.SectorAssignment
	Technicians []model.User
}

// AssignmentSavedMsg carries the server confirmation and the reloaded
// directory after a sector assignment.
type AssignmentSavedMsg struct {
	Message     string
	Assignments []model.SectorAssignment
}

// RequestErrorMsg is sent when an API command fails.
type RequestErrorMsg struct {
	Op  string
	Err error
}

// SessionFileChangedMsg is sent when the session file changes on disk.
type SessionFileChangedMsg struct{}

// SessionReloadedMsg carries the session re-read after a file change. A nil
// session means another process logged out.
type SessionReloadedMsg struct {
	Session *model.Session
}

// ToastExpiredMsg clears a notification once its lifetime has passed.
type ToastExpiredMsg struct {
	ID int
}

// errorText translates a failed request into the notification text. Server
// rejections carry their own message; everything else is a transport problem.
func errorText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Erro de conexão com o servidor"
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func loginCmd(client *api.Client, telefone, senha string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		sess, err := client.Login(ctx, telefone, senha)
		if err != nil {
			return RequestErrorMsg{Op: "login", Err: err}
		}
		return LoggedInMsg{Session: *sess}
	}
}

func registerCmd(client *api.Client, nome, telefone, senha, cargo string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		if err := client.Register(ctx, nome, telefone, senha, cargo); err != nil {
			return RequestErrorMsg{Op: "register", Err: err}
		}
		return RegisteredMsg{Nome: nome}
	}
}

// loadTickets fetches the ticket list scoped to the session's role:
// technicians only see tickets assigned to them.
func loadTickets(ctx context.Context, client *api.Client, sess model.Session) ([]model.Ticket, error) {
	if model.PermissionsFor(sess.Role()).FilterByTechnician {
		return client.TicketsByTechnician(ctx, sess.Nome)
	}
	return client.Tickets(ctx)
}

func loadTicketsCmd(client *api.Client, sess model.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		tickets, err := loadTickets(ctx, client, sess)
		if err != nil {
			return RequestErrorMsg{Op: "tickets", Err: err}
		}
		return TicketsLoadedMsg{Tickets: tickets}
	}
}

func loadDashboardCmd(client *api.Client, sess model.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		tickets, err := loadTickets(ctx, client, sess)
		if err != nil {
			return RequestErrorMsg{Op: "dashboard", Err: err}
		}
		return DashboardLoadedMsg{
			Tickets: tickets,
			Summary: stats.Compute(tickets, time.Now()),
		}
	}
}

// openTicketCmd fetches the full list and the ticket's comments together and
// locates the requested id. The list endpoint is the only way to read a
// single ticket, so a stale id surfaces as TicketNotFoundMsg.
func openTicketCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		var (
			tickets  []model.Ticket
			comments []model.Comment
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			tickets, err = client.Tickets(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			comments, err = client.Comments(gctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return RequestErrorMsg{Op: "openTicket", Err: err}
		}

		ticket := model.FindTicket(tickets, id)
		if ticket == nil {
			return TicketNotFoundMsg{ID: id}
		}
		return TicketOpenedMsg{Ticket: *ticket, Comments: comments}
	}
}

// updateStatusCmd patches a ticket. The raw form token is normalized to its
// canonical status before it goes on the wire.
func updateStatusCmd(client *api.Client, id int, statusToken, tecnico string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		ticket, err := client.UpdateTicket(ctx, id, model.NormalizeStatus(statusToken), tecnico)
		if err != nil {
			return RequestErrorMsg{Op: "updateStatus", Err: err}
		}
		return StatusUpdatedMsg{Ticket: *ticket}
	}
}

// addCommentCmd posts a comment and re-reads the thread in the same command,
// so the panel always shows server truth rather than an optimistic append.
func addCommentCmd(client *api.Client, ticketID int, autor, texto string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		if _, err := client.AddComment(ctx, ticketID, autor, texto); err != nil {
			return RequestErrorMsg{Op: "addComment", Err: err}
		}
		comments, err := client.Comments(ctx, ticketID)
		if err != nil {
			return RequestErrorMsg{Op: "comments", Err: err}
		}
		return CommentAddedMsg{TicketID: ticketID, Comments: comments}
	}
}

func createTicketCmd(client *api.Client, draft api.TicketDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		ticket, err := client.CreateTicket(ctx, draft)
		if err != nil {
			return RequestErrorMsg{Op: "createTicket", Err: err}
		}
		return TicketCreatedMsg{Ticket: *ticket}
	}
}

// loadSectorDataCmd fetches the sector directory and the technician user
// list together; the admin section needs both before it can render.
func loadSectorDataCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		var (
			assignments []model.SectorAssignment
			technicians []model.User
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			assignments, err = client.SectorTechnicians(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			technicians, err = client.TechnicianUsers(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return RequestErrorMsg{Op: "sectorData", Err: err}
		}
		return SectorDataMsg{Assignments: assignments, Technicians: technicians}
	}
}

func saveAssignmentCmd(client *api.Client, setor, tecnico string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		message, err := client.AssignSectorTechnician(ctx, setor, tecnico)
		if err != nil {
			return RequestErrorMsg{Op: "assign", Err: err}
		}
		assignments, err := client.SectorTechnicians(ctx)
		if err != nil {
			return RequestErrorMsg{Op: "sectorData", Err: err}
		}
		return AssignmentSavedMsg{Message: message, Assignments: assignments}
	}
}

// saveSessionCmd persists the session in the background. A write failure is
// not fatal to the running program, so it only surfaces as a notification.
func saveSessionCmd(store *session.Store, sess model.Session) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return nil
		}
		if err := store.Save(sess); err != nil {
			return RequestErrorMsg{Op: "saveSession", Err: err}
		}
		return nil
	}
}

func clearSessionCmd(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		if store != nil {
			if err := store.Clear(); err != nil {
				return RequestErrorMsg{Op: "clearSession", Err: err}
			}
		}
		return LoggedOutMsg{}
	}
}

// WatchSessionCmd waits for the next session file change.
func WatchSessionCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return SessionFileChangedMsg{}
	}
}

// reloadSessionCmd re-reads the session store after a file change.
func reloadSessionCmd(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return nil
		}
		sess, err := store.Load()
		if err != nil {
			return RequestErrorMsg{Op: "loadSession", Err: err}
		}
		return SessionReloadedMsg{Session: sess}
	}
}

func toastExpireCmd(id int) tea.Cmd {
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}
