package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/helpcab/pkg/api"
	"github.com/vanderheijden86/helpcab/pkg/debug"
	"github.com/vanderheijden86/helpcab/pkg/model"
	"github.com/vanderheijden86/helpcab/pkg/session"
	"github.com/vanderheijden86/helpcab/pkg/stats"
	"github.com/vanderheijden86/helpcab/pkg/watcher"
)

// screen is the top-level mode: unauthenticated forms or the dashboard.
type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenMain
)

// emptyListPlaceholder is shown when a ticket load returns nothing.
const emptyListPlaceholder = "Nenhum chamado encontrado"

// Options wires the model to its collaborators. Client is required; the
// rest may be nil (no persistence, no file watch, no spinner gauge).
type Options struct {
	Client  *api.Client
	Store   *session.Store
	Watcher *watcher.Watcher
	Gauge   *Gauge
	Session *model.Session
	Theme   *Theme

	// DefaultSection is the section shown after login when the role can
	// see it. Empty means the role's first section.
	DefaultSection model.Section

	// CommentAuthor overrides the session name prefilled on comments.
	CommentAuthor string
}

// Model is the whole application state. Bubble Tea owns it by value;
// every Update returns the next state.
type Model struct {
	client *api.Client
	store  *session.Store
	watch  *watcher.Watcher
	gauge  *Gauge
	theme  Theme

	screen         screen
	session        *model.Session
	perms          model.Permissions
	defaultSection model.Section
	commentAuthor  string

	login    loginForm
	register registerForm

	section       model.Section
	list          list.Model
	tickets       []model.Ticket
	summary       stats.Summary
	summaryLoaded bool
	ticketForm    ticketForm
	admin         adminPanel
	detail        detailPanel

	spin spinner.Model

	statusMsg     string
	statusIsError bool
	toastID       int

	width  int
	height int
	ready  bool
}

// NewModel builds the initial state. With a stored session the model goes
// straight to the dashboard; Init then issues the first load.
func NewModel(opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	ticketList := list.New(nil, TicketDelegate{Theme: theme}, 0, 0)
	ticketList.SetShowTitle(false)
	ticketList.SetShowHelp(false)
	ticketList.SetStatusBarItemName("chamado", "chamados")
	ticketList.DisableQuitKeybindings()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = theme.PrimaryBold

	m := Model{
		client:         opts.Client,
		store:          opts.Store,
		watch:          opts.Watcher,
		gauge:          opts.Gauge,
		theme:          theme,
		defaultSection: opts.DefaultSection,
		commentAuthor:  opts.CommentAuthor,
		login:          newLoginForm(),
		register:       newRegisterForm(),
		ticketForm:     newTicketForm(),
		detail:         newDetailPanel(),
		list:           ticketList,
		spin:           spin,
		width:          120,
		height:         40,
		ready:          true,
	}
	m.list.SetSize(m.width, m.bodyHeight())
	m.detail.setSize(m.width, m.bodyHeight())

	if opts.Session != nil {
		m.installSession(*opts.Session)
	}
	return m
}

// installSession switches to the dashboard for the given session. The
// caller is responsible for issuing the section load command.
func (m *Model) installSession(sess model.Session) {
	m.screen = screenMain
	m.session = &sess
	m.perms = model.PermissionsFor(sess.Role())
	m.section = m.perms.VisibleSections[0]
	if m.perms.Sees(m.defaultSection) {
		m.section = m.defaultSection
	}
}

// Section returns the active navigation section.
func (m Model) Section() model.Section {
	return m.section
}

// Tickets returns the currently loaded ticket list.
func (m Model) Tickets() []model.Ticket {
	return m.tickets
}

// StatusLine returns the current notification and whether it is an error.
func (m Model) StatusLine() (string, bool) {
	return m.statusMsg, m.statusIsError
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.watch != nil {
		cmds = append(cmds, WatchSessionCmd(m.watch))
	}
	if m.screen == screenMain {
		cmds = append(cmds, m.loadSection(m.section))
	}
	return tea.Batch(cmds...)
}

// notify installs a toast and schedules its expiry. Each toast gets a new
// id so an expiry for an older toast never clears a newer one.
func (m *Model) notify(text string, isError bool) tea.Cmd {
	m.statusMsg = text
	m.statusIsError = isError
	m.toastID++
	return toastExpireCmd(m.toastID)
}

// loadSection returns the load command for a section without changing it.
func (m *Model) loadSection(s model.Section) tea.Cmd {
	if m.session == nil {
		return nil
	}
	switch s {
	case model.SectionDashboard:
		return loadDashboardCmd(m.client, *m.session)
	case model.SectionTickets:
		return loadTicketsCmd(m.client, *m.session)
	case model.SectionAdminSetores:
		return loadSectorDataCmd(m.client)
	}
	return nil
}

// selectSection switches the active section and kicks off its load.
func (m *Model) selectSection(s model.Section) tea.Cmd {
	m.section = s
	m.detail.close()
	debug.Log("section switch: %s", s)
	return m.loadSection(s)
}

func (m *Model) setTickets(tickets []model.Ticket) {
	m.tickets = tickets
	items := make([]list.Item, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, TicketItem{Ticket: t})
	}
	m.list.SetItems(items)
}

func (m Model) bodyHeight() int {
	// header + nav + footer
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(m.width, m.bodyHeight())
		m.detail.setSize(m.width, m.bodyHeight())
		m.detail.render(m.theme, m.width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ToastExpiredMsg:
		if msg.ID == m.toastID {
			m.statusMsg = ""
			m.statusIsError = false
		}
		return m, nil

	case SessionFileChangedMsg:
		cmds = append(cmds, reloadSessionCmd(m.store))
		if m.watch != nil {
			cmds = append(cmds, WatchSessionCmd(m.watch))
		}
		return m, tea.Batch(cmds...)

	case SessionReloadedMsg:
		return m.handleSessionReloaded(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// API results are handled regardless of screen: login and registration
	// outcomes arrive while the auth forms are still up.
	return m.handleMainMsg(msg)
}

// handleSessionReloaded reacts to the session file changing under us:
// another process logged in or out.
func (m Model) handleSessionReloaded(msg SessionReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Session == nil {
		if m.screen == screenMain {
			m.screen = screenLogin
			m.session = nil
			m.login = newLoginForm()
			cmd := m.notify("Sessão encerrada em outra janela", false)
			return m, cmd
		}
		return m, nil
	}
	if m.screen != screenMain {
		m.installSession(*msg.Session)
		cmd := tea.Batch(
			m.loadSection(m.section),
			m.notify(fmt.Sprintf("Bem-vindo, %s", msg.Session.Nome), false),
		)
		return m, cmd
	}
	m.session = msg.Session
	m.perms = model.PermissionsFor(msg.Session.Role())
	// A role change elsewhere can revoke the active section.
	if !m.perms.Sees(m.section) {
		cmd := m.selectSection(m.perms.VisibleSections[0])
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenLogin:
		return m.handleLoginKey(msg)
	case screenRegister:
		return m.handleRegisterKey(msg)
	default:
		return m.handleMainMsg(msg)
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		telefone, senha := m.login.Values()
		if telefone == "" || senha == "" {
			cmd := m.notify("Informe telefone e senha", true)
			return m, cmd
		}
		return m, loginCmd(m.client, telefone, senha)
	case "ctrl+r":
		m.screen = screenRegister
		m.register = newRegisterForm()
		return m, nil
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenLogin
		return m, nil
	case "enter":
		if problem := m.register.Validate(); problem != "" {
			cmd := m.notify(problem, true)
			return m, cmd
		}
		nome, telefone, senha, cargo := m.register.Values()
		return m, registerCmd(m.client, nome, telefone, senha, cargo)
	}

	var cmd tea.Cmd
	m.register, cmd = m.register.Update(msg)
	return m, cmd
}

// handleMainMsg is the dashboard dispatcher for both keys and API results.
func (m Model) handleMainMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoggedInMsg:
		m.installSession(msg.Session)
		cmd := tea.Batch(
			saveSessionCmd(m.store, msg.Session),
			m.loadSection(m.section),
			m.notify(fmt.Sprintf("Bem-vindo, %s", msg.Session.Nome), false),
		)
		return m, cmd

	case RegisteredMsg:
		m.screen = screenLogin
		m.login = newLoginForm()
		cmd := m.notify("Cadastro realizado. Faça login.", false)
		return m, cmd

	case LoggedOutMsg:
		m.screen = screenLogin
		m.session = nil
		m.login = newLoginForm()
		m.detail.close()
		cmd := m.notify("Sessão encerrada", false)
		return m, cmd

	case TicketsLoadedMsg:
		m.setTickets(msg.Tickets)
		return m, nil

	case DashboardLoadedMsg:
		m.setTickets(msg.Tickets)
		m.summary = msg.Summary
		m.summaryLoaded = true
		return m, nil

	case TicketOpenedMsg:
		if m.detail.display(msg.Ticket, msg.Comments) {
			m.detail.showStatusModal = false
			m.detail.render(m.theme, m.width)
		}
		return m, nil

	case TicketNotFoundMsg:
		m.detail.close()
		cmd := m.notify("Chamado não encontrado", true)
		return m, cmd

	case StatusUpdatedMsg:
		// Read-after-write: re-fetch both the open ticket and the list so
		// every pane shows server truth.
		m.detail.showStatusModal = false
		if m.detail.state == detailUpdating {
			m.detail.state = detailLoading
		}
		var reload tea.Cmd
		if m.session != nil {
			reload = loadTicketsCmd(m.client, *m.session)
		}
		cmd := tea.Batch(
			openTicketCmd(m.client, msg.Ticket.ID),
			reload,
			m.notify("Chamado atualizado", false),
		)
		return m, cmd

	case CommentAddedMsg:
		if m.detail.state != detailClosed && m.detail.ticketID == msg.TicketID {
			m.detail.comments = msg.Comments
			m.detail.showCommentForm = false
			m.detail.commentText.SetValue("")
			m.detail.render(m.theme, m.width)
		}
		cmd := m.notify("Comentário adicionado", false)
		return m, cmd

	case TicketCreatedMsg:
		m.ticketForm = m.ticketForm.Reset()
		cmd := tea.Batch(
			m.selectSection(model.SectionTickets),
			m.notify(fmt.Sprintf("Chamado criado! Protocolo: %s", msg.Ticket.Protocolo), false),
		)
		return m, cmd

	case SectorDataMsg:
		m.admin.setData(msg.Assignments, msg.Technicians)
		return m, nil

	case AssignmentSavedMsg:
		m.admin.setAssignments(msg.Assignments)
		text := msg.Message
		if text == "" {
			text = "Técnico atribuído"
		}
		cmd := m.notify(text, false)
		return m, cmd

	case RequestErrorMsg:
		return m.handleRequestError(msg)

	case tea.KeyMsg:
		return m.handleMainKey(msg)
	}

	return m, nil
}

// handleRequestError rolls back transient states so a failed request never
// strands the UI, then surfaces the server's message.
func (m Model) handleRequestError(msg RequestErrorMsg) (tea.Model, tea.Cmd) {
	debug.Log("request failed: op=%s err=%v", msg.Op, msg.Err)

	switch msg.Op {
	case "openTicket":
		m.detail.close()
	case "updateStatus":
		// Modal stays open with the user's values for another try.
		if m.detail.state == detailUpdating {
			m.detail.state = detailDisplayed
		}
	case "addComment", "comments":
		// Comment form keeps its input.
	}
	cmd := m.notify(errorText(msg.Err), true)
	return m, cmd
}

func (m Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals grab all keys first.
	if m.detail.showStatusModal {
		detail, cmd, submit := m.detail.updateStatusModal(msg)
		m.detail = detail
		if submit && m.detail.state == detailDisplayed {
			m.detail.state = detailUpdating
			m.detail.render(m.theme, m.width)
			return m, updateStatusCmd(m.client, m.detail.ticketID, m.detail.statusToken(), strings.TrimSpace(m.detail.tecnicoInput.Value()))
		}
		return m, cmd
	}
	if m.detail.showCommentForm {
		detail, cmd, submit := m.detail.updateCommentForm(msg)
		m.detail = detail
		if submit {
			autor, texto := m.detail.commentValues()
			if texto == "" {
				// Validation failure is local: no request leaves the client.
				cmd := m.notify("Escreva um comentário", true)
				return m, cmd
			}
			if autor == "" && m.session != nil {
				autor = m.session.Nome
			}
			return m, addCommentCmd(m.client, m.detail.ticketID, autor, texto)
		}
		return m, cmd
	}

	if m.detail.state != detailClosed {
		return m.handleDetailKey(msg)
	}

	// Let the list's filter swallow everything while it is being typed.
	if m.section == model.SectionTickets && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		if m.section != model.SectionNewTicket {
			return m, tea.Quit
		}
	case "ctrl+l":
		return m, clearSessionCmd(m.store)
	case "r":
		if m.section != model.SectionNewTicket {
			return m, m.loadSection(m.section)
		}
	case "1", "2", "3", "4":
		if m.section != model.SectionNewTicket {
			idx, _ := strconv.Atoi(msg.String())
			if idx >= 1 && idx <= len(m.perms.VisibleSections) {
				cmd := m.selectSection(m.perms.VisibleSections[idx-1])
				return m, cmd
			}
		}
	}

	switch m.section {
	case model.SectionTickets:
		if msg.String() == "enter" {
			if item, ok := m.list.SelectedItem().(TicketItem); ok {
				m.detail.open(item.Ticket.ID)
				m.detail.render(m.theme, m.width)
				return m, openTicketCmd(m.client, item.Ticket.ID)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd

	case model.SectionNewTicket:
		switch msg.String() {
		case "esc":
			cmd := m.selectSection(model.SectionTickets)
			return m, cmd
		case "ctrl+s":
			if problem := m.ticketForm.Validate(); problem != "" {
				cmd := m.notify(problem, true)
				return m, cmd
			}
			if m.session == nil {
				return m, nil
			}
			return m, createTicketCmd(m.client, m.ticketForm.Draft(*m.session))
		}
		var cmd tea.Cmd
		m.ticketForm, cmd = m.ticketForm.Update(msg)
		return m, cmd

	case model.SectionAdminSetores:
		admin, submit := m.admin.Update(msg)
		m.admin = admin
		if submit {
			if setor, tecnico, ok := m.admin.selection(); ok {
				return m, saveAssignmentCmd(m.client, setor, tecnico)
			}
			cmd := m.notify("Nenhum técnico cadastrado", true)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.detail.close()
		return m, nil
	case "y":
		if m.detail.state == detailDisplayed || m.detail.state == detailUpdating {
			if err := clipboard.WriteAll(m.detail.reference()); err != nil {
				cmd := m.notify("Não foi possível copiar", true)
				return m, cmd
			}
			cmd := m.notify("Referência copiada", false)
			return m, cmd
		}
		return m, nil
	case "s":
		if m.perms.CanAssign && m.detail.state == detailDisplayed {
			m.detail.openStatusModal()
			return m, nil
		}
		return m, nil
	case "c":
		if m.detail.state == detailDisplayed {
			author := m.commentAuthor
			if author == "" && m.session != nil {
				author = m.session.Nome
			}
			cmd := m.detail.openCommentForm(author)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Carregando…"
	}

	switch m.screen {
	case screenLogin:
		return m.centered(m.login.View(m.theme, m.width)) + m.footer()
	case screenRegister:
		return m.centered(m.register.View(m.theme, m.width)) + m.footer()
	}

	var sb strings.Builder
	sb.WriteString(m.header())
	sb.WriteString("\n")
	sb.WriteString(m.navBar())
	sb.WriteString("\n\n")

	switch {
	case m.detail.showStatusModal:
		sb.WriteString(m.detail.viewStatusModal(m.theme))
	case m.detail.showCommentForm:
		sb.WriteString(m.detail.viewCommentForm(m.theme))
	case m.detail.state != detailClosed:
		sb.WriteString(m.detail.viewport.View())
	default:
		sb.WriteString(m.sectionView())
	}

	sb.WriteString("\n")
	sb.WriteString(m.footer())
	return sb.String()
}

func (m Model) centered(content string) string {
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) header() string {
	title := m.theme.Header.Render(" HelpCab ")

	user := ""
	if m.session != nil {
		user = m.theme.SecondaryText.Render(fmt.Sprintf("%s (%s)", m.session.Nome, m.session.Cargo))
	}

	working := ""
	if m.gauge != nil && m.gauge.Active() {
		working = " " + m.spin.View()
	}

	left := title + working
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(user) - 1
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + user
}

// sectionLabels maps sections to their nav captions.
var sectionLabels = map[model.Section]string{
	model.SectionDashboard:    "Painel",
	model.SectionTickets:      "Chamados",
	model.SectionNewTicket:    "Novo chamado",
	model.SectionAdminSetores: "Setores",
}

func (m Model) navBar() string {
	var parts []string
	for i, s := range m.perms.VisibleSections {
		label := fmt.Sprintf("%d %s", i+1, sectionLabels[s])
		if s == m.section {
			parts = append(parts, m.theme.PrimaryBold.Render(label))
		} else {
			parts = append(parts, m.theme.MutedText.Render(label))
		}
	}
	return " " + strings.Join(parts, m.theme.MutedText.Render("  │  "))
}

func (m Model) sectionView() string {
	switch m.section {
	case model.SectionDashboard:
		return m.dashboardView()
	case model.SectionTickets:
		if len(m.list.Items()) == 0 && m.list.FilterState() == list.Unfiltered {
			return "\n  " + m.theme.MutedText.Render(emptyListPlaceholder)
		}
		return m.list.View()
	case model.SectionNewTicket:
		return m.ticketForm.View(m.theme, m.width-4)
	case model.SectionAdminSetores:
		return m.admin.View(m.theme, m.width-4)
	}
	return ""
}

func (m Model) dashboardView() string {
	if !m.summaryLoaded {
		return "  " + m.theme.MutedText.Render("Carregando painel…")
	}

	s := m.summary
	var sb strings.Builder
	sb.WriteString("  " + m.theme.PrimaryBold.Render(fmt.Sprintf("%d chamados", s.Total)))
	sb.WriteString(m.theme.MutedText.Render(fmt.Sprintf("  •  %d em aberto  •  %d sem técnico", s.Open(), s.Unassigned)))
	sb.WriteString("\n\n")

	for _, status := range []model.Status{model.StatusOpen, model.StatusInProgress, model.StatusResolved, model.StatusClosed} {
		countStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.GetStatusColor(status)).Bold(true)
		sb.WriteString("  ")
		sb.WriteString(RenderStatusBadge(status))
		sb.WriteString(" " + countStyle.Render(strconv.Itoa(s.ByStatus[status])))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for _, prio := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		sb.WriteString("  ")
		sb.WriteString(RenderPriorityBadge(prio))
		sb.WriteString(fmt.Sprintf(" %d\n", s.ByPriority[prio]))
	}

	if s.Open() > 0 {
		sb.WriteString("\n")
		sb.WriteString("  " + m.theme.SecondaryText.Render(
			fmt.Sprintf("Idade dos abertos: média %.1fd, mediana %.1fd", s.MeanOpenAgeDays, s.MedianOpenAgeDays)))
		sb.WriteString("\n")
	}
	// The dashboard is read-only, so it gets the unfocused panel frame.
	return PanelStyle.Padding(0, 1).Render(sb.String())
}

func (m Model) footer() string {
	if m.statusMsg != "" {
		style := m.theme.SuccessText
		if m.statusIsError {
			style = m.theme.ErrorText
		}
		return "\n " + style.Render(m.statusMsg)
	}

	var hint string
	switch m.screen {
	case screenLogin, screenRegister:
		return "\n"
	default:
		switch {
		case m.detail.showStatusModal, m.detail.showCommentForm:
			hint = ""
		case m.detail.state != detailClosed:
			hint = "esc fechar • y copiar • c comentar"
			if m.perms.CanAssign {
				hint += " • s status"
			}
		case m.section == model.SectionTickets:
			hint = "enter abrir • / filtrar • r recarregar • 1-4 seção • ctrl+l sair"
		case m.section == model.SectionNewTicket:
			hint = "ctrl+s enviar • esc voltar"
		default:
			hint = "r recarregar • 1-4 seção • ctrl+l sair • q sair do app"
		}
	}
	return "\n " + m.theme.MutedText.Render(hint)
}
