package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// detailState tracks the detail panel lifecycle. Loading and Updating are
// distinct so a slow re-fetch after a patch cannot be mistaken for a fresh
// open.
type detailState int

const (
	detailClosed detailState = iota
	detailLoading
	detailDisplayed
	detailUpdating
)

// unassignedLabel is shown when a ticket has no responsible technician.
const unassignedLabel = "Não atribuído"

// detailPanel holds everything for one open ticket: the record, its comment
// thread, the status modal and the comment form.
type detailPanel struct {
	state    detailState
	ticketID int
	ticket   model.Ticket
	comments []model.Comment

	viewport viewport.Model

	// status modal
	showStatusModal bool
	statusIdx       int
	tecnicoInput    textinput.Model
	modalFocusIdx   int // 0 = status select, 1 = technician input

	// comment form
	showCommentForm bool
	commentAuthor   textinput.Model
	commentText     textarea.Model
	commentFocusIdx int // 0 = author, 1 = text
}

func newDetailPanel() detailPanel {
	tecnico := textinput.New()
	tecnico.Placeholder = "Nome do técnico"
	tecnico.CharLimit = 80

	author := textinput.New()
	author.Placeholder = "Seu nome"
	author.CharLimit = 80

	text := textarea.New()
	text.Placeholder = "Comentário"
	text.SetHeight(3)
	text.CharLimit = 2000

	return detailPanel{
		tecnicoInput:  tecnico,
		commentAuthor: author,
		commentText:   text,
	}
}

// open starts loading a ticket. Last open wins: any previously displayed
// ticket is discarded.
func (d *detailPanel) open(id int) {
	d.state = detailLoading
	d.ticketID = id
	d.ticket = model.Ticket{}
	d.comments = nil
	d.showStatusModal = false
	d.showCommentForm = false
}

// display installs a loaded ticket. Stale loads for a different id are
// dropped since another open superseded them.
func (d *detailPanel) display(ticket model.Ticket, comments []model.Comment) bool {
	if d.state == detailClosed || ticket.ID != d.ticketID {
		return false
	}
	d.state = detailDisplayed
	d.ticket = ticket
	d.comments = comments
	return true
}

func (d *detailPanel) close() {
	d.state = detailClosed
	d.showStatusModal = false
	d.showCommentForm = false
	d.commentText.SetValue("")
}

// openStatusModal preselects the ticket's current status and technician.
func (d *detailPanel) openStatusModal() {
	d.showStatusModal = true
	d.modalFocusIdx = 0
	d.statusIdx = 0
	for i, token := range model.StatusOptions() {
		if model.NormalizeStatus(token) == d.ticket.Status {
			d.statusIdx = i
			break
		}
	}
	d.tecnicoInput.SetValue(d.ticket.TecnicoResponsavel)
	d.tecnicoInput.Blur()
}

// statusToken returns the raw form token currently selected in the modal.
func (d detailPanel) statusToken() string {
	return model.StatusOptions()[d.statusIdx]
}

// openCommentForm prefills the author with the session user's name.
func (d *detailPanel) openCommentForm(author string) tea.Cmd {
	d.showCommentForm = true
	d.commentFocusIdx = 1
	if strings.TrimSpace(d.commentAuthor.Value()) == "" {
		d.commentAuthor.SetValue(author)
	}
	d.commentAuthor.Blur()
	return d.commentText.Focus()
}

// updateStatusModal handles keys while the status modal is open. It returns
// submit=true when the user confirmed.
func (d detailPanel) updateStatusModal(msg tea.Msg) (detailPanel, tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		d.tecnicoInput, cmd = d.tecnicoInput.Update(msg)
		return d, cmd, false
	}

	switch key.String() {
	case "esc":
		d.showStatusModal = false
		return d, nil, false
	case "enter":
		return d, nil, true
	case "tab", "shift+tab", "up", "down":
		d.modalFocusIdx = 1 - d.modalFocusIdx
		if d.modalFocusIdx == 1 {
			cmd := d.tecnicoInput.Focus()
			return d, cmd, false
		}
		d.tecnicoInput.Blur()
		return d, nil, false
	case "left", "h":
		if d.modalFocusIdx == 0 {
			d.statusIdx = mod(d.statusIdx-1, len(model.StatusOptions()))
			return d, nil, false
		}
	case "right", "l":
		if d.modalFocusIdx == 0 {
			d.statusIdx = mod(d.statusIdx+1, len(model.StatusOptions()))
			return d, nil, false
		}
	}

	var cmd tea.Cmd
	d.tecnicoInput, cmd = d.tecnicoInput.Update(msg)
	return d, cmd, false
}

// updateCommentForm handles keys while the comment form is open. It returns
// submit=true when the user confirmed.
func (d detailPanel) updateCommentForm(msg tea.Msg) (detailPanel, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			d.showCommentForm = false
			return d, nil, false
		case "ctrl+s":
			return d, nil, true
		case "tab", "shift+tab":
			d.commentFocusIdx = 1 - d.commentFocusIdx
			if d.commentFocusIdx == 0 {
				d.commentText.Blur()
				cmd := d.commentAuthor.Focus()
				return d, cmd, false
			}
			d.commentAuthor.Blur()
			cmd := d.commentText.Focus()
			return d, cmd, false
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	d.commentAuthor, cmd = d.commentAuthor.Update(msg)
	cmds = append(cmds, cmd)
	d.commentText, cmd = d.commentText.Update(msg)
	cmds = append(cmds, cmd)
	return d, tea.Batch(cmds...), false
}

// commentValues returns the trimmed author and text.
func (d detailPanel) commentValues() (autor, texto string) {
	return strings.TrimSpace(d.commentAuthor.Value()), strings.TrimSpace(d.commentText.Value())
}

// reference returns the clipboard text for the open ticket.
func (d detailPanel) reference() string {
	if d.ticket.Protocolo != "" {
		return fmt.Sprintf("#%d (%s) %s", d.ticket.ID, d.ticket.Protocolo, d.ticket.Titulo)
	}
	return fmt.Sprintf("#%d %s", d.ticket.ID, d.ticket.Titulo)
}

func (d *detailPanel) setSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 5 {
		height = 5
	}
	d.viewport = viewport.New(width, height)
	d.tecnicoInput.Width = width - 20
	d.commentAuthor.Width = width - 20
	d.commentText.SetWidth(width - 8)
}

// render builds the panel content and hands it to the viewport.
func (d *detailPanel) render(t Theme, width int) {
	switch d.state {
	case detailClosed:
		return
	case detailLoading:
		d.viewport.SetContent(t.MutedText.Render("Carregando chamado…"))
		return
	}

	ticket := d.ticket
	var sb strings.Builder

	sb.WriteString(t.PrimaryBold.Render(fmt.Sprintf("#%d %s", ticket.ID, ticket.Titulo)))
	sb.WriteString("\n")
	if ticket.Protocolo != "" {
		sb.WriteString(t.SecondaryText.Render("Protocolo: " + ticket.Protocolo))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(RenderStatusBadge(ticket.Status))
	sb.WriteString(" ")
	sb.WriteString(RenderPriorityBadge(ticket.Prioridade))
	if d.state == detailUpdating {
		sb.WriteString(" " + t.MutedText.Render("atualizando…"))
	}
	sb.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(t.SecondaryText.Render(padRight(label+":", 14)))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("Categoria", ticket.Categoria)
	row("Departamento", ticket.Departamento)
	sector := ticket.Setor
	if ticket.DetalheSetor != "" {
		sector = fmt.Sprintf("%s (%s)", ticket.Setor, ticket.DetalheSetor)
	}
	row("Setor", sector)
	row("Solicitante", ticket.Solicitante)
	row("Telefone", ticket.Telefone)

	tecnico := ticket.TecnicoResponsavel
	if !ticket.Assigned() {
		tecnico = t.MutedText.Render(unassignedLabel)
	}
	row("Técnico", tecnico)
	row("Aberto em", FormatTimeAbs(ticket.DataAbertura))
	if !ticket.DataAtualizacao.IsZero() {
		row("Atualizado", FormatTimeAbs(ticket.DataAtualizacao))
	}

	if desc := renderMarkdown(ticket.Descricao, width-6); desc != "" {
		sb.WriteString("\n")
		sb.WriteString(RenderDivider(width - 6))
		sb.WriteString("\n")
		sb.WriteString(desc)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(RenderDivider(width - 6))
	sb.WriteString("\n")
	sb.WriteString(t.PrimaryBold.Render(fmt.Sprintf("Comentários (%d)", len(d.comments))))
	sb.WriteString("\n")
	if len(d.comments) == 0 {
		sb.WriteString(t.MutedText.Render("Nenhum comentário."))
		sb.WriteString("\n")
	}
	for _, c := range d.comments {
		sb.WriteString("\n")
		sb.WriteString(t.InfoText.Render(c.Autor))
		sb.WriteString(" ")
		sb.WriteString(t.MutedText.Render(FormatTimeRel(c.Data)))
		sb.WriteString("\n")
		sb.WriteString(c.Texto)
		sb.WriteString("\n")
	}

	d.viewport.SetContent(sb.String())
}

// viewStatusModal renders the status modal box.
func (d detailPanel) viewStatusModal(t Theme) string {
	var options []string
	for i, token := range model.StatusOptions() {
		label := string(model.NormalizeStatus(token))
		if i == d.statusIdx {
			options = append(options, t.PrimaryBold.Render("["+label+"]"))
		} else {
			options = append(options, t.MutedText.Render(" "+label+" "))
		}
	}

	var sb strings.Builder
	sb.WriteString(t.Header.Render("Atualizar chamado"))
	sb.WriteString("\n\n")
	sb.WriteString("Status:  " + strings.Join(options, " "))
	sb.WriteString("\n")
	sb.WriteString("Técnico: " + d.tecnicoInput.View())
	sb.WriteString("\n\n")
	sb.WriteString(t.MutedText.Render("enter salvar • esc cancelar • tab campo • ←/→ status"))

	return FocusedPanelStyle.Padding(1, 2).Render(sb.String())
}

// viewCommentForm renders the comment form box.
func (d detailPanel) viewCommentForm(t Theme) string {
	var sb strings.Builder
	sb.WriteString(t.Header.Render("Novo comentário"))
	sb.WriteString("\n\n")
	sb.WriteString("Autor: " + d.commentAuthor.View())
	sb.WriteString("\n")
	sb.WriteString(d.commentText.View())
	sb.WriteString("\n\n")
	sb.WriteString(t.MutedText.Render("ctrl+s enviar • esc cancelar • tab campo"))

	return FocusedPanelStyle.Padding(1, 2).Render(sb.String())
}
