package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/helpcab/pkg/api"
	"github.com/vanderheijden86/helpcab/pkg/model"
)

// categoryChoices are the problem categories offered by the new-ticket form.
var categoryChoices = []string{"Hardware", "Software", "Rede", "Impressora", "Acesso", "Outro"}

// ticketForm field indexes, in tab order. The detail field only takes part
// when the selected sector calls for one.
const (
	fieldTitulo = iota
	fieldCategoria
	fieldPrioridade
	fieldDepartamento
	fieldSetor
	fieldDetalhe
	fieldDescricao
	ticketFieldCount
)

// ticketForm is the new-ticket section. Requester name and phone come from
// the session, everything else is collected here.
type ticketForm struct {
	titulo       textinput.Model
	categoriaIdx int
	priorityIdx  int
	departamento textinput.Model
	setorIdx     int
	detalheText  textinput.Model // free text detail (salas)
	detalheIdx   int             // select detail (coordenacao)
	descricao    textarea.Model

	focusIdx int
}

func newTicketForm() ticketForm {
	titulo := textinput.New()
	titulo.Placeholder = "Resumo do problema"
	titulo.CharLimit = 120
	titulo.Focus()

	departamento := textinput.New()
	departamento.Placeholder = "Departamento"
	departamento.CharLimit = 80

	detalhe := textinput.New()
	detalhe.Placeholder = "Número da sala"
	detalhe.CharLimit = 40

	descricao := textarea.New()
	descricao.Placeholder = "Descreva o problema (markdown é aceito)"
	descricao.SetHeight(5)
	descricao.CharLimit = 4000

	// Default priority is Media, matching the middle of the option list.
	return ticketForm{
		titulo:       titulo,
		priorityIdx:  1,
		departamento: departamento,
		detalheText:  detalhe,
		descricao:    descricao,
	}
}

// Setor returns the currently selected sector.
func (f ticketForm) Setor() string {
	return model.SectorOptions()[f.setorIdx]
}

// detailKind returns the detail field kind for the selected sector.
func (f ticketForm) detailKind() model.SectorDetail {
	return model.SectorDetailKind(f.Setor())
}

// isSelect reports whether the given field is a one-of-n choice rather than
// a text input.
func (f ticketForm) isSelect(idx int) bool {
	switch idx {
	case fieldCategoria, fieldPrioridade, fieldSetor:
		return true
	case fieldDetalhe:
		return f.detailKind() == model.SectorDetailSelect
	}
	return false
}

// nextField advances focus, skipping the detail field when the selected
// sector has none.
func (f ticketForm) nextField(delta int) int {
	idx := f.focusIdx
	for {
		idx = (idx + delta + ticketFieldCount) % ticketFieldCount
		if idx == fieldDetalhe && f.detailKind() == model.SectorDetailNone {
			continue
		}
		return idx
	}
}

func (f *ticketForm) syncFocus() tea.Cmd {
	f.titulo.Blur()
	f.departamento.Blur()
	f.detalheText.Blur()
	f.descricao.Blur()

	switch f.focusIdx {
	case fieldTitulo:
		return f.titulo.Focus()
	case fieldDepartamento:
		return f.departamento.Focus()
	case fieldDetalhe:
		if f.detailKind() == model.SectorDetailText {
			return f.detalheText.Focus()
		}
	case fieldDescricao:
		return f.descricao.Focus()
	}
	return nil
}

func (f ticketForm) Update(msg tea.Msg) (ticketForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab":
			if key.String() == "tab" {
				f.focusIdx = f.nextField(1)
			} else {
				f.focusIdx = f.nextField(-1)
			}
			cmd := f.syncFocus()
			return f, cmd
		case "up", "down":
			// The textarea consumes arrow keys for cursor movement.
			if f.focusIdx != fieldDescricao {
				if key.String() == "down" {
					f.focusIdx = f.nextField(1)
				} else {
					f.focusIdx = f.nextField(-1)
				}
				cmd := f.syncFocus()
				return f, cmd
			}
		case "left", "right":
			if f.isSelect(f.focusIdx) {
				delta := 1
				if key.String() == "left" {
					delta = -1
				}
				f.cycleSelect(delta)
				return f, nil
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	f.titulo, cmd = f.titulo.Update(msg)
	cmds = append(cmds, cmd)
	f.departamento, cmd = f.departamento.Update(msg)
	cmds = append(cmds, cmd)
	f.detalheText, cmd = f.detalheText.Update(msg)
	cmds = append(cmds, cmd)
	f.descricao, cmd = f.descricao.Update(msg)
	cmds = append(cmds, cmd)
	return f, tea.Batch(cmds...)
}

func (f *ticketForm) cycleSelect(delta int) {
	switch f.focusIdx {
	case fieldCategoria:
		f.categoriaIdx = mod(f.categoriaIdx+delta, len(categoryChoices))
	case fieldPrioridade:
		f.priorityIdx = mod(f.priorityIdx+delta, len(model.PriorityOptions()))
	case fieldSetor:
		f.setorIdx = mod(f.setorIdx+delta, len(model.SectorOptions()))
		// A sector switch can invalidate the previous detail value.
		f.detalheText.SetValue("")
		f.detalheIdx = 0
	case fieldDetalhe:
		f.detalheIdx = mod(f.detalheIdx+delta, len(model.CoordenacaoOptions()))
	}
}

func mod(n, m int) int {
	return ((n % m) + m) % m
}

// Detalhe returns the sector detail value for the selected sector, empty
// when the sector takes none.
func (f ticketForm) Detalhe() string {
	switch f.detailKind() {
	case model.SectorDetailText:
		return strings.TrimSpace(f.detalheText.Value())
	case model.SectorDetailSelect:
		return model.CoordenacaoOptions()[f.detalheIdx]
	}
	return ""
}

// Validate returns the first validation problem, or "".
func (f ticketForm) Validate() string {
	switch {
	case strings.TrimSpace(f.titulo.Value()) == "":
		return "Informe o título"
	case strings.TrimSpace(f.departamento.Value()) == "":
		return "Informe o departamento"
	case f.detailKind() == model.SectorDetailText && f.Detalhe() == "":
		return "Informe o número da sala"
	case strings.TrimSpace(f.descricao.Value()) == "":
		return "Descreva o problema"
	}
	return ""
}

// Draft assembles the create request for the given session user.
func (f ticketForm) Draft(sess model.Session) api.TicketDraft {
	return api.TicketDraft{
		Titulo:       strings.TrimSpace(f.titulo.Value()),
		Categoria:    categoryChoices[f.categoriaIdx],
		Prioridade:   model.PriorityOptions()[f.priorityIdx],
		Departamento: strings.TrimSpace(f.departamento.Value()),
		Setor:        f.Setor(),
		DetalheSetor: f.Detalhe(),
		Descricao:    strings.TrimSpace(f.descricao.Value()),
		Solicitante:  sess.Nome,
		Telefone:     sess.Telefone,
	}
}

// Reset returns a pristine form, used after a successful submit.
func (f ticketForm) Reset() ticketForm {
	return newTicketForm()
}

func (f ticketForm) View(t Theme, width int) string {
	label := func(idx int, text string) string {
		if idx == f.focusIdx {
			return t.PrimaryBold.Render(text)
		}
		return t.SecondaryText.Render(text)
	}

	var sb strings.Builder
	sb.WriteString(label(fieldTitulo, "Título"))
	sb.WriteString("\n")
	sb.WriteString(f.titulo.View())
	sb.WriteString("\n\n")

	sb.WriteString(label(fieldCategoria, "Categoria") + "  ")
	sb.WriteString(renderSelect(t, categoryChoices, f.categoriaIdx, f.focusIdx == fieldCategoria))
	sb.WriteString("\n")

	sb.WriteString(label(fieldPrioridade, "Prioridade") + " ")
	sb.WriteString(renderSelect(t, model.PriorityOptions(), f.priorityIdx, f.focusIdx == fieldPrioridade))
	sb.WriteString("\n\n")

	sb.WriteString(label(fieldDepartamento, "Departamento"))
	sb.WriteString("\n")
	sb.WriteString(f.departamento.View())
	sb.WriteString("\n\n")

	sb.WriteString(label(fieldSetor, "Setor") + "      ")
	sb.WriteString(renderSelect(t, model.SectorOptions(), f.setorIdx, f.focusIdx == fieldSetor))
	sb.WriteString("\n")

	switch f.detailKind() {
	case model.SectorDetailText:
		sb.WriteString(label(fieldDetalhe, "Sala"))
		sb.WriteString("\n")
		sb.WriteString(f.detalheText.View())
		sb.WriteString("\n")
	case model.SectorDetailSelect:
		sb.WriteString(label(fieldDetalhe, "Coordenação") + " ")
		sb.WriteString(renderSelect(t, model.CoordenacaoOptions(), f.detalheIdx, f.focusIdx == fieldDetalhe))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(label(fieldDescricao, "Descrição"))
	sb.WriteString("\n")
	sb.WriteString(f.descricao.View())
	sb.WriteString("\n\n")
	sb.WriteString(t.MutedText.Render("ctrl+s enviar • tab próximo campo • ←/→ opções"))

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2).
		MaxWidth(maxInt(width, 40)).
		Render(sb.String())
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
