package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// cargoChoices are the roles offered by the registration form, raw as the
// server stores them.
var cargoChoices = []string{"solicitante", "tecnico", "desenvolvedor", "admin"}

// loginForm is the phone + password screen shown before any session exists.
type loginForm struct {
	telefone textinput.Model
	senha    textinput.Model
	focusIdx int
}

func newLoginForm() loginForm {
	telefone := textinput.New()
	telefone.Placeholder = "11999999999"
	telefone.Prompt = "Telefone: "
	telefone.CharLimit = 20
	telefone.Focus()

	senha := textinput.New()
	senha.Placeholder = "senha"
	senha.Prompt = "Senha:    "
	senha.EchoMode = textinput.EchoPassword
	senha.EchoCharacter = '•'

	return loginForm{telefone: telefone, senha: senha}
}

func (f *loginForm) fields() []*textinput.Model {
	return []*textinput.Model{&f.telefone, &f.senha}
}

func (f loginForm) Update(msg tea.Msg) (loginForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "shift+tab", "up":
			fields := f.fields()
			if key.String() == "tab" || key.String() == "down" {
				f.focusIdx = (f.focusIdx + 1) % len(fields)
			} else {
				f.focusIdx = (f.focusIdx + len(fields) - 1) % len(fields)
			}
			var cmds []tea.Cmd
			for i, field := range fields {
				if i == f.focusIdx {
					cmds = append(cmds, field.Focus())
				} else {
					field.Blur()
				}
			}
			return f, tea.Batch(cmds...)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	f.telefone, cmd = f.telefone.Update(msg)
	cmds = append(cmds, cmd)
	f.senha, cmd = f.senha.Update(msg)
	cmds = append(cmds, cmd)
	return f, tea.Batch(cmds...)
}

// Values returns the trimmed credentials.
func (f loginForm) Values() (telefone, senha string) {
	return strings.TrimSpace(f.telefone.Value()), f.senha.Value()
}

func (f loginForm) View(t Theme, width int) string {
	var sb strings.Builder
	sb.WriteString(t.Header.Render("HelpCab — Login"))
	sb.WriteString("\n\n")
	sb.WriteString(f.telefone.View())
	sb.WriteString("\n")
	sb.WriteString(f.senha.View())
	sb.WriteString("\n\n")
	sb.WriteString(t.MutedText.Render("enter entrar • ctrl+r criar conta • ctrl+c sair"))

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2).
		Render(sb.String())
	return box
}

// registerForm collects the fields for a new account.
type registerForm struct {
	nome     textinput.Model
	telefone textinput.Model
	senha    textinput.Model
	cargoIdx int
	focusIdx int
}

const registerFieldCount = 4 // nome, telefone, senha, cargo

func newRegisterForm() registerForm {
	nome := textinput.New()
	nome.Placeholder = "Nome completo"
	nome.Prompt = "Nome:     "
	nome.CharLimit = 80
	nome.Focus()

	telefone := textinput.New()
	telefone.Placeholder = "11999999999"
	telefone.Prompt = "Telefone: "
	telefone.CharLimit = 20

	senha := textinput.New()
	senha.Placeholder = "senha"
	senha.Prompt = "Senha:    "
	senha.EchoMode = textinput.EchoPassword
	senha.EchoCharacter = '•'

	return registerForm{nome: nome, telefone: telefone, senha: senha}
}

func (f *registerForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.nome, &f.telefone, &f.senha}
}

func (f registerForm) Update(msg tea.Msg) (registerForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "shift+tab", "up":
			if key.String() == "tab" || key.String() == "down" {
				f.focusIdx = (f.focusIdx + 1) % registerFieldCount
			} else {
				f.focusIdx = (f.focusIdx + registerFieldCount - 1) % registerFieldCount
			}
			var cmds []tea.Cmd
			for i, input := range f.inputs() {
				if i == f.focusIdx {
					cmds = append(cmds, input.Focus())
				} else {
					input.Blur()
				}
			}
			return f, tea.Batch(cmds...)
		case "left", "h":
			if f.focusIdx == 3 {
				f.cargoIdx = (f.cargoIdx + len(cargoChoices) - 1) % len(cargoChoices)
				return f, nil
			}
		case "right", "l":
			if f.focusIdx == 3 {
				f.cargoIdx = (f.cargoIdx + 1) % len(cargoChoices)
				return f, nil
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	f.nome, cmd = f.nome.Update(msg)
	cmds = append(cmds, cmd)
	f.telefone, cmd = f.telefone.Update(msg)
	cmds = append(cmds, cmd)
	f.senha, cmd = f.senha.Update(msg)
	cmds = append(cmds, cmd)
	return f, tea.Batch(cmds...)
}

// Values returns the trimmed registration fields.
func (f registerForm) Values() (nome, telefone, senha, cargo string) {
	return strings.TrimSpace(f.nome.Value()),
		strings.TrimSpace(f.telefone.Value()),
		f.senha.Value(),
		cargoChoices[f.cargoIdx]
}

// Validate returns the first missing required field, or "".
func (f registerForm) Validate() string {
	nome, telefone, senha, _ := f.Values()
	switch {
	case nome == "":
		return "Informe o nome"
	case telefone == "":
		return "Informe o telefone"
	case senha == "":
		return "Informe a senha"
	}
	return ""
}

func (f registerForm) View(t Theme, width int) string {
	cargo := renderSelect(t, cargoChoices, f.cargoIdx, f.focusIdx == 3)

	var sb strings.Builder
	sb.WriteString(t.Header.Render("HelpCab — Nova conta"))
	sb.WriteString("\n\n")
	sb.WriteString(f.nome.View())
	sb.WriteString("\n")
	sb.WriteString(f.telefone.View())
	sb.WriteString("\n")
	sb.WriteString(f.senha.View())
	sb.WriteString("\n")
	sb.WriteString("Cargo:    " + cargo)
	sb.WriteString("\n\n")
	sb.WriteString(t.MutedText.Render("enter cadastrar • esc voltar • ←/→ cargo"))

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2).
		Render(sb.String())
}

// renderSelect renders an inline one-of-n choice, highlighting the current
// value when the field has focus.
func renderSelect(t Theme, choices []string, idx int, focused bool) string {
	if len(choices) == 0 {
		return ""
	}
	if idx < 0 || idx >= len(choices) {
		idx = 0
	}

	value := choices[idx]
	style := t.SecondaryText
	if focused {
		style = t.PrimaryBold
	}
	return style.Render("‹ " + value + " ›")
}
