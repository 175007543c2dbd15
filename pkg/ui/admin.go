package ui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// adminPanel is the admin-only sector directory: which technician answers
// for which sector, plus a form to change an assignment.
type adminPanel struct {
	loaded      bool
	assignments []model.SectorAssignment
	technicians []model.User

	setorIdx   int
	tecnicoIdx int
	focusIdx   int // 0 = sector, 1 = technician
}

// setData installs the loaded directory; assignments render sorted by
// sector so the table is stable across reloads.
func (a *adminPanel) setData(assignments []model.SectorAssignment, technicians []model.User) {
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Setor < assignments[j].Setor
	})
	a.loaded = true
	a.assignments = assignments
	a.technicians = technicians
	if a.setorIdx >= len(model.SectorOptions()) {
		a.setorIdx = 0
	}
	if a.tecnicoIdx >= len(technicians) {
		a.tecnicoIdx = 0
	}
}

// setAssignments refreshes the directory only, keeping form state.
func (a *adminPanel) setAssignments(assignments []model.SectorAssignment) {
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Setor < assignments[j].Setor
	})
	a.assignments = assignments
}

// technicianNames returns the selectable technician names.
func (a adminPanel) technicianNames() []string {
	names := make([]string, 0, len(a.technicians))
	for _, u := range a.technicians {
		names = append(names, u.Nome)
	}
	return names
}

// selection returns the sector/technician pair currently chosen in the
// form, or ok=false when there is no technician to choose.
func (a adminPanel) selection() (setor, tecnico string, ok bool) {
	names := a.technicianNames()
	if len(names) == 0 {
		return "", "", false
	}
	return model.SectorOptions()[a.setorIdx], names[a.tecnicoIdx], true
}

// Update handles keys for the admin section. It returns submit=true when
// the user confirmed an assignment.
func (a adminPanel) Update(msg tea.Msg) (adminPanel, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, false
	}

	switch key.String() {
	case "tab", "shift+tab", "up", "down":
		a.focusIdx = 1 - a.focusIdx
	case "left", "h":
		a.cycle(-1)
	case "right", "l":
		a.cycle(1)
	case "enter":
		return a, true
	}
	return a, false
}

func (a *adminPanel) cycle(delta int) {
	if a.focusIdx == 0 {
		a.setorIdx = mod(a.setorIdx+delta, len(model.SectorOptions()))
		return
	}
	if n := len(a.technicians); n > 0 {
		a.tecnicoIdx = mod(a.tecnicoIdx+delta, n)
	}
}

func (a adminPanel) View(t Theme, width int) string {
	if !a.loaded {
		return t.MutedText.Render("Carregando setores…")
	}

	var sb strings.Builder
	sb.WriteString(t.PrimaryBold.Render("Técnicos por setor"))
	sb.WriteString("\n\n")

	if len(a.assignments) == 0 {
		sb.WriteString(t.MutedText.Render("Nenhum setor atribuído."))
		sb.WriteString("\n")
	}
	for _, assignment := range a.assignments {
		sb.WriteString(padRight(assignment.Setor, 16))
		if assignment.Tecnico == "" {
			sb.WriteString(t.MutedText.Render(unassignedLabel))
		} else {
			sb.WriteString(assignment.Tecnico)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(RenderDivider(minInt(width-6, 60)))
	sb.WriteString("\n")
	sb.WriteString(t.PrimaryBold.Render("Atribuir técnico"))
	sb.WriteString("\n\n")

	sb.WriteString("Setor:   ")
	sb.WriteString(renderSelect(t, model.SectorOptions(), a.setorIdx, a.focusIdx == 0))
	sb.WriteString("\n")

	sb.WriteString("Técnico: ")
	names := a.technicianNames()
	if len(names) == 0 {
		sb.WriteString(t.MutedText.Render("nenhum técnico cadastrado"))
	} else {
		sb.WriteString(renderSelect(t, names, a.tecnicoIdx, a.focusIdx == 1))
	}
	sb.WriteString("\n\n")
	sb.WriteString(t.MutedText.Render("enter atribuir • tab campo • ←/→ opções"))

	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2).
		Render(sb.String())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
