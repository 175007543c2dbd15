package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TicketDelegate renders ticket items in the list
type TicketDelegate struct {
	Theme Theme
}

func (d TicketDelegate) Height() int {
	return 1
}

func (d TicketDelegate) Spacing() int {
	return 0
}

func (d TicketDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d TicketDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(TicketItem)
	if !ok {
		return
	}

	t := d.Theme
	width := m.Width()
	if width <= 0 {
		width = 80
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge
	width = width - 1

	isSelected := index == m.Index()

	// Layout: [sel] [prio-badge] [status-badge] [#id] [title...] [requester] [age] [comments]
	idStr := fmt.Sprintf("#%-4d", i.Ticket.ID)
	title := i.Ticket.Titulo
	ageStr := FormatTimeRel(i.Ticket.DataAbertura)
	commentCount := len(i.Ticket.Comments)

	// Right-side columns (fixed)
	rightWidth := 0
	var rightParts []string

	// Show age and comments only if we have reasonable width
	if width > 60 {
		rightParts = append(rightParts, t.MutedText.Render(fmt.Sprintf("%8s", ageStr)))
		rightWidth += 9

		if commentCount > 0 {
			commentStr := fmt.Sprintf("💬%d", commentCount)
			rightParts = append(rightParts, t.InfoText.Render(commentStr))
			rightWidth += lipgloss.Width(commentStr) + 1
		} else {
			rightParts = append(rightParts, "   ")
			rightWidth += 3
		}
	}

	// Requester (if we have room)
	if width > 100 && i.Ticket.Solicitante != "" {
		requester := truncateRunesHelper(i.Ticket.Solicitante, 14, "…")
		rightParts = append(rightParts, t.SecondaryText.Render(fmt.Sprintf("@%-14s", requester)))
		rightWidth += 16
	}

	// Department (if we have room)
	if width > 140 && i.Ticket.Departamento != "" {
		dept := truncateRunesHelper(i.Ticket.Departamento, 18, "…")
		deptStyle := t.Renderer.NewStyle().
			Foreground(ThemeFg(ColorPrimary)).
			Background(ThemeBg(ColorBgSubtle)).
			Padding(0, 1)
		rightParts = append(rightParts, deptStyle.Render(dept))
		rightWidth += lipgloss.Width(deptStyle.Render(dept)) + 1
	}

	// Left side fixed columns
	leftFixedWidth := 2 // selector

	prioBadge := RenderPriorityBadge(i.Ticket.Prioridade)
	leftFixedWidth += lipgloss.Width(prioBadge) + 1

	statusBadge := RenderStatusBadge(i.Ticket.Status)
	leftFixedWidth += lipgloss.Width(statusBadge) + 1

	leftFixedWidth += lipgloss.Width(idStr) + 1

	// Title gets everything in between
	titleWidth := width - leftFixedWidth - rightWidth - 2
	if titleWidth < 5 {
		titleWidth = 5
	}

	title = truncateRunesHelper(title, titleWidth, "…")
	if cur := lipgloss.Width(title); cur < titleWidth {
		title = title + strings.Repeat(" ", titleWidth-cur)
	}

	var leftSide strings.Builder

	if isSelected {
		leftSide.WriteString(t.PrimaryBold.Render("▸ "))
	} else {
		leftSide.WriteString("  ")
	}

	leftSide.WriteString(prioBadge)
	leftSide.WriteString(" ")

	leftSide.WriteString(statusBadge)
	leftSide.WriteString(" ")

	idStyle := t.SecondaryText
	if isSelected {
		idStyle = idStyle.Bold(true)
	}
	leftSide.WriteString(idStyle.Render(idStr))
	leftSide.WriteString(" ")

	titleStyle := t.Renderer.NewStyle()
	if isSelected {
		titleStyle = titleStyle.Foreground(t.Primary).Bold(true)
	} else {
		titleStyle = titleStyle.Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E8E8E8"})
	}
	leftSide.WriteString(titleStyle.Render(title))

	rightSide := strings.Join(rightParts, " ")

	// Combine: left + padding + right
	leftLen := lipgloss.Width(leftSide.String())
	rightLen := lipgloss.Width(rightSide)
	padding := width - leftLen - rightLen
	if padding < 0 {
		padding = 0
	}

	row := leftSide.String() + strings.Repeat(" ", padding) + rightSide

	rowStyle := t.Renderer.NewStyle().Width(width).MaxWidth(width)
	if isSelected {
		row = rowStyle.Background(ThemeBg(t.Highlight)).Render(row)
	} else {
		row = rowStyle.Render(row)
	}

	fmt.Fprint(w, row)
}
