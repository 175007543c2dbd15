package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

func TestTicketRowRendersCommentCount(t *testing.T) {
	ticket := model.Ticket{
		ID:         7,
		Titulo:     "Projetor da sala 12",
		Status:     model.StatusOpen,
		Prioridade: model.PriorityHigh,
		Comments: []model.Comment{
			{Autor: "Ana Souza", Texto: "Verificando."},
			{Autor: "Rui Alves", Texto: "Cabo trocado."},
		},
	}
	items := []list.Item{TicketItem{Ticket: ticket}}
	d := TicketDelegate{Theme: TestTheme()}
	l := list.New(items, d, 80, 10)

	var buf bytes.Buffer
	d.Render(&buf, l, 0, items[0])
	row := buf.String()

	if !strings.Contains(row, "Projetor da sala 12") {
		t.Errorf("row missing title: %q", row)
	}
	if !strings.Contains(row, "#7") {
		t.Errorf("row missing id: %q", row)
	}
	if !strings.Contains(row, "💬2") {
		t.Errorf("row missing comment count: %q", row)
	}
}

func TestTicketRowOmitsCommentMarkerWhenEmpty(t *testing.T) {
	items := []list.Item{TicketItem{Ticket: model.Ticket{ID: 1, Titulo: "Sem comentários", Status: model.StatusOpen}}}
	d := TicketDelegate{Theme: TestTheme()}
	l := list.New(items, d, 80, 10)

	var buf bytes.Buffer
	d.Render(&buf, l, 0, items[0])

	if strings.Contains(buf.String(), "💬") {
		t.Errorf("row should not show a comment marker: %q", buf.String())
	}
}
