package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// TicketItem wraps model.Ticket to implement list.Item
type TicketItem struct {
	Ticket model.Ticket
}

func (i TicketItem) Title() string {
	return i.Ticket.Titulo
}

func (i TicketItem) Description() string {
	return fmt.Sprintf("#%d %s • %s", i.Ticket.ID, i.Ticket.Status, i.Ticket.Solicitante)
}

func (i TicketItem) FilterValue() string {
	// Filter across everything a dispatcher would search by: title, protocol,
	// requester, technician, department, sector and status.
	var sb strings.Builder
	sb.WriteString(i.Ticket.Titulo)
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(i.Ticket.ID))
	sb.WriteString(" ")
	sb.WriteString(string(i.Ticket.Status))
	sb.WriteString(" ")
	sb.WriteString(i.Ticket.Solicitante)
	sb.WriteString(" ")
	sb.WriteString(i.Ticket.Departamento)

	if i.Ticket.Protocolo != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Ticket.Protocolo)
	}
	if i.Ticket.TecnicoResponsavel != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Ticket.TecnicoResponsavel)
	}
	if i.Ticket.Setor != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Ticket.Setor)
	}

	return sb.String()
}
