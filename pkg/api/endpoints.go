package api

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// Login authenticates by phone number and returns the session identity.
func (client *Client) Login(ctx context.Context, telefone, senha string) (*model.Session, error) {
	request := struct {
		Telefone string `json:"telefone"`
		Senha    string `json:"senha"`
	}{telefone, senha}

	var response struct {
		Usuario model.Session `json:"usuario"`
	}
	if err := client.post(ctx, "/auth/login", request, &response); err != nil {
		return nil, err
	}
	return &response.Usuario, nil
}

// Register creates a new user account.
func (client *Client) Register(ctx context.Context, nome, telefone, senha, cargo string) error {
	request := struct {
		Nome     string `json:"nome"`
		Telefone string `json:"telefone"`
		Senha    string `json:"senha"`
		Cargo    string `json:"cargo"`
	}{nome, telefone, senha, cargo}

	return client.post(ctx, "/auth/register", request, nil)
}

// Tickets fetches every ticket the backend exposes, in server order.
func (client *Client) Tickets(ctx context.Context) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := client.get(ctx, "/tickets", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// TicketsByTechnician fetches only tickets assigned to the named
// technician (server-side filter).
func (client *Client) TicketsByTechnician(ctx context.Context, nome string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := client.get(ctx, "/tickets/tecnico/"+escape(nome), &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// TicketDraft carries the new-ticket form fields.
type TicketDraft struct {
	Titulo       string `json:"titulo"`
	Categoria    string `json:"categoria"`
	Prioridade   string `json:"prioridade"`
	Departamento string `json:"departamento"`
	Setor        string `json:"setor"`
	DetalheSetor string `json:"detalheSetor,omitempty"`
	Descricao    string `json:"descricao"`
	Solicitante  string `json:"solicitante"`
	Telefone     string `json:"telefone,omitempty"`
}

// CreateTicket submits a new ticket and returns the created record,
// including the server-assigned protocol code.
func (client *Client) CreateTicket(ctx context.Context, draft TicketDraft) (*model.Ticket, error) {
	var response struct {
		Ticket model.Ticket `json:"ticket"`
	}
	if err := client.post(ctx, "/tickets", draft, &response); err != nil {
		return nil, err
	}
	return &response.Ticket, nil
}

// UpdateTicket patches a ticket's status and responsible technician.
// The status must already be canonical (see model.NormalizeStatus).
func (client *Client) UpdateTicket(ctx context.Context, id int, status model.Status, tecnicoResponsavel string) (*model.Ticket, error) {
	request := struct {
		Status             model.Status `json:"status"`
		TecnicoResponsavel string       `json:"tecnicoResponsavel"`
	}{status, tecnicoResponsavel}

	var ticket model.Ticket
	if err := client.patch(ctx, fmt.Sprintf("/tickets/%d", id), request, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Comments fetches a ticket's comments in backend order.
func (client *Client) Comments(ctx context.Context, ticketID int) ([]model.Comment, error) {
	var comments []model.Comment
	if err := client.get(ctx, fmt.Sprintf("/tickets/%d/comentarios", ticketID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment to a ticket.
func (client *Client) AddComment(ctx context.Context, ticketID int, autor, texto string) (*model.Comment, error) {
	request := struct {
		Autor string `json:"autor"`
		Texto string `json:"texto"`
	}{autor, texto}

	var comment model.Comment
	if err := client.post(ctx, fmt.Sprintf("/tickets/%d/comentarios", ticketID), request, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// SectorTechnicians fetches the sector → technician directory.
func (client *Client) SectorTechnicians(ctx context.Context) ([]model.SectorAssignment, error) {
	var assignments []model.SectorAssignment
	if err := client.get(ctx, "/auth/setores-tecnicos", &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// AssignSectorTechnician stores a sector → technician assignment and
// returns the backend's confirmation message.
func (client *Client) AssignSectorTechnician(ctx context.Context, setor, tecnico string) (string, error) {
	request := model.SectorAssignment{Setor: setor, Tecnico: tecnico}

	var response struct {
		Message string `json:"message"`
	}
	if err := client.post(ctx, "/auth/setor-tecnico", request, &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// TechnicianUsers lists users registered with the technician role.
func (client *Client) TechnicianUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := client.get(ctx, "/auth/usuarios?cargo=tecnico", &users); err != nil {
		return nil, err
	}
	return users, nil
}
