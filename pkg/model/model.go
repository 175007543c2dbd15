// Package model defines the helpcab domain types shared by the API
// client and the TUI: sessions, tickets, comments and the role
// permission table that drives client-side visibility.
package model

import (
	"strings"
	"time"
)

// Role is the authenticated user's role. Parsed from the backend's
// "cargo" field; anything unrecognized degrades to RoleRequester.
type Role int

const (
	RoleRequester Role = iota
	RoleTechnician
	RoleDeveloper
	RoleAdmin
)

// ParseRole maps a wire "cargo" value to a Role.
func ParseRole(cargo string) Role {
	switch strings.ToLower(strings.TrimSpace(cargo)) {
	case "admin":
		return RoleAdmin
	case "tecnico":
		return RoleTechnician
	case "desenvolvedor":
		return RoleDeveloper
	default:
		return RoleRequester
	}
}

// String returns the wire "cargo" value for the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleTechnician:
		return "tecnico"
	case RoleDeveloper:
		return "desenvolvedor"
	default:
		return "solicitante"
	}
}

// Permissions is the single place deciding what a role may see and do.
// Every gate in the UI consults this table instead of comparing cargo
// strings ad hoc.
type Permissions struct {
	// VisibleSections lists the navigation sections offered to the role,
	// in menu order.
	VisibleSections []Section

	// CanAssign is true for roles allowed to change a ticket's status
	// and responsible technician.
	CanAssign bool

	// FilterByTechnician is true when the ticket list must be scoped to
	// tickets assigned to the session user's name.
	FilterByTechnician bool
}

// Sees reports whether the section is offered to the role.
func (p Permissions) Sees(s Section) bool {
	for _, v := range p.VisibleSections {
		if v == s {
			return true
		}
	}
	return false
}

// Section identifies a navigation section of the dashboard.
type Section string

const (
	SectionDashboard    Section = "dashboard"
	SectionTickets      Section = "tickets"
	SectionNewTicket    Section = "newTicket"
	SectionAdminSetores Section = "adminSetores"
)

// PermissionsFor returns the permission table for a role.
func PermissionsFor(r Role) Permissions {
	sections := []Section{SectionDashboard, SectionTickets, SectionNewTicket}
	switch r {
	case RoleAdmin:
		return Permissions{
			VisibleSections: append(sections, SectionAdminSetores),
			CanAssign:       true,
		}
	case RoleTechnician:
		return Permissions{
			VisibleSections:    sections,
			CanAssign:          true,
			FilterByTechnician: true,
		}
	default:
		return Permissions{VisibleSections: sections}
	}
}

// Session is the authenticated identity persisted across runs.
// Telefone is the canonical login identifier.
type Session struct {
	ID       string `json:"id,omitempty"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	Cargo    string `json:"cargo"`
}

// Role returns the parsed role for the session.
func (s Session) Role() Role {
	return ParseRole(s.Cargo)
}

// Status is a ticket's lifecycle state. The set is fixed; transitions
// are not restricted client-side (the server is the authority).
type Status string

const (
	StatusOpen       Status = "Aberto"
	StatusInProgress Status = "Em andamento"
	StatusResolved   Status = "Resolvido"
	StatusClosed     Status = "Fechado"
)

// StatusOptions returns the raw form tokens offered by the status
// selector, in display order. Tokens are normalized before sending.
func StatusOptions() []string {
	return []string{"aberto", "Em_andamento", "resolvido", "fechado"}
}

// NormalizeStatus maps a raw form token to its canonical status label.
// Tokens are matched case-insensitively with underscores treated as
// spaces, so "Em_andamento", "em andamento" and "EM_ANDAMENTO" all map
// to StatusInProgress. Unrecognized tokens pass through unchanged so the
// server can reject them.
func NormalizeStatus(token string) Status {
	key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(token, "_", " ")))
	switch key {
	case "aberto":
		return StatusOpen
	case "em andamento":
		return StatusInProgress
	case "resolvido":
		return StatusResolved
	case "fechado":
		return StatusClosed
	default:
		return Status(token)
	}
}

// Priority is the ticket priority as sent by the backend.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Media"
	PriorityLow    Priority = "Baixa"
)

// PriorityOptions returns the selectable priorities in display order.
func PriorityOptions() []string {
	return []string{string(PriorityHigh), string(PriorityMedium), string(PriorityLow)}
}

// Ticket is a help-desk request record. Field names follow the backend
// wire format.
type Ticket struct {
	ID                 int       `json:"id"`
	Titulo             string    `json:"titulo"`
	Categoria          string    `json:"categoria"`
	Prioridade         Priority  `json:"prioridade"`
	Departamento       string    `json:"departamento"`
	Setor              string    `json:"setor"`
	DetalheSetor       string    `json:"detalheSetor,omitempty"`
	Descricao          string    `json:"descricao"`
	Solicitante        string    `json:"solicitante"`
	Telefone           string    `json:"telefone,omitempty"`
	TecnicoResponsavel string    `json:"tecnicoResponsavel,omitempty"`
	Status             Status    `json:"status"`
	Protocolo          string    `json:"protocolo,omitempty"`
	DataAbertura       time.Time `json:"dataAbertura"`
	DataAtualizacao    time.Time `json:"dataAtualizacao,omitempty"`
	Comments           []Comment `json:"comentarios,omitempty"`
}

// Assigned reports whether a technician is responsible for the ticket.
func (t Ticket) Assigned() bool {
	return strings.TrimSpace(t.TecnicoResponsavel) != ""
}

// Comment is an append-only remark on a ticket. Ordering is whatever the
// backend returns; the client never reorders.
type Comment struct {
	Autor string    `json:"autor"`
	Texto string    `json:"texto"`
	Data  time.Time `json:"data"`
}

// SectorAssignment maps a sector to its responsible technician.
// Maintained by admins.
type SectorAssignment struct {
	Setor   string `json:"setor"`
	Tecnico string `json:"tecnico"`
}

// User is a registered backend user, as listed by the technician
// directory endpoint.
type User struct {
	ID       string `json:"id,omitempty"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone,omitempty"`
	Cargo    string `json:"cargo"`
}

// SectorDetail describes the extra field a sector requires on ticket
// creation, if any.
type SectorDetail int

const (
	SectorDetailNone   SectorDetail = iota
	SectorDetailText                // free text (room number)
	SectorDetailSelect              // fixed option list
)

// SectorDetailKind returns the detail field kind for a sector. Only
// "salas" and "coordenacao" take an extra field.
func SectorDetailKind(setor string) SectorDetail {
	switch strings.ToLower(strings.TrimSpace(setor)) {
	case "salas":
		return SectorDetailText
	case "coordenacao":
		return SectorDetailSelect
	default:
		return SectorDetailNone
	}
}

// SectorOptions returns the sectors offered by the new-ticket form.
func SectorOptions() []string {
	return []string{"salas", "coordenacao", "admin", "outros"}
}

// CoordenacaoOptions returns the option list for the coordenacao
// sector's detail field.
func CoordenacaoOptions() []string {
	return []string{"pedagogica", "orientacao", "administrativa", "outra"}
}

// FindTicket returns the ticket with the given id, or nil.
func FindTicket(tickets []Ticket, id int) *Ticket {
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i]
		}
	}
	return nil
}
