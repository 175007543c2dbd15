package model

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		cargo string
		want  Role
	}{
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{" tecnico ", RoleTechnician},
		{"desenvolvedor", RoleDeveloper},
		{"professor", RoleRequester},
		{"", RoleRequester},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.cargo); got != tc.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tc.cargo, got, tc.want)
		}
	}
}

func TestPermissionsForAdmin(t *testing.T) {
	p := PermissionsFor(RoleAdmin)
	if !p.CanAssign {
		t.Error("admin should be able to assign")
	}
	if p.FilterByTechnician {
		t.Error("admin sees all tickets")
	}
	found := false
	for _, s := range p.VisibleSections {
		if s == SectionAdminSetores {
			found = true
		}
	}
	if !found {
		t.Error("admin nav must include the sector administration section")
	}
}

func TestPermissionsForNonAdminHidesAdminSection(t *testing.T) {
	for _, r := range []Role{RoleRequester, RoleTechnician, RoleDeveloper} {
		for _, s := range PermissionsFor(r).VisibleSections {
			if s == SectionAdminSetores {
				t.Errorf("role %v must not see the admin section", r)
			}
		}
	}
}

func TestPermissionsForTechnician(t *testing.T) {
	p := PermissionsFor(RoleTechnician)
	if !p.FilterByTechnician {
		t.Error("technician list must be filtered by technician name")
	}
	if !p.CanAssign {
		t.Error("technician should be able to update status")
	}
}

func TestPermissionsSees(t *testing.T) {
	p := PermissionsFor(RoleTechnician)
	if !p.Sees(SectionTickets) {
		t.Error("technician should see the ticket list")
	}
	if p.Sees(SectionAdminSetores) {
		t.Error("technician must not see the admin section")
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		token string
		want  Status
	}{
		{"aberto", StatusOpen},
		{"Em_andamento", StatusInProgress},
		{"resolvido", StatusResolved},
		{"fechado", StatusClosed},
		{"Aberto", StatusOpen},
		{"EM_ANDAMENTO", StatusInProgress},
		{"em andamento", StatusInProgress},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.token); got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}

func TestNormalizeStatusPassesUnknownThrough(t *testing.T) {
	if got := NormalizeStatus("cancelado"); got != Status("cancelado") {
		t.Errorf("unknown token should pass through, got %q", got)
	}
}

// Property: normalization is insensitive to case and to underscore/space
// choice for every token of the fixed status set.
func TestNormalizeStatusVariants(t *testing.T) {
	canonical := map[string]Status{
		"aberto":       StatusOpen,
		"em andamento": StatusInProgress,
		"resolvido":    StatusResolved,
		"fechado":      StatusClosed,
	}
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.SampledFrom([]string{"aberto", "em andamento", "resolvido", "fechado"}).Draw(t, "base")
		want := canonical[base]

		// Mangle: random case per rune, spaces optionally as underscores.
		var b strings.Builder
		for _, r := range base {
			if r == ' ' && rapid.Bool().Draw(t, "underscore") {
				b.WriteRune('_')
				continue
			}
			if rapid.Bool().Draw(t, "upper") {
				b.WriteString(strings.ToUpper(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
		token := b.String()
		if got := NormalizeStatus(token); got != want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", token, got, want)
		}
	})
}

func TestSectorDetailKind(t *testing.T) {
	if SectorDetailKind("salas") != SectorDetailText {
		t.Error("salas requires a room number field")
	}
	if SectorDetailKind("coordenacao") != SectorDetailSelect {
		t.Error("coordenacao requires a coordination type select")
	}
	if SectorDetailKind("admin") != SectorDetailNone {
		t.Error("admin needs no detail field")
	}
	if SectorDetailKind("outros") != SectorDetailNone {
		t.Error("outros needs no detail field")
	}
}

func TestFindTicket(t *testing.T) {
	tickets := []Ticket{{ID: 1, Titulo: "um"}, {ID: 42, Titulo: "resposta"}}
	if got := FindTicket(tickets, 42); got == nil || got.Titulo != "resposta" {
		t.Fatalf("FindTicket(42) = %+v", got)
	}
	if FindTicket(tickets, 7) != nil {
		t.Error("missing id must return nil")
	}
}

func TestTicketAssigned(t *testing.T) {
	if (Ticket{TecnicoResponsavel: "  "}).Assigned() {
		t.Error("blank technician is unassigned")
	}
	if !(Ticket{TecnicoResponsavel: "Ana"}).Assigned() {
		t.Error("ticket with technician is assigned")
	}
}
