package ui

import (
	"testing"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

func TestTicketFormSectorDetail(t *testing.T) {
	f := newTicketForm()

	// Default sector is salas: a room number is required.
	if f.Setor() != "salas" {
		t.Fatalf("default sector = %q", f.Setor())
	}
	f.titulo.SetValue("Projetor quebrado")
	f.departamento.SetValue("Biologia")
	f.descricao.SetValue("Não liga.")
	if problem := f.Validate(); problem == "" {
		t.Error("missing room number should fail validation")
	}
	f.detalheText.SetValue("12A")
	if problem := f.Validate(); problem != "" {
		t.Errorf("Validate() = %q, want ok", problem)
	}

	sess := model.Session{Nome: "João", Telefone: "11999999999"}
	draft := f.Draft(sess)
	if draft.DetalheSetor != "12A" {
		t.Errorf("DetalheSetor = %q", draft.DetalheSetor)
	}
	if draft.Solicitante != "João" || draft.Telefone != "11999999999" {
		t.Errorf("requester fields = %q / %q, want session values", draft.Solicitante, draft.Telefone)
	}
}

func TestTicketFormSectorSwitchClearsDetail(t *testing.T) {
	f := newTicketForm()
	f.detalheText.SetValue("12A")

	// Move to the sector field and cycle to coordenacao.
	f.focusIdx = fieldSetor
	f.cycleSelect(1)

	if f.Setor() != "coordenacao" {
		t.Fatalf("sector after cycle = %q", f.Setor())
	}
	if f.detalheText.Value() != "" {
		t.Error("room number should clear when the sector changes")
	}
	if f.detailKind() != model.SectorDetailSelect {
		t.Errorf("detail kind = %v, want select", f.detailKind())
	}
	if got := f.Detalhe(); got != "pedagogica" {
		t.Errorf("default coordenacao detail = %q", got)
	}
}

func TestTicketFormSkipsDetailFieldWhenSectorHasNone(t *testing.T) {
	f := newTicketForm()
	f.focusIdx = fieldSetor
	f.cycleSelect(1) // coordenacao
	f.cycleSelect(1) // admin: no detail field

	if f.detailKind() != model.SectorDetailNone {
		t.Fatalf("detail kind = %v, want none", f.detailKind())
	}
	if next := f.nextField(1); next == fieldDetalhe {
		t.Error("tab should skip the detail field")
	}
	if f.Detalhe() != "" {
		t.Errorf("Detalhe() = %q, want empty", f.Detalhe())
	}
}

func TestRegisterFormValidation(t *testing.T) {
	f := newRegisterForm()
	if problem := f.Validate(); problem == "" {
		t.Error("empty form should fail validation")
	}

	f.nome.SetValue("Maria")
	f.telefone.SetValue("11988887777")
	f.senha.SetValue("segredo")
	if problem := f.Validate(); problem != "" {
		t.Errorf("Validate() = %q, want ok", problem)
	}

	_, _, _, cargo := f.Values()
	if cargo != "solicitante" {
		t.Errorf("default cargo = %q", cargo)
	}
}

func TestStatusModalPreselectsCurrentStatus(t *testing.T) {
	d := newDetailPanel()
	d.open(1)
	d.display(model.Ticket{ID: 1, Status: model.StatusInProgress, TecnicoResponsavel: "Ana"}, nil)
	d.openStatusModal()

	if got := model.NormalizeStatus(d.statusToken()); got != model.StatusInProgress {
		t.Errorf("preselected status = %q, want %q", got, model.StatusInProgress)
	}
	if d.tecnicoInput.Value() != "Ana" {
		t.Errorf("technician input = %q", d.tecnicoInput.Value())
	}
}
