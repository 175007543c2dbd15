package testutil

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// AssertTicketCount verifies the expected number of tickets.
func AssertTicketCount(t *testing.T, tickets []model.Ticket, expected int) {
	t.Helper()
	if len(tickets) != expected {
		t.Errorf("expected %d tickets, got %d", expected, len(tickets))
	}
}

// AssertAllAssignedTo verifies every ticket is assigned to the named
// technician.
func AssertAllAssignedTo(t *testing.T, tickets []model.Ticket, tecnico string) {
	t.Helper()
	for _, ticket := range tickets {
		if ticket.TecnicoResponsavel != tecnico {
			t.Errorf("ticket #%d assigned to %q, want %q", ticket.ID, ticket.TecnicoResponsavel, tecnico)
		}
	}
}

// AssertStatusCounts verifies the count of tickets in each status.
func AssertStatusCounts(t *testing.T, tickets []model.Ticket, open, inProgress, resolved, closed int) {
	t.Helper()
	counts := make(map[model.Status]int)
	for _, ticket := range tickets {
		counts[ticket.Status]++
	}

	if counts[model.StatusOpen] != open {
		t.Errorf("expected %d open tickets, got %d", open, counts[model.StatusOpen])
	}
	if counts[model.StatusInProgress] != inProgress {
		t.Errorf("expected %d in-progress tickets, got %d", inProgress, counts[model.StatusInProgress])
	}
	if counts[model.StatusResolved] != resolved {
		t.Errorf("expected %d resolved tickets, got %d", resolved, counts[model.StatusResolved])
	}
	if counts[model.StatusClosed] != closed {
		t.Errorf("expected %d closed tickets, got %d", closed, counts[model.StatusClosed])
	}
}

// AssertRequested verifies the backend served a request matching
// "METHOD path".
func AssertRequested(t *testing.T, b *FakeBackend, methodAndPath string) {
	t.Helper()
	for _, r := range b.Requests() {
		if r == methodAndPath {
			return
		}
	}
	t.Errorf("expected request %q, served: %s", methodAndPath, strings.Join(b.Requests(), ", "))
}

// AssertNotRequested verifies the backend never served a request
// matching "METHOD path".
func AssertNotRequested(t *testing.T, b *FakeBackend, methodAndPath string) {
	t.Helper()
	for _, r := range b.Requests() {
		if r == methodAndPath {
			t.Errorf("unexpected request %q", methodAndPath)
			return
		}
	}
}
