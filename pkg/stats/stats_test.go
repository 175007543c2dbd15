package stats

import (
	"testing"
	"time"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

func day(n int, now time.Time) time.Time {
	return now.AddDate(0, 0, -n)
}

func TestComputeCounts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		{Status: model.StatusOpen, Prioridade: model.PriorityHigh, DataAbertura: day(2, now)},
		{Status: model.StatusInProgress, Prioridade: model.PriorityMedium, TecnicoResponsavel: "Ana", DataAbertura: day(4, now)},
		{Status: model.StatusResolved, Prioridade: model.PriorityLow, TecnicoResponsavel: "Ana", DataAbertura: day(30, now)},
		{Status: model.StatusClosed, Prioridade: model.PriorityLow, DataAbertura: day(60, now)},
	}

	s := Compute(tickets, now)
	if s.Total != 4 {
		t.Errorf("Total = %d", s.Total)
	}
	if s.ByStatus[model.StatusOpen] != 1 || s.ByStatus[model.StatusInProgress] != 1 {
		t.Errorf("ByStatus = %v", s.ByStatus)
	}
	if s.ByPriority[model.PriorityLow] != 2 {
		t.Errorf("ByPriority = %v", s.ByPriority)
	}
	if s.Unassigned != 2 {
		t.Errorf("Unassigned = %d", s.Unassigned)
	}
	if s.Open() != 2 {
		t.Errorf("Open() = %d", s.Open())
	}
}

func TestComputeOpenAges(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		{Status: model.StatusOpen, DataAbertura: day(2, now)},
		{Status: model.StatusInProgress, DataAbertura: day(6, now)},
		// Closed tickets never count toward open age.
		{Status: model.StatusClosed, DataAbertura: day(100, now)},
	}

	s := Compute(tickets, now)
	if s.MeanOpenAgeDays != 4 {
		t.Errorf("MeanOpenAgeDays = %v, want 4", s.MeanOpenAgeDays)
	}
	if s.MedianOpenAgeDays < 2 || s.MedianOpenAgeDays > 6 {
		t.Errorf("MedianOpenAgeDays = %v, want within [2,6]", s.MedianOpenAgeDays)
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, time.Now())
	if s.Total != 0 || s.MeanOpenAgeDays != 0 || s.MedianOpenAgeDays != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestComputeIgnoresZeroAndFutureDates(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		{Status: model.StatusOpen},                                   // zero DataAbertura
		{Status: model.StatusOpen, DataAbertura: now.AddDate(0, 0, 3)}, // clock skew
	}
	s := Compute(tickets, now)
	if s.MeanOpenAgeDays != 0 {
		t.Errorf("MeanOpenAgeDays = %v, want 0", s.MeanOpenAgeDays)
	}
}
