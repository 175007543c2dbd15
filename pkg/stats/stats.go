// Package stats computes the dashboard summary over a freshly fetched
// ticket collection. There is no local store: callers re-fetch and
// recompute on every dashboard visit.
package stats

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// Summary is the dashboard's aggregate view of the ticket collection.
type Summary struct {
	Total      int
	ByStatus   map[model.Status]int
	ByPriority map[model.Priority]int
	Unassigned int

	// MeanOpenAgeDays and MedianOpenAgeDays cover tickets that are not
	// Resolvido/Fechado. Zero when there are none.
	MeanOpenAgeDays   float64
	MedianOpenAgeDays float64
}

// Compute builds a Summary from a ticket collection. now anchors the
// age calculation so tests can pin it.
func Compute(tickets []model.Ticket, now time.Time) Summary {
	s := Summary{
		Total:      len(tickets),
		ByStatus:   make(map[model.Status]int),
		ByPriority: make(map[model.Priority]int),
	}

	var openAges []float64
	for _, t := range tickets {
		s.ByStatus[t.Status]++
		s.ByPriority[t.Prioridade]++
		if !t.Assigned() {
			s.Unassigned++
		}
		if t.Status == model.StatusOpen || t.Status == model.StatusInProgress {
			if !t.DataAbertura.IsZero() {
				age := now.Sub(t.DataAbertura).Hours() / 24
				if age < 0 {
					age = 0
				}
				openAges = append(openAges, age)
			}
		}
	}

	if len(openAges) > 0 {
		s.MeanOpenAgeDays = stat.Mean(openAges, nil)
		sort.Float64s(openAges)
		s.MedianOpenAgeDays = stat.Quantile(0.5, stat.Empirical, openAges, nil)
	}

	return s
}

// Open returns the count of tickets still in flight (Aberto or
// Em andamento).
func (s Summary) Open() int {
	return s.ByStatus[model.StatusOpen] + s.ByStatus[model.StatusInProgress]
}
