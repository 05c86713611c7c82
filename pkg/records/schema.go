package records

import "fmt"

// Column names written by the research cycle.
const (
	Processors     = "processors"
	Works          = "works"
	Law            = "law"
	DurationSec    = "duration_sec"
	StartCriterion = "startCriterion"
	BestCriterion  = "bestCriterion"
)

// Schema describes the columns an analysis variant needs.
type Schema struct {
	Name     string
	Keys     []string // grouping columns
	Required []string // keys plus metric columns
}

var (
	// TimeSchema is the record layout of the execution-time study.
	TimeSchema = Schema{
		Name:     "time",
		Keys:     []string{Processors, Works},
		Required: []string{Processors, Works, DurationSec},
	}

	// LawSchema is the record layout of the temperature-law study.
	LawSchema = Schema{
		Name:     "law",
		Keys:     []string{Processors, Works, Law},
		Required: []string{Processors, Works, Law, DurationSec, StartCriterion, BestCriterion},
	}
)

// Validate checks that every required column is present. An empty table is
// accepted: it carries no columns at all.
func (s Schema) Validate(t *Table) error {
	if t.Len() == 0 {
		return nil
	}
	for _, name := range s.Required {
		if !t.Has(name) {
			return fmt.Errorf("%s records: %w: %q", s.Name, ErrMissingColumn, name)
		}
	}
	return nil
}
