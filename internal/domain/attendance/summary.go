package attendance

import "github.com/cmlabs-hris/staff-ledger/internal/pkg/numeric"

type Summary struct {
	TotalDays           int     `json:"total_days"`
	PresentDays         int     `json:"present_days"`
	HalfDays            int     `json:"half_days"`
	AbsentDays          int     `json:"absent_days"`
	LateDays            int     `json:"late_days"`
	TotalWorkingHours   float64 `json:"total_working_hours"`
	AverageWorkingHours float64 `json:"average_working_hours"`
}

// Tally counts one record into the summary. AverageWorkingHours is left for
// Finish so tallies can be merged cheaply.
func (s *Summary) Tally(r Record) {
	s.TotalDays++
	switch r.Status {
	case StatusPresent:
		s.PresentDays++
	case StatusHalfDay:
		s.HalfDays++
	case StatusAbsent:
		s.AbsentDays++
	case StatusLate:
		s.LateDays++
	}
	s.TotalWorkingHours = numeric.Sum(s.TotalWorkingHours, r.WorkingHours)
}

// Finish derives the average. An empty summary averages to 0.
func (s *Summary) Finish() {
	s.TotalWorkingHours = numeric.Round(s.TotalWorkingHours, 2)
	s.AverageWorkingHours = numeric.Div(s.TotalWorkingHours, float64(s.TotalDays), 2)
}

// Summarize folds records into a Summary.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.Tally(r)
	}
	s.Finish()
	return s
}
