package model

import "time"

// Shift is a single slot of work to cover. Employee is the only field the
// solver mutates during search; nil means unassigned.
type Shift struct {
	ID           string    `json:"id" validate:"required"`
	Start        DateTime  `json:"start"`
	End          DateTime  `json:"end"`
	RequiredRole string    `json:"requiredRole"`
	Employee     *Employee `json:"employee"`
}

// Assigned reports whether the shift has an employee.
func (s *Shift) Assigned() bool {
	return s.Employee != nil
}

// SameShift reports whether two records describe the same logical shift.
// The assignment is deliberately excluded: two records that differ only in
// employee are the same shift in different planning states.
func (s *Shift) SameShift(o *Shift) bool {
	return s.ID == o.ID &&
		s.Start.Equal(o.Start.Time) &&
		s.End.Equal(o.End.Time) &&
		s.RequiredRole == o.RequiredRole
}

// OverlapsDate reports whether the shift touches the given date: true iff the
// shift starts or ends on it.
func (s *Shift) OverlapsDate(d Date) bool {
	return s.Start.Date() == d || s.End.Date() == d
}

// OverlapMinutes returns the whole minutes of the shift that fall within the
// 24-hour window of the date. A shift whose end precedes its start, or that
// misses the window entirely, contributes zero.
func (s *Shift) OverlapMinutes(d Date) int {
	windowStart := d.Time()
	windowEnd := d.AddDays(1).Time().Add(-time.Nanosecond)

	start := s.Start.Time
	if windowStart.After(start) {
		start = windowStart
	}
	end := s.End.Time
	if windowEnd.Before(end) {
		end = windowEnd
	}

	minutes := int(end.Sub(start) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}
