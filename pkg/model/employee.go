package model

// Role names used by the role-coverage rule. Roles stay open strings on the
// wire; only Specialist has rule semantics attached.
const (
	RoleSpecialist = "Specialist"
	RoleAssistant  = "Assistant"
)

// Employee is a member of the candidate pool. The name is the primary key;
// employees are immutable once a solve run starts.
type Employee struct {
	Name                   string `json:"name" validate:"required"`
	Role                   string `json:"role"`
	UnavailableDates       []Date `json:"unavailableDates"`
	PreferredHolidays      []Date `json:"preferredHolidays"`
	MaxWorkingHoursPerWeek int    `json:"maxWorkingHoursPerWeek" validate:"gte=0"`
}

// IsUnavailable reports whether the employee cannot work on the given date.
func (e *Employee) IsUnavailable(d Date) bool {
	return containsDate(e.UnavailableDates, d)
}

// PrefersHoliday reports whether the employee wishes to have the date off.
func (e *Employee) PrefersHoliday(d Date) bool {
	return containsDate(e.PreferredHolidays, d)
}

func containsDate(dates []Date, d Date) bool {
	for _, x := range dates {
		if x == d {
			return true
		}
	}
	return false
}
