// Package demodata generates synthetic employee schedules for trying out the
// solver without real rosters. Generation is deterministic for a given
// parameter set, so repeated requests return identical data.
package demodata

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/me/rosterd/pkg/model"
)

// Size selects one of the built-in data sets.
type Size string

const (
	SizeSmall  Size = "SMALL"
	SizeMedium Size = "MEDIUM"
	SizeLarge  Size = "LARGE"
	SizeHuge   Size = "HUGE"
)

// Sizes lists the built-in data sets in ascending order.
func Sizes() []Size {
	return []Size{SizeSmall, SizeMedium, SizeLarge, SizeHuge}
}

// CountDistribution is a weighted choice for how many items to pick.
type CountDistribution struct {
	Count  int
	Weight float64
}

// Parameters controls a generated data set.
type Parameters struct {
	Roles                 []string
	DaysInSchedule        int
	EmployeeCount         int
	UnavailableDaysPerDay []CountDistribution
	HolidaysPerEmployee   []CountDistribution
	Seed                  int64
}

var sizeParameters = map[Size]Parameters{
	SizeSmall: {
		Roles:                 []string{model.RoleSpecialist, model.RoleAssistant},
		DaysInSchedule:        7,
		EmployeeCount:         5,
		UnavailableDaysPerDay: []CountDistribution{{1, 1}},
		HolidaysPerEmployee:   []CountDistribution{{1, 1}},
	},
	SizeMedium: {
		Roles:                 []string{model.RoleSpecialist, model.RoleAssistant},
		DaysInSchedule:        30,
		EmployeeCount:         9,
		UnavailableDaysPerDay: []CountDistribution{{1, 2}, {2, 1}},
		HolidaysPerEmployee:   []CountDistribution{{1, 2}, {2, 1}},
	},
	SizeLarge: {
		Roles:                 []string{model.RoleSpecialist, model.RoleAssistant},
		DaysInSchedule:        90,
		EmployeeCount:         12,
		UnavailableDaysPerDay: []CountDistribution{{1, 3}, {2, 2}, {3, 1}},
		HolidaysPerEmployee:   []CountDistribution{{1, 3}, {2, 2}, {3, 1}},
	},
	SizeHuge: {
		Roles:                 []string{model.RoleSpecialist, model.RoleAssistant},
		DaysInSchedule:        365,
		EmployeeCount:         16,
		UnavailableDaysPerDay: []CountDistribution{{1, 3}, {2, 2}, {3, 1}},
		HolidaysPerEmployee: []CountDistribution{
			{1, 10}, {2, 10}, {3, 10}, {4, 10},
			{5, 10}, {6, 10}, {7, 10}, {8, 10},
		},
	},
}

var firstNames = []string{"Amy", "Beth", "Carl", "Dan", "Elsa", "Flo", "Gus", "Hugo", "Ivy", "Jay"}
var lastNames = []string{"Cole", "Fox", "Green", "Jones", "King", "Li", "Poe", "Rye", "Smith", "Watt"}

const (
	shiftLengthHours     = 8
	morningShiftStart    = 10
	afternoonShiftStart  = 14
	shiftsPerSlot        = 2
	weeklyHoursCap       = 40
	holidayPlaceAttempts = 100
)

// ParseSize maps a request string onto a built-in size.
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge, SizeHuge:
		return Size(s), nil
	default:
		return "", fmt.Errorf("unknown demo data set %q", s)
	}
}

// ParametersFor returns the parameter set behind a built-in size.
func ParametersFor(size Size) Parameters {
	return sizeParameters[size]
}

// Generate builds a schedule for the given size, starting on the next Monday
// on or after today.
func Generate(size Size) *model.Schedule {
	return GenerateFrom(ParametersFor(size), nextOrSameMonday(time.Now()))
}

// GenerateFrom builds a schedule from explicit parameters and start date.
func GenerateFrom(p Parameters, startDate model.Date) *model.Schedule {
	rng := rand.New(rand.NewSource(p.Seed))

	names := allNameCombinations()
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	employees := make([]*model.Employee, 0, p.EmployeeCount)
	for i := 0; i < p.EmployeeCount; i++ {
		employees = append(employees, &model.Employee{
			Name:                   names[i],
			Role:                   p.Roles[rng.Intn(len(p.Roles))],
			MaxWorkingHoursPerWeek: weeklyHoursCap,
		})
	}

	// Mark a weighted subset of employees unavailable on each day.
	for i := 0; i < p.DaysInSchedule; i++ {
		date := startDate.AddDays(i)
		for _, e := range pickSubset(employees, rng, p.UnavailableDaysPerDay) {
			e.UnavailableDates = append(e.UnavailableDates, date)
		}
	}

	// Place preferred holidays on days the employee is not already blocked.
	for _, e := range employees {
		holidayCount := pickCount(rng, p.HolidaysPerEmployee)
		for j := 0; j < holidayCount; j++ {
			var holiday model.Date
			placed := false
			for attempt := 0; attempt < holidayPlaceAttempts; attempt++ {
				holiday = startDate.AddDays(rng.Intn(p.DaysInSchedule))
				if !e.IsUnavailable(holiday) && !e.PrefersHoliday(holiday) {
					placed = true
					break
				}
			}
			if placed {
				e.PreferredHolidays = append(e.PreferredHolidays, holiday)
			}
		}
	}

	var shifts []*model.Shift
	for i := 0; i < p.DaysInSchedule; i++ {
		shifts = append(shifts, shiftsForDay(startDate.AddDays(i))...)
	}
	for i, s := range shifts {
		s.ID = fmt.Sprintf("%d", i)
	}

	return &model.Schedule{
		Employees:    employees,
		Shifts:       shifts,
		SolverStatus: model.StatusNotSolving,
	}
}

func shiftsForDay(date model.Date) []*model.Shift {
	var shifts []*model.Shift
	for _, startHour := range []int{morningShiftStart, afternoonShiftStart} {
		start := model.NewDateTime(date, startHour, 0)
		end := model.NewDateTime(date, startHour+shiftLengthHours, 0)
		for i := 0; i < shiftsPerSlot; i++ {
			shifts = append(shifts, &model.Shift{
				Start:        start,
				End:          end,
				RequiredRole: model.RoleSpecialist,
			})
		}
	}
	return shifts
}

func pickCount(rng *rand.Rand, dist []CountDistribution) int {
	var sum float64
	for _, d := range dist {
		sum += d.Weight
	}
	choice := rng.Float64() * sum
	for _, d := range dist {
		if choice < d.Weight {
			return d.Count
		}
		choice -= d.Weight
	}
	return dist[len(dist)-1].Count
}

func pickSubset(employees []*model.Employee, rng *rand.Rand, dist []CountDistribution) []*model.Employee {
	count := pickCount(rng, dist)
	picked := make([]*model.Employee, len(employees))
	copy(picked, employees)
	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if count > len(picked) {
		count = len(picked)
	}
	return picked[:count]
}

func allNameCombinations() []string {
	out := make([]string, 0, len(firstNames)*len(lastNames))
	for _, last := range lastNames {
		for _, first := range firstNames {
			out = append(out, first+" "+last)
		}
	}
	return out
}

func nextOrSameMonday(t time.Time) model.Date {
	d := model.DateOf(t)
	offset := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	return d.AddDays(offset)
}
