// Package solver scores candidate schedules against the rostering rules and
// searches for better assignments with local search.
package solver

import (
	"fmt"
	"sort"

	"github.com/me/rosterd/pkg/model"
)

// Rule names, as reported by Analyze.
const (
	RuleNoOverlappingShifts = "Overlapping shifts for same employee"
	RuleUnavailableEmployee = "Unavailable employee"
	RuleMaxWeeklyHours      = "Max weekly working hours exceeded"
	RuleRoleCoverage        = "At least one Specialist per time slot"
	RuleBalancedAssignments = "Balance employee shift assignments"
	RulePreferredHoliday    = "Preferred holiday not respected"
)

// Daily timeslots for the role-coverage rule. A shift belongs to the morning
// slot iff it starts before 14:00.
const (
	slotMorning   = "Morning"
	slotAfternoon = "Afternoon"
	slotBoundary  = 14
)

// FetchPolicy controls how much detail Analyze returns.
type FetchPolicy string

const (
	// FetchAll includes every individual rule match.
	FetchAll FetchPolicy = "FETCH_ALL"
	// FetchMatchCount includes per-rule totals and match counts, no matches.
	FetchMatchCount FetchPolicy = "FETCH_MATCH_COUNT"
	// FetchShallow includes only per-rule score totals.
	FetchShallow FetchPolicy = "FETCH_SHALLOW"
)

// ParseFetchPolicy maps a query-string value onto a FetchPolicy. Empty or
// unrecognized values fall back to FETCH_ALL, mirroring the analyze default.
func ParseFetchPolicy(s string) FetchPolicy {
	switch FetchPolicy(s) {
	case FetchMatchCount:
		return FetchMatchCount
	case FetchShallow:
		return FetchShallow
	default:
		return FetchAll
	}
}

type match struct {
	justification string
	score         model.Score
}

type rule struct {
	name string
	eval func(*model.Schedule) []match
}

// The six rules are independent: no rule short-circuits another, so the total
// is order-independent and scoring is pure.
var rules = []rule{
	{RuleNoOverlappingShifts, noOverlappingShifts},
	{RuleUnavailableEmployee, unavailableEmployee},
	{RuleMaxWeeklyHours, maxWeeklyHours},
	{RuleRoleCoverage, roleCoverage},
	{RuleBalancedAssignments, balancedAssignments},
	{RulePreferredHoliday, preferredHoliday},
}

// Score computes the hard/soft score of a candidate schedule. Deterministic
// and side-effect-free; safe for concurrent use.
func Score(s *model.Schedule) model.Score {
	var total model.Score
	for _, r := range rules {
		for _, m := range r.eval(s) {
			total = total.Add(m.score)
		}
	}
	return total
}

// Analyze scores the schedule and breaks the result down per rule. The fetch
// policy only trims detail; the total is identical to Score.
func Analyze(s *model.Schedule, policy FetchPolicy) model.ScoreAnalysis {
	analysis := model.ScoreAnalysis{
		Constraints: make([]model.ConstraintAnalysis, 0, len(rules)),
	}
	for _, r := range rules {
		matches := r.eval(s)
		ca := model.ConstraintAnalysis{Name: r.name}
		for _, m := range matches {
			ca.Score = ca.Score.Add(m.score)
			if policy == FetchAll {
				ca.Matches = append(ca.Matches, model.MatchAnalysis{
					Justification: m.justification,
					Score:         m.score,
				})
			}
		}
		if policy != FetchShallow {
			ca.MatchCount = len(matches)
		}
		analysis.Score = analysis.Score.Add(ca.Score)
		analysis.Constraints = append(analysis.Constraints, ca)
	}
	return analysis
}

// noOverlappingShifts penalizes one hard point per unordered pair of shifts
// assigned to the same employee with the same start instant. Deliberately
// narrow: shifts with different starts are not caught even if their intervals
// overlap.
func noOverlappingShifts(s *model.Schedule) []match {
	type key struct {
		employee string
		start    int64
	}
	groups := make(map[key][]*model.Shift)
	var order []key
	for _, sh := range s.Shifts {
		if !sh.Assigned() {
			continue
		}
		k := key{sh.Employee.Name, sh.Start.UnixNano()}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], sh)
	}

	var out []match
	for _, k := range order {
		shifts := groups[k]
		for i := 0; i < len(shifts); i++ {
			for j := i + 1; j < len(shifts); j++ {
				out = append(out, match{
					justification: fmt.Sprintf("shifts %s, %s (%s, %s)",
						shifts[i].ID, shifts[j].ID, k.employee, shifts[i].Start),
					score: model.HardScore(-1),
				})
			}
		}
	}
	return out
}

// unavailableEmployee penalizes, per assigned shift and per unavailable date
// the shift touches, the minutes of overlap with that date.
func unavailableEmployee(s *model.Schedule) []match {
	var out []match
	for _, sh := range s.Shifts {
		if !sh.Assigned() {
			continue
		}
		for _, d := range sh.Employee.UnavailableDates {
			if !sh.OverlapsDate(d) {
				continue
			}
			minutes := sh.OverlapMinutes(d)
			out = append(out, match{
				justification: fmt.Sprintf("shift %s (%s unavailable on %s)",
					sh.ID, sh.Employee.Name, d),
				score: model.HardScore(-int64(minutes)),
			})
		}
	}
	return out
}

// maxWeeklyHours counts shifts per (employee, day), converts the count to
// daily hours (8 for a single shift, 12 otherwise; the domain assumes at most
// two shifts a day), aggregates per ISO week and penalizes the excess over
// the employee's cap.
func maxWeeklyHours(s *model.Schedule) []match {
	type dayKey struct {
		employee string
		date     model.Date
	}
	perDay := make(map[dayKey]int)
	employees := make(map[string]*model.Employee)
	for _, sh := range s.Shifts {
		if !sh.Assigned() {
			continue
		}
		perDay[dayKey{sh.Employee.Name, sh.Start.Date()}]++
		employees[sh.Employee.Name] = sh.Employee
	}

	type weekKey struct {
		employee string
		year     int
		week     int
	}
	perWeek := make(map[weekKey]int)
	for k, count := range perDay {
		hours := 8
		if count != 1 {
			hours = 12
		}
		y, w := k.date.ISOWeek()
		perWeek[weekKey{k.employee, y, w}] += hours
	}

	keys := make([]weekKey, 0, len(perWeek))
	for k := range perWeek {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.employee != b.employee {
			return a.employee < b.employee
		}
		if a.year != b.year {
			return a.year < b.year
		}
		return a.week < b.week
	})

	var out []match
	for _, k := range keys {
		total := perWeek[k]
		limit := employees[k.employee].MaxWorkingHoursPerWeek
		if total <= limit {
			continue
		}
		out = append(out, match{
			justification: fmt.Sprintf("%s %d-W%02d: %dh over the %dh cap",
				k.employee, k.year, k.week, total, limit),
			score: model.HardScore(-int64(total - limit)),
		})
	}
	return out
}

// roleCoverage partitions each day into Morning/Afternoon timeslots and
// penalizes every slot that has shifts but no Specialist assigned to any of
// them. Unassigned shifts still anchor the slot, so an uncovered slot with
// only unassigned shifts is penalized.
func roleCoverage(s *model.Schedule) []match {
	type slotKey struct {
		date model.Date
		slot string
	}
	covered := make(map[slotKey]bool)
	var order []slotKey
	for _, sh := range s.Shifts {
		k := slotKey{sh.Start.Date(), timeslot(sh)}
		if _, seen := covered[k]; !seen {
			order = append(order, k)
			covered[k] = false
		}
		if sh.Assigned() && sh.Employee.Role == model.RoleSpecialist {
			covered[k] = true
		}
	}

	var out []match
	for _, k := range order {
		if covered[k] {
			continue
		}
		out = append(out, match{
			justification: fmt.Sprintf("%s %s has no Specialist", k.date, k.slot),
			score:         model.HardScore(-1),
		})
	}
	return out
}

// balancedAssignments penalizes one soft point per distinct employee carrying
// at least one shift. The penalty is flat per employee, independent of how
// many shifts each carries; load balance in name only, preserved as-is
// pending product review.
func balancedAssignments(s *model.Schedule) []match {
	counts := make(map[string]int)
	var order []string
	for _, sh := range s.Shifts {
		if !sh.Assigned() {
			continue
		}
		if _, seen := counts[sh.Employee.Name]; !seen {
			order = append(order, sh.Employee.Name)
		}
		counts[sh.Employee.Name]++
	}

	out := make([]match, 0, len(order))
	for _, name := range order {
		out = append(out, match{
			justification: fmt.Sprintf("%s carries %d shifts", name, counts[name]),
			score:         model.SoftScore(-1),
		})
	}
	return out
}

// preferredHoliday penalizes one soft point per shift starting on a date its
// employee asked to have off.
func preferredHoliday(s *model.Schedule) []match {
	var out []match
	for _, sh := range s.Shifts {
		if !sh.Assigned() {
			continue
		}
		if sh.Employee.PrefersHoliday(sh.Start.Date()) {
			out = append(out, match{
				justification: fmt.Sprintf("shift %s on %s's preferred holiday %s",
					sh.ID, sh.Employee.Name, sh.Start.Date()),
				score: model.SoftScore(-1),
			})
		}
	}
	return out
}

func timeslot(sh *model.Shift) string {
	if sh.Start.Hour() < slotBoundary {
		return slotMorning
	}
	return slotAfternoon
}
