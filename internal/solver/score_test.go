package solver

import (
	"testing"
	"time"

	"github.com/me/rosterd/pkg/model"
)

var (
	day1 = model.Date{Year: 2021, Month: time.February, Day: 1}
	day2 = day1.AddDays(1)
)

func specialist(name string) *model.Employee {
	return &model.Employee{Name: name, Role: model.RoleSpecialist, MaxWorkingHoursPerWeek: 40}
}

func assistant(name string) *model.Employee {
	return &model.Employee{Name: name, Role: model.RoleAssistant, MaxWorkingHoursPerWeek: 40}
}

func shift(id string, d model.Date, startHour int, e *model.Employee) *model.Shift {
	return &model.Shift{
		ID:           id,
		Start:        model.NewDateTime(d, startHour, 0),
		End:          model.NewDateTime(d, startHour+8, 0),
		RequiredRole: model.RoleSpecialist,
		Employee:     e,
	}
}

func schedule(shifts ...*model.Shift) *model.Schedule {
	return &model.Schedule{Shifts: shifts}
}

func ruleScore(t *testing.T, s *model.Schedule, name string) model.Score {
	t.Helper()
	for _, ca := range Analyze(s, FetchAll).Constraints {
		if ca.Name == name {
			return ca.Score
		}
	}
	t.Fatalf("rule %q not found in analysis", name)
	return model.Score{}
}

func TestEmptyScheduleScoresZero(t *testing.T) {
	if got := Score(schedule()); got != (model.Score{}) {
		t.Errorf("empty schedule = %v, want 0hard/0soft", got)
	}
}

func TestUnassignedShiftOnlyTriggersCoverage(t *testing.T) {
	s := schedule(shift("1", day1, 10, nil))

	analysis := Analyze(s, FetchAll)
	if analysis.Score != (model.Score{Hard: -1, Soft: 0}) {
		t.Errorf("score = %v, want -1hard/0soft", analysis.Score)
	}
	for _, ca := range analysis.Constraints {
		want := model.Score{}
		if ca.Name == RuleRoleCoverage {
			want = model.HardScore(-1)
		}
		if ca.Score != want {
			t.Errorf("rule %q = %v, want %v", ca.Name, ca.Score, want)
		}
	}
}

func TestNoOverlappingShifts(t *testing.T) {
	alice := specialist("Alice")

	sameStart := schedule(shift("1", day1, 10, alice), shift("2", day1, 10, alice))
	if got := ruleScore(t, sameStart, RuleNoOverlappingShifts); got != model.HardScore(-1) {
		t.Errorf("same start = %v, want -1hard", got)
	}

	// Different starts are not caught even though 10:00-18:00 and 14:00-22:00
	// overlap in time; the rule keys on the start instant only.
	overlapping := schedule(shift("1", day1, 10, alice), shift("2", day1, 14, alice))
	if got := ruleScore(t, overlapping, RuleNoOverlappingShifts); got != (model.Score{}) {
		t.Errorf("different starts = %v, want 0", got)
	}

	// Three shifts at the same instant make three pairs.
	triple := schedule(
		shift("1", day1, 10, alice), shift("2", day1, 10, alice), shift("3", day1, 10, alice))
	if got := ruleScore(t, triple, RuleNoOverlappingShifts); got != model.HardScore(-3) {
		t.Errorf("triple = %v, want -3hard", got)
	}

	// Different employees at the same instant are fine.
	twoPeople := schedule(shift("1", day1, 10, alice), shift("2", day1, 10, specialist("Bob")))
	if got := ruleScore(t, twoPeople, RuleNoOverlappingShifts); got != (model.Score{}) {
		t.Errorf("two employees = %v, want 0", got)
	}
}

func TestUnavailableEmployee(t *testing.T) {
	alice := specialist("Alice")
	alice.UnavailableDates = []model.Date{day1}

	inside := schedule(shift("1", day1, 10, alice))
	if got := ruleScore(t, inside, RuleUnavailableEmployee); got != model.HardScore(-480) {
		t.Errorf("8h shift on unavailable day = %v, want -480hard", got)
	}

	otherDay := schedule(shift("1", day2, 10, alice))
	if got := ruleScore(t, otherDay, RuleUnavailableEmployee); got != (model.Score{}) {
		t.Errorf("shift on another day = %v, want 0", got)
	}
}

func TestUnavailableEmployeeOvernightSplit(t *testing.T) {
	alice := specialist("Alice")
	alice.UnavailableDates = []model.Date{day2}

	overnight := &model.Shift{
		ID:       "1",
		Start:    model.NewDateTime(day1, 22, 0),
		End:      model.NewDateTime(day2, 6, 0),
		Employee: alice,
	}
	// Only the 6 hours falling on day2 count.
	if got := ruleScore(t, schedule(overnight), RuleUnavailableEmployee); got != model.HardScore(-360) {
		t.Errorf("overnight overlap = %v, want -360hard", got)
	}
}

func TestMaxWeeklyHours(t *testing.T) {
	alice := specialist("Alice") // 40h cap

	// day1 is a Monday: six single-shift days land in one ISO week.
	var six []*model.Shift
	for i := 0; i < 6; i++ {
		six = append(six, shift("1", day1.AddDays(i), 10, alice))
	}
	if got := ruleScore(t, schedule(six...), RuleMaxWeeklyHours); got != model.HardScore(-8) {
		t.Errorf("48h week = %v, want -8hard", got)
	}

	if got := ruleScore(t, schedule(six[:5]...), RuleMaxWeeklyHours); got != (model.Score{}) {
		t.Errorf("40h week = %v, want 0", got)
	}
}

func TestMaxWeeklyHoursDoubleShiftDay(t *testing.T) {
	alice := specialist("Alice")

	// Three days with two shifts each: 3 * 12h = 36h, under the cap.
	var shifts []*model.Shift
	for i := 0; i < 3; i++ {
		shifts = append(shifts,
			shift("m", day1.AddDays(i), 10, alice),
			shift("a", day1.AddDays(i), 14, alice))
	}
	if got := ruleScore(t, schedule(shifts...), RuleMaxWeeklyHours); got != (model.Score{}) {
		t.Errorf("36h week = %v, want 0", got)
	}

	// A fourth double day pushes the week to 48h.
	shifts = append(shifts,
		shift("m", day1.AddDays(3), 10, alice),
		shift("a", day1.AddDays(3), 14, alice))
	if got := ruleScore(t, schedule(shifts...), RuleMaxWeeklyHours); got != model.HardScore(-8) {
		t.Errorf("48h week = %v, want -8hard", got)
	}
}

func TestMaxWeeklyHoursSplitsAtISOWeek(t *testing.T) {
	alice := specialist("Alice")

	// Six single-shift days spanning a week boundary: 4 in one ISO week,
	// 2 in the next, neither over 40h.
	var shifts []*model.Shift
	for i := 0; i < 6; i++ {
		shifts = append(shifts, shift("1", day1.AddDays(3+i), 10, alice))
	}
	if got := ruleScore(t, schedule(shifts...), RuleMaxWeeklyHours); got != (model.Score{}) {
		t.Errorf("split weeks = %v, want 0", got)
	}
}

func TestRoleCoverage(t *testing.T) {
	mixed := schedule(
		shift("1", day1, 10, specialist("Alice")),
		shift("2", day1, 10, assistant("Bob")))
	if got := ruleScore(t, mixed, RuleRoleCoverage); got != (model.Score{}) {
		t.Errorf("slot with Specialist = %v, want 0", got)
	}

	assistantsOnly := schedule(
		shift("1", day1, 10, assistant("Bob")),
		shift("2", day1, 10, assistant("Carol")))
	if got := ruleScore(t, assistantsOnly, RuleRoleCoverage); got != model.HardScore(-1) {
		t.Errorf("assistants only = %v, want -1hard", got)
	}

	// Morning and afternoon are independent slots.
	twoSlots := schedule(
		shift("1", day1, 10, assistant("Bob")),
		shift("2", day1, 14, assistant("Carol")))
	if got := ruleScore(t, twoSlots, RuleRoleCoverage); got != model.HardScore(-2) {
		t.Errorf("two uncovered slots = %v, want -2hard", got)
	}
}

func TestBalancedAssignmentsIsFlatPerEmployee(t *testing.T) {
	alice, bob, carol := specialist("Alice"), assistant("Bob"), assistant("Carol")

	spread := schedule(
		shift("1", day1, 10, alice),
		shift("2", day1, 14, bob),
		shift("3", day2, 10, carol))
	if got := ruleScore(t, spread, RuleBalancedAssignments); got != model.SoftScore(-3) {
		t.Errorf("three employees = %v, want -3soft", got)
	}

	// Concentrating the same shifts onto two employees drops the penalty to
	// two, regardless of per-employee shift counts.
	concentrated := schedule(
		shift("1", day1, 10, alice),
		shift("2", day1, 14, alice),
		shift("3", day2, 10, carol))
	if got := ruleScore(t, concentrated, RuleBalancedAssignments); got != model.SoftScore(-2) {
		t.Errorf("two employees = %v, want -2soft", got)
	}
}

func TestPreferredHoliday(t *testing.T) {
	alice := specialist("Alice")
	alice.PreferredHolidays = []model.Date{day1}

	onHoliday := schedule(shift("1", day1, 10, alice))
	if got := ruleScore(t, onHoliday, RulePreferredHoliday); got != model.SoftScore(-1) {
		t.Errorf("shift on preferred holiday = %v, want -1soft", got)
	}

	dayAfter := schedule(shift("1", day2, 10, alice))
	if got := ruleScore(t, dayAfter, RulePreferredHoliday); got != (model.Score{}) {
		t.Errorf("shift a day later = %v, want 0", got)
	}
}

func TestAnalyzeMatchesTotal(t *testing.T) {
	alice := specialist("Alice")
	alice.UnavailableDates = []model.Date{day1}
	alice.PreferredHolidays = []model.Date{day2}

	s := schedule(
		shift("1", day1, 10, alice),
		shift("2", day1, 10, alice),
		shift("3", day2, 10, alice),
		shift("4", day2, 14, nil))

	analysis := Analyze(s, FetchAll)
	if analysis.Score != Score(s) {
		t.Errorf("analysis total %v != Score %v", analysis.Score, Score(s))
	}

	var perRule model.Score
	for _, ca := range analysis.Constraints {
		perRule = perRule.Add(ca.Score)
		var matchSum model.Score
		for _, m := range ca.Matches {
			matchSum = matchSum.Add(m.Score)
		}
		if matchSum != ca.Score {
			t.Errorf("rule %q: matches sum to %v, rule says %v", ca.Name, matchSum, ca.Score)
		}
	}
	if perRule != analysis.Score {
		t.Errorf("per-rule sum %v != total %v", perRule, analysis.Score)
	}
}

func TestAnalyzeFetchPolicies(t *testing.T) {
	s := schedule(shift("1", day1, 10, nil))

	full := Analyze(s, FetchAll)
	counted := Analyze(s, FetchMatchCount)
	shallow := Analyze(s, FetchShallow)

	if full.Score != counted.Score || full.Score != shallow.Score {
		t.Error("fetch policy must not change the score")
	}
	for _, ca := range counted.Constraints {
		if ca.Matches != nil {
			t.Errorf("rule %q: FETCH_MATCH_COUNT should omit matches", ca.Name)
		}
	}
	for _, ca := range shallow.Constraints {
		if ca.MatchCount != 0 || ca.Matches != nil {
			t.Errorf("rule %q: FETCH_SHALLOW should omit counts and matches", ca.Name)
		}
	}
}

func TestParseFetchPolicy(t *testing.T) {
	if ParseFetchPolicy("") != FetchAll {
		t.Error("empty should default to FETCH_ALL")
	}
	if ParseFetchPolicy("FETCH_SHALLOW") != FetchShallow {
		t.Error("FETCH_SHALLOW not recognized")
	}
	if ParseFetchPolicy("bogus") != FetchAll {
		t.Error("unknown should default to FETCH_ALL")
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	alice := specialist("Alice")
	alice.UnavailableDates = []model.Date{day1}
	s := schedule(
		shift("1", day1, 10, alice),
		shift("2", day1, 14, assistant("Bob")),
		shift("3", day2, 10, nil))

	first := Score(s)
	for i := 0; i < 10; i++ {
		if got := Score(s); got != first {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
}
