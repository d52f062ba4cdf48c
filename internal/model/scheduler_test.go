package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	"github.com/educurcio/park-scheduler/internal/milp"
)

func newTestScheduler(timeLimit time.Duration) Scheduler {
	return NewScheduler(milp.NewEnumerationSolver(), timeLimit)
}

func soloParks(names ...string) ([]Park, []Company) {
	parks := []Park{}
	companies := []Company{}
	for _, name := range names {
		parks = append(parks, Park{Name: name, Company: name + " Co"})
		companies = append(companies, Company{Name: name + " Co", WindowDays: 30})
	}
	return parks, companies
}

func TestScheduleFreeAssignment(t *testing.T) {
	g := NewWithT(t)
	parks, companies := soloParks("Riverland", "Lakeside", "Dunewalk")
	input := ScheduleInput{Days: testCalendar(3), Parks: parks, Companies: companies}
	scheduler := newTestScheduler(time.Minute)

	result, err := scheduler.Schedule(input)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(milp.Optimal))
	g.Expect(result.Objective).To(BeNumerically("==", 0))
	g.Expect(result.Assignments).To(HaveLen(3))
	g.Expect(result.Violations).To(BeEmpty())
	g.Expect(scheduler.Verify(result, input)).To(BeTrue())
}

func TestScheduleMoreParksThanDays(t *testing.T) {
	g := NewWithT(t)
	parks, companies := soloParks("Riverland", "Lakeside", "Dunewalk")
	input := ScheduleInput{Days: testCalendar(2), Parks: parks, Companies: companies}

	result, err := newTestScheduler(time.Minute).Schedule(input)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(milp.Infeasible))
	g.Expect(result.Assignments).To(BeEmpty())
}

func TestScheduleConflictingHardRules(t *testing.T) {
	g := NewWithT(t)
	parks, companies := soloParks("Riverland", "Lakeside")
	// both parks need the second day: one requires it, the other is forbidden
	// everywhere else
	required := testDay(1)
	parks[0].RequiredDay = &required
	parks[1].ForbiddenDays = []time.Time{testDay(0)}
	input := ScheduleInput{Days: testCalendar(2), Parks: parks, Companies: companies}

	result, err := newTestScheduler(time.Minute).Schedule(input)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(milp.Infeasible))
}

func TestScheduleRequiredAndRestrictedDays(t *testing.T) {
	g := NewWithT(t)
	parks, companies := soloParks("Riverland", "Lakeside", "Dunewalk")
	required := testDay(2)
	parks[0].RequiredDay = &required
	parks[1].ForbiddenDays = []time.Time{testDay(0)}
	parks[2].AvoidDays = []time.Time{testDay(1)}
	input := ScheduleInput{Days: testCalendar(3), Parks: parks, Companies: companies}
	scheduler := newTestScheduler(time.Minute)

	result, err := scheduler.Schedule(input)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(milp.Optimal))
	g.Expect(scheduler.Verify(result, input)).To(BeTrue())

	byPark := lo.SliceToMap(result.Assignments, func(assignment Assignment) (string, time.Time) {
		return assignment.Park, assignment.Day
	})
	g.Expect(byPark["Riverland"].Equal(testDay(2))).To(BeTrue())
	g.Expect(byPark["Lakeside"].Equal(testDay(1))).To(BeTrue())
	g.Expect(byPark["Dunewalk"].Equal(testDay(0))).To(BeTrue())
}

func TestScheduleDemandingPair(t *testing.T) {
	t.Run("forced onto consecutive days", func(t *testing.T) {
		g := NewWithT(t)
		parks, companies := soloParks("Riverland", "Lakeside")
		parks[0].Demanding = true
		parks[1].Demanding = true
		input := ScheduleInput{Days: testCalendar(2), Parks: parks, Companies: companies}
		scheduler := newTestScheduler(time.Minute)

		result, err := scheduler.Schedule(input)

		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(result.Status).To(Equal(milp.Optimal))
		g.Expect(result.Objective).To(BeNumerically("==", PenaltyConsecutive))
		g.Expect(result.Violations).To(HaveLen(1))
		g.Expect(result.Violations[0].Rule).To(Equal(RuleConsecutiveDemanding))
		g.Expect(scheduler.Verify(result, input)).To(BeTrue())
	})

	t.Run("spare day avoids the penalty", func(t *testing.T) {
		g := NewWithT(t)
		parks, companies := soloParks("Riverland", "Lakeside")
		parks[0].Demanding = true
		parks[1].Demanding = true
		input := ScheduleInput{Days: testCalendar(3), Parks: parks, Companies: companies}
		scheduler := newTestScheduler(time.Minute)

		result, err := scheduler.Schedule(input)

		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(result.Status).To(Equal(milp.Optimal))
		g.Expect(result.Objective).To(BeNumerically("==", 0))
		g.Expect(result.Violations).To(BeEmpty())

		// the two demanding parks must sit two days apart on a 3-day calendar
		g.Expect(result.Assignments).To(HaveLen(2))
		g.Expect(spanDays(result.Assignments[0].Day, result.Assignments[1].Day)).To(Equal(3))
	})
}

func TestScheduleCompanyWindowOverrun(t *testing.T) {
	g := NewWithT(t)
	// the Aurora pair is pinned to the calendar edges, overrunning its 2-day
	// window; the penalty is unavoidable and must be reported
	parks := []Park{
		{Name: "Riverland", Company: "Aurora", ForbiddenDays: []time.Time{testDay(1), testDay(2)}},
		{Name: "Lakeside", Company: "Aurora", ForbiddenDays: []time.Time{testDay(0), testDay(1)}},
		{Name: "Dunewalk", Company: "Borealis"},
	}
	companies := []Company{
		{Name: "Aurora", WindowDays: 2},
		{Name: "Borealis", WindowDays: 30},
	}
	input := ScheduleInput{Days: testCalendar(3), Parks: parks, Companies: companies}
	scheduler := newTestScheduler(time.Minute)

	result, err := scheduler.Schedule(input)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(milp.Optimal))
	g.Expect(result.Objective).To(BeNumerically("==", PenaltyWindow))
	g.Expect(result.Violations).To(HaveLen(1))
	g.Expect(result.Violations[0].Rule).To(Equal(RuleCompanyWindow))
	g.Expect(result.Violations[0].Parks).To(Equal([]string{"Riverland", "Lakeside"}))
}

func TestSchedulePreferredDays(t *testing.T) {
	g := NewWithT(t)
	parks, companies := soloParks("Riverland", "Lakeside")
	parks[0].PreferredDays = []time.Time{testDay(1)}
	input := ScheduleInput{Days: testCalendar(2), Parks: parks, Companies: companies}
	scheduler := newTestScheduler(time.Minute)

	result, err := scheduler.Schedule(input)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Objective).To(BeNumerically("==", 0))

	byPark := lo.SliceToMap(result.Assignments, func(assignment Assignment) (string, time.Time) {
		return assignment.Park, assignment.Day
	})
	g.Expect(byPark["Riverland"].Equal(testDay(1))).To(BeTrue())
}

func TestScheduleTimeLimit(t *testing.T) {
	g := NewWithT(t)
	// an instance far too large to enumerate: the backend must stop on the
	// deadline and hand back its best incumbent
	windows := []int{7, 14, 5}
	parks := []Park{}
	companies := []Company{}
	for c, window := range windows {
		companies = append(companies, Company{Name: fmt.Sprintf("Company %d", c), WindowDays: window})
	}
	for p := 0; p < 10; p++ {
		parks = append(parks, Park{
			Name:      fmt.Sprintf("Park %d", p),
			Company:   fmt.Sprintf("Company %d", p%3),
			Demanding: p < 6,
		})
	}
	input := ScheduleInput{Days: testCalendar(13), Parks: parks, Companies: companies}
	scheduler := newTestScheduler(20 * time.Millisecond)

	result, err := scheduler.Schedule(input)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(milp.TimedOut))
	if len(result.Assignments) > 0 {
		g.Expect(scheduler.Verify(result, input)).To(BeTrue())
	}
}

func TestScheduleConfigurationError(t *testing.T) {
	g := NewWithT(t)
	input := ScheduleInput{Days: testCalendar(2)}

	_, err := newTestScheduler(time.Minute).Schedule(input)

	var configErr *ConfigurationError
	g.Expect(err).To(HaveOccurred())
	g.Expect(errors.As(err, &configErr)).To(BeTrue())
}

func TestVerifyRejectsBrokenSchedules(t *testing.T) {
	g := NewWithT(t)
	parks, companies := soloParks("Riverland", "Lakeside")
	parks[0].ForbiddenDays = []time.Time{testDay(0)}
	input := ScheduleInput{Days: testCalendar(2), Parks: parks, Companies: companies}
	scheduler := newTestScheduler(time.Minute)

	cases := map[string]ScheduleResult{
		"missing park": {Assignments: []Assignment{
			{Day: testDay(0), Park: "Lakeside"},
		}},
		"duplicated park": {Assignments: []Assignment{
			{Day: testDay(0), Park: "Lakeside"},
			{Day: testDay(1), Park: "Lakeside"},
		}},
		"shared day": {Assignments: []Assignment{
			{Day: testDay(0), Park: "Lakeside"},
			{Day: testDay(0), Park: "Riverland"},
		}},
		"forbidden day": {Assignments: []Assignment{
			{Day: testDay(0), Park: "Riverland"},
			{Day: testDay(1), Park: "Lakeside"},
		}},
		"day outside the calendar": {Assignments: []Assignment{
			{Day: testDay(5), Park: "Riverland"},
			{Day: testDay(1), Park: "Lakeside"},
		}},
	}
	for name, result := range cases {
		g.Expect(scheduler.Verify(result, input)).To(BeFalse(), name)
	}

	g.Expect(scheduler.Verify(ScheduleResult{Assignments: []Assignment{
		{Day: testDay(1), Park: "Riverland"},
		{Day: testDay(0), Park: "Lakeside"},
	}}, input)).To(BeTrue())
}
