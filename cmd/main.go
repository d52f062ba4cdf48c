package main

import (
	"fmt"
	"log"
	"time"

	"github.com/educurcio/park-scheduler/internal/milp"
	"github.com/educurcio/park-scheduler/internal/model"
)

const SolveTimeLimit = 300 * time.Second

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Orlando trip, September 2022: ten parks across three ticket bundles on a
// thirteen-day calendar.
func tripInput() model.ScheduleInput {
	weekends := []time.Time{
		date(2022, time.September, 17), date(2022, time.September, 18),
		date(2022, time.September, 24), date(2022, time.September, 25),
	}

	discoveryCoveDay := date(2022, time.September, 20)

	return model.ScheduleInput{
		Days: model.Calendar(date(2022, time.September, 16), date(2022, time.September, 28)),
		Parks: []model.Park{
			{Name: "Magic Kingdom", Company: "Disney", Demanding: true,
				AvoidDays: append(append([]time.Time{}, weekends...), date(2022, time.September, 19), date(2022, time.September, 26))},
			{Name: "Animal Kingdom", Company: "Disney", AvoidDays: weekends},
			{Name: "Epcot", Company: "Disney", Demanding: true, AvoidDays: weekends},
			{Name: "Hollywood Studios", Company: "Disney", Demanding: true, AvoidDays: weekends},
			{Name: "Universal Islands of Adventure", Company: "Universal", Demanding: true, AvoidDays: weekends},
			{Name: "Universal Studios", Company: "Universal", Demanding: true, AvoidDays: weekends},
			{Name: "Aquatica", Company: "Sea World"},
			{Name: "Busch gardens", Company: "Sea World", Demanding: true, AvoidDays: weekends},
			{Name: "Sea World", Company: "Sea World", AvoidDays: weekends},
			{Name: "Discovery Cove", Company: "Sea World", RequiredDay: &discoveryCoveDay, AvoidDays: weekends},
		},
		Companies: []model.Company{
			{Name: "Disney", WindowDays: 7},
			{Name: "Sea World", WindowDays: 14},
			{Name: "Universal", WindowDays: 5},
		},
	}
}

func main() {
	input := tripInput()

	solver := milp.NewCBCSolver()
	// solver := milp.NewGLPKSolver()
	scheduler := model.NewScheduler(solver, SolveTimeLimit)

	result, err := scheduler.Schedule(input)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Status: %v\n", result.Status)
	switch result.Status {
	case milp.Infeasible:
		fmt.Println("No schedule satisfies the hard rules")
		return
	case milp.NotSolved:
		fmt.Println("The solver produced no usable solution")
		return
	}

	fmt.Printf("Total penalty: %v\n", result.Objective)
	for _, assignment := range result.Assignments {
		fmt.Printf("%v - %v\n", assignment.Day.Format(model.DateLayout), assignment.Park)
	}
	for _, violation := range result.Violations {
		fmt.Printf("violated %v\n", violation)
	}

	if !scheduler.Verify(result, input) {
		log.Fatal("Verification failed")
	}
}
