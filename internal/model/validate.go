package model

import (
	"time"

	"github.com/samber/lo"
)

// Validate checks a ScheduleInput before any model is built. The returned
// error is always a *ConfigurationError.
func Validate(input ScheduleInput) error {
	if len(input.Days) == 0 {
		return configErrorf("day range is empty")
	}
	for i := 1; i < len(input.Days); i++ {
		if spanDays(input.Days[i-1], input.Days[i]) != 2 {
			return configErrorf("days must be contiguous and strictly increasing: %v follows %v",
				input.Days[i].Format(DateLayout), input.Days[i-1].Format(DateLayout))
		}
	}
	if len(input.Parks) == 0 {
		return configErrorf("no parks to schedule")
	}

	companies := map[string]bool{}
	for _, company := range input.Companies {
		if companies[company.Name] {
			return configErrorf("duplicate company %q", company.Name)
		}
		companies[company.Name] = true
		if company.WindowDays <= 0 {
			return configErrorf("company %q has a non-positive grouping window", company.Name)
		}
	}

	parks := map[string]bool{}
	for _, park := range input.Parks {
		if parks[park.Name] {
			return configErrorf("duplicate park %q", park.Name)
		}
		parks[park.Name] = true

		if !companies[park.Company] {
			return configErrorf("park %q references unknown company %q", park.Name, park.Company)
		}
		if err := validateDayReferences(input.Days, park); err != nil {
			return err
		}
		if park.RequiredDay != nil {
			if containsDay(park.ForbiddenDays, *park.RequiredDay) {
				return configErrorf("park %q requires day %v which is also forbidden",
					park.Name, park.RequiredDay.Format(DateLayout))
			}
			if containsDay(park.AvoidDays, *park.RequiredDay) {
				return configErrorf("park %q requires day %v which is also avoided",
					park.Name, park.RequiredDay.Format(DateLayout))
			}
		}
	}

	for _, company := range input.Companies {
		if !lo.SomeBy(input.Parks, func(park Park) bool { return park.Company == company.Name }) {
			return configErrorf("company %q has no parks", company.Name)
		}
	}
	return nil
}

func validateDayReferences(days []time.Time, park Park) error {
	references := [][]time.Time{park.ForbiddenDays, park.AvoidDays, park.PreferredDays}
	if park.RequiredDay != nil {
		references = append(references, []time.Time{*park.RequiredDay})
	}
	for _, reference := range references {
		for _, day := range reference {
			if !containsDay(days, day) {
				return configErrorf("park %q references day %v outside the calendar",
					park.Name, day.Format(DateLayout))
			}
		}
	}
	return nil
}
