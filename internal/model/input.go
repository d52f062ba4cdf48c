package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// DateLayout is the calendar-day format used across inputs and reports.
const DateLayout = "2006-01-02"

// Park is one activity to place on the calendar. Day references must fall
// inside ScheduleInput.Days.
type Park struct {
	Name      string
	Company   string
	Demanding bool
	// days on which the park cannot be visited at all
	ForbiddenDays []time.Time `mapstructure:"forbiddenDays"`
	// the single day the park must be visited on, if any
	RequiredDay *time.Time `mapstructure:"requiredDay"`
	// days to keep clear of, enforced with the same strength as ForbiddenDays
	AvoidDays []time.Time `mapstructure:"avoidDays"`
	// days the visit should ideally land on; missing all of them is penalized
	PreferredDays []time.Time `mapstructure:"preferredDays"`
}

// Company groups parks under one ticket bundle. WindowDays is the inclusive
// day span within which all of the company's parks should be visited.
type Company struct {
	Name       string
	WindowDays int `mapstructure:"windowDays"`
}

// ScheduleInput is the full problem description. Days must be contiguous and
// strictly increasing; construction of the data is owned by the caller.
type ScheduleInput struct {
	Days      []time.Time
	Parks     []Park
	Companies []Company
}

// Calendar returns every day from first to last inclusive.
func Calendar(first, last time.Time) []time.Time {
	days := []time.Time{}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// InputFromJSON decodes a ScheduleInput from a JSON file; dates are plain
// "2006-01-02" strings.
func InputFromJSON(file string) (ScheduleInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ScheduleInput{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ScheduleInput{}, fmt.Errorf("cannot parse input file: %w", err)
	}

	var input ScheduleInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(DateLayout),
		Result:     &input,
	})
	if err != nil {
		return ScheduleInput{}, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return ScheduleInput{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return input, nil
}

// spanDays is the inclusive day span between two calendar days: consecutive
// days span 2.
func spanDays(first, second time.Time) int {
	return int(second.Sub(first).Hours()/24) + 1
}

func containsDay(days []time.Time, target time.Time) bool {
	return lo.SomeBy(days, func(day time.Time) bool { return day.Equal(target) })
}
