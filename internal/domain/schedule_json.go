package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// MarshalJSON encodes the schedule as an object keyed by lowercase weekday
// names, the shape stored in jsonb and exchanged over HTTP.
func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := make(map[string]DaySchedule, len(s))
	for day, entry := range s {
		out[strings.ToLower(day.String())] = entry
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the weekday-name keyed object form.
func (s *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]DaySchedule
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(WeeklySchedule, len(raw))
	for name, entry := range raw {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown weekday %q", name)
		}
		out[day] = entry
	}
	*s = out
	return nil
}
