package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var weekdayCodes = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// WeekdayCode returns the three-letter upper-case code for wd, e.g. "MON".
func WeekdayCode(wd time.Weekday) string {
	return weekdayCodes[int(wd)%7]
}

// ParseWeekday parses a weekday code or name. Accepts "mon", "MON",
// "monday" and so on.
func ParseWeekday(s string) (time.Weekday, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if len(v) >= 3 {
		for i, code := range weekdayCodes {
			if strings.HasPrefix(v, code) {
				return time.Weekday(i), nil
			}
		}
	}
	return 0, fmt.Errorf("invalid weekday %q (use MON, TUE, WED, THU, FRI, SAT, SUN)", s)
}

// ParseWeekdays parses a comma or space separated weekday list, e.g.
// "mon,wed,fri". Duplicates are removed and the result is sorted Sunday first.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	seen := make(map[time.Weekday]bool, len(fields))
	var days []time.Weekday
	for _, f := range fields {
		wd, err := ParseWeekday(f)
		if err != nil {
			return nil, err
		}
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days, nil
}

// FormatWeekdays joins weekdays as codes, e.g. "MON, WED, FRI".
func FormatWeekdays(days []time.Weekday) string {
	codes := make([]string, len(days))
	for i, wd := range days {
		codes[i] = WeekdayCode(wd)
	}
	return strings.Join(codes, ", ")
}
