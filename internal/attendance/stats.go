package attendance

import "time"

// TrendPoint is one day on the attendance trend chart: unique students and
// faculty seen on campus that date.
type TrendPoint struct {
	Date     string `json:"date"`
	Students int    `json:"students"`
	Faculty  int    `json:"faculty"`
}

// DateRange returns the last n calendar dates ending at now, oldest first.
func DateRange(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, LocalDate(now.AddDate(0, 0, -i)))
	}
	return out
}

// BuildTrend groups logs by date, counting each person once per day. Logs
// outside the date window are ignored; department scoping happens before the
// call.
func BuildTrend(logs []Log, dates []string) []TrendPoint {
	type daySet struct {
		students map[string]bool
		faculty  map[string]bool
	}
	sets := make(map[string]*daySet, len(dates))
	for _, d := range dates {
		sets[d] = &daySet{students: map[string]bool{}, faculty: map[string]bool{}}
	}
	for _, l := range logs {
		s, ok := sets[l.Date]
		if !ok {
			continue
		}
		if l.Role == "faculty" {
			s.faculty[l.PersonID] = true
		} else {
			s.students[l.PersonID] = true
		}
	}
	out := make([]TrendPoint, 0, len(dates))
	for _, d := range dates {
		s := sets[d]
		out = append(out, TrendPoint{Date: d, Students: len(s.students), Faculty: len(s.faculty)})
	}
	return out
}

// FilterDept keeps logs whose department matches under the given normalizer
// (broad for HOD scoping). An empty want keeps everything.
func FilterDept(logs []Log, want string, norm func(string) string) []Log {
	if want == "" {
		return logs
	}
	target := norm(want)
	var out []Log
	for _, l := range logs {
		if norm(l.Dept) == target {
			out = append(out, l)
		}
	}
	return out
}
