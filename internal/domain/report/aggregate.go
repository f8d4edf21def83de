package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
)

// TrendWindow is how many of the most recent days the daily trend keeps.
const TrendWindow = 14

const all = "all"

// Filter selects records for a report. Empty or "all" fields match everything.
type Filter struct {
	Range      DateRange
	Department string
	UserType   string
	Status     string
}

func wildcard(v string) bool {
	return v == "" || v == all
}

func (f Filter) Matches(r attendance.Record) bool {
	if !f.Range.Contains(r.Date) {
		return false
	}
	if !wildcard(f.Department) && r.Department != f.Department {
		return false
	}
	if !wildcard(f.UserType) && string(r.UserType) != f.UserType {
		return false
	}
	if !wildcard(f.Status) && string(r.Status) != f.Status {
		return false
	}
	return true
}

// FilterRecords keeps the records matching f, preserving order.
func FilterRecords(records []attendance.Record, f Filter) []attendance.Record {
	out := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Percentage formats part/whole with one decimal, or "N/A" for an empty bucket.
func Percentage(part, whole int) string {
	if whole == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(whole))
}

type DailyTrendPoint struct {
	Date   string `json:"date"`
	Total  int    `json:"total"`
	Late   int    `json:"late"`
	OnTime int    `json:"onTime"`
}

type DepartmentStat struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Present    int    `json:"present"`
	Late       int    `json:"late"`
	Absent     int    `json:"absent"`
	OnTimeRate string `json:"onTimeRate"`
}

type StatusCount struct {
	Status     attendance.Status `json:"status"`
	Count      int               `json:"count"`
	Percentage string            `json:"percentage"`
}

type UserTypeStat struct {
	Type       user.Type `json:"type"`
	Count      int       `json:"count"`
	OnTime     int       `json:"onTime"`
	Late       int       `json:"late"`
	OnTimeRate string    `json:"onTimeRate"`
}

type OverallStats struct {
	TotalRecords    int    `json:"totalRecords"`
	LateArrivals    int    `json:"lateArrivals"`
	Overtime        int    `json:"overtime"`
	EarlyDepartures int    `json:"earlyDepartures"`
	AvgDuration     int    `json:"avgDuration"`
	LateRate        string `json:"lateRate"`
}

type Analytics struct {
	DailyTrend         []DailyTrendPoint `json:"dailyTrend"`
	DepartmentStats    []DepartmentStat  `json:"departmentStats"`
	StatusDistribution []StatusCount     `json:"statusDistribution"`
	UserTypeStats      []UserTypeStat    `json:"userTypeStats"`
	OverallStats       OverallStats      `json:"overallStats"`
}

// Aggregate groups records for analytics. departments seeds the department table so
// departments without records still appear; records from other departments are added
// after the seeded ones in order of first appearance.
func Aggregate(records []attendance.Record, departments ...string) Analytics {
	return Analytics{
		DailyTrend:         dailyTrend(records),
		DepartmentStats:    departmentStats(records, departments),
		StatusDistribution: statusDistribution(records),
		UserTypeStats:      userTypeStats(records),
		OverallStats:       overallStats(records),
	}
}

func dailyTrend(records []attendance.Record) []DailyTrendPoint {
	byDate := make(map[string]*DailyTrendPoint)
	for _, r := range records {
		p, ok := byDate[r.Date]
		if !ok {
			p = &DailyTrendPoint{Date: r.Date}
			byDate[r.Date] = p
		}
		p.Total++
		if r.IsLate {
			p.Late++
		} else {
			p.OnTime++
		}
	}

	points := make([]DailyTrendPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	if len(points) > TrendWindow {
		points = points[len(points)-TrendWindow:]
	}
	return points
}

func departmentStats(records []attendance.Record, seed []string) []DepartmentStat {
	order := make([]string, 0, len(seed))
	byDept := make(map[string]*DepartmentStat)
	add := func(dept string) *DepartmentStat {
		if s, ok := byDept[dept]; ok {
			return s
		}
		s := &DepartmentStat{Department: dept}
		byDept[dept] = s
		order = append(order, dept)
		return s
	}

	for _, d := range seed {
		add(d)
	}
	for _, r := range records {
		s := add(r.Department)
		s.Total++
		switch {
		case r.Status == attendance.StatusAbsent:
			s.Absent++
		case r.IsLate:
			s.Late++
		default:
			s.Present++
		}
	}

	out := make([]DepartmentStat, 0, len(order))
	for _, d := range order {
		s := byDept[d]
		s.OnTimeRate = Percentage(s.Present, s.Total)
		out = append(out, *s)
	}
	return out
}

func statusDistribution(records []attendance.Record) []StatusCount {
	counts := make(map[attendance.Status]int)
	for _, r := range records {
		counts[r.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for _, st := range attendance.AllStatuses() {
		if counts[st] == 0 {
			continue
		}
		out = append(out, StatusCount{
			Status:     st,
			Count:      counts[st],
			Percentage: Percentage(counts[st], len(records)),
		})
	}
	return out
}

func userTypeStats(records []attendance.Record) []UserTypeStat {
	stats := []UserTypeStat{
		{Type: user.TypeEmployee},
		{Type: user.TypeStudent},
	}
	for _, r := range records {
		for i := range stats {
			if stats[i].Type != r.UserType {
				continue
			}
			stats[i].Count++
			if r.IsLate {
				stats[i].Late++
			} else {
				stats[i].OnTime++
			}
		}
	}
	for i := range stats {
		stats[i].OnTimeRate = Percentage(stats[i].OnTime, stats[i].Count)
	}
	return stats
}

func overallStats(records []attendance.Record) OverallStats {
	var s OverallStats
	var durationSum, durationCount int

	s.TotalRecords = len(records)
	for _, r := range records {
		if r.IsLate {
			s.LateArrivals++
		}
		switch r.Status {
		case attendance.StatusOvertime:
			s.Overtime++
		case attendance.StatusEarlyDeparture:
			s.EarlyDepartures++
		}
		if d := r.DurationMinutes(); d > 0 {
			durationSum += d
			durationCount++
		}
	}

	if durationCount > 0 {
		s.AvgDuration = int(math.Round(float64(durationSum) / float64(durationCount)))
	}
	s.LateRate = Percentage(s.LateArrivals, s.TotalRecords)
	return s
}

type Summary struct {
	TotalRecords int `json:"totalRecords"`
	OnTime       int `json:"onTime"`
	Late         int `json:"late"`
	Overtime     int `json:"overtime"`
}

// Summarize counts the report summary block. OnTime counts status present only, so a
// punctual session that later turned into overtime is counted as overtime.
func Summarize(records []attendance.Record) Summary {
	s := Summary{TotalRecords: len(records)}
	for _, r := range records {
		if r.Status == attendance.StatusPresent {
			s.OnTime++
		}
		if r.IsLate {
			s.Late++
		}
		if r.Status == attendance.StatusOvertime {
			s.Overtime++
		}
	}
	return s
}
