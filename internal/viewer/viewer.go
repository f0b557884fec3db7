// Package viewer derives the dashboard's views from the full record history.
// Every function is pure; callers reload the history for each render.
package viewer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vesaa/hostwatch/internal/models"
)

// AllStatuses is the filter value that keeps every record.
const AllStatuses = "All"

// Point is one value of a metric at a timestamp.
type Point struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// SeriesSet holds one time series per utilization metric, oldest first.
type SeriesSet struct {
	CPU    []Point `json:"cpu"`
	Memory []Point `json:"memory"`
	Disk   []Point `json:"disk"`
}

// Newest returns a copy of records sorted newest first. Rows sharing a
// timestamp keep their input order.
func Newest(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// Latest returns at most n records, newest first.
func Latest(records []models.Record, n int) []models.Record {
	if n <= 0 {
		return []models.Record{}
	}
	out := Newest(records)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Filter keeps records whose ping_status equals status exactly.
// "All" and the empty string return records unchanged.
func Filter(records []models.Record, status string) []models.Record {
	if status == "" || status == AllStatuses {
		return records
	}
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if string(r.PingStatus) == status {
			out = append(out, r)
		}
	}
	return out
}

// StatusOptions returns "All" followed by the distinct observed statuses, sorted.
func StatusOptions(records []models.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.PingStatus != "" {
			seen[string(r.PingStatus)] = struct{}{}
		}
	}
	statuses := make([]string, 0, len(seen))
	for s := range seen {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	return append([]string{AllStatuses}, statuses...)
}

// Series splits records into per-metric time series in chronological order.
func Series(records []models.Record) SeriesSet {
	asc := make([]models.Record, len(records))
	copy(asc, records)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].Timestamp < asc[j].Timestamp
	})

	set := SeriesSet{
		CPU:    make([]Point, 0, len(asc)),
		Memory: make([]Point, 0, len(asc)),
		Disk:   make([]Point, 0, len(asc)),
	}
	for _, r := range asc {
		set.CPU = append(set.CPU, Point{r.Timestamp, r.CPU})
		set.Memory = append(set.Memory, Point{r.Timestamp, r.Memory})
		set.Disk = append(set.Disk, Point{r.Timestamp, r.Disk})
	}
	return set
}

// Chart returns SVG polyline points for a series drawn in a width x height
// box on a fixed 0-100 percent scale. A single point is drawn as a flat line.
func Chart(points []Point, width, height float64) string {
	if len(points) == 0 {
		return ""
	}
	y := func(v float64) float64 {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		return height - v/100*height
	}
	if len(points) == 1 {
		yy := y(points[0].Value)
		return fmt.Sprintf("0,%.1f %.1f,%.1f", yy, width, yy)
	}

	step := width / float64(len(points)-1)
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.1f,%.1f", float64(i)*step, y(p.Value))
	}
	return strings.Join(parts, " ")
}
