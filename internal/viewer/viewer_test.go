package viewer

import (
	"reflect"
	"testing"

	"github.com/vesaa/hostwatch/internal/models"
)

func sample() []models.Record {
	return []models.Record{
		{ID: 1, Timestamp: "2024-01-01 00:00:00", CPU: 10, Memory: 20, Disk: 30, PingStatus: models.PingUp, PingMS: 12.3},
		{ID: 2, Timestamp: "2024-01-01 00:00:10", CPU: 90, Memory: 80, Disk: 70, PingStatus: models.PingDown, PingMS: -1},
		{ID: 3, Timestamp: "2024-01-01 00:00:20", CPU: 50, Memory: 50, Disk: 50, PingStatus: models.PingUp, PingMS: 8},
		{ID: 4, Timestamp: "2024-01-01 00:00:30", CPU: 40, Memory: 45, Disk: 55, PingStatus: models.PingUp, PingMS: 9},
		{ID: 5, Timestamp: "2024-01-01 00:00:40", CPU: 30, Memory: 35, Disk: 60, PingStatus: models.PingDown, PingMS: -1},
		{ID: 6, Timestamp: "2024-01-01 00:00:50", CPU: 20, Memory: 25, Disk: 65, PingStatus: models.PingUp, PingMS: 7},
	}
}

func ids(rs []models.Record) []uint {
	out := make([]uint, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestLatest(t *testing.T) {
	tests := []struct {
		n    int
		want []uint
	}{
		{5, []uint{6, 5, 4, 3, 2}},
		{1, []uint{6}},
		{10, []uint{6, 5, 4, 3, 2, 1}},
		{0, []uint{}},
	}
	for _, tt := range tests {
		if got := ids(Latest(sample(), tt.n)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Latest(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestLatestDoesNotReorderInput(t *testing.T) {
	in := sample()
	Latest(in, 3)
	if ids(in)[0] != 1 {
		t.Error("Latest mutated its input")
	}
}

func TestFilter(t *testing.T) {
	all := sample()
	if got := Filter(all, AllStatuses); !reflect.DeepEqual(got, all) {
		t.Errorf("Filter(All) is not the identity")
	}
	if got := Filter(all, ""); !reflect.DeepEqual(got, all) {
		t.Errorf("Filter(\"\") is not the identity")
	}
	if got := ids(Filter(all, "DOWN")); !reflect.DeepEqual(got, []uint{2, 5}) {
		t.Errorf("Filter(DOWN) = %v", got)
	}
	if got := ids(Filter(all, "UP")); !reflect.DeepEqual(got, []uint{1, 3, 4, 6}) {
		t.Errorf("Filter(UP) = %v", got)
	}
	// Exact match only.
	if got := Filter(all, "up"); len(got) != 0 {
		t.Errorf("Filter(up) = %v, want none", ids(got))
	}
}

func TestStatusOptions(t *testing.T) {
	if got := StatusOptions(sample()); !reflect.DeepEqual(got, []string{"All", "DOWN", "UP"}) {
		t.Errorf("StatusOptions = %v", got)
	}
	if got := StatusOptions(nil); !reflect.DeepEqual(got, []string{"All"}) {
		t.Errorf("StatusOptions(nil) = %v", got)
	}
}

func TestSeries(t *testing.T) {
	in := Newest(sample())
	s := Series(in)
	if len(s.CPU) != 6 || len(s.Memory) != 6 || len(s.Disk) != 6 {
		t.Fatalf("series lengths %d/%d/%d", len(s.CPU), len(s.Memory), len(s.Disk))
	}
	if s.CPU[0] != (Point{"2024-01-01 00:00:00", 10}) {
		t.Errorf("CPU[0] = %+v", s.CPU[0])
	}
	if s.Disk[5] != (Point{"2024-01-01 00:00:50", 65}) {
		t.Errorf("Disk[5] = %+v", s.Disk[5])
	}
	if s.Memory[1].Value != 80 {
		t.Errorf("Memory[1] = %+v", s.Memory[1])
	}
}

func TestChart(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   string
	}{
		{"empty", nil, ""},
		{"single", []Point{{"t", 50}}, "0,50.0 200.0,50.0"},
		{"two", []Point{{"a", 0}, {"b", 100}}, "0.0,100.0 200.0,0.0"},
		{"clamped", []Point{{"a", -5}, {"b", 150}, {"c", 25}}, "0.0,100.0 100.0,0.0 200.0,75.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Chart(tt.points, 200, 100); got != tt.want {
				t.Errorf("Chart() = %q, want %q", got, tt.want)
			}
		})
	}
}
