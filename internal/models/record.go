// Package models defines the persisted record type for HostWatch.
package models

import "fmt"

// TimestampLayout is the local-time format stored in system_log.timestamp.
// Fixed zero padding keeps lexicographic and chronological order identical.
const TimestampLayout = "2006-01-02 15:04:05"

// NoLatency is stored in ping_ms when no valid round-trip time is known.
const NoLatency = -1.0

// PingStatus is the reachability outcome of a single probe.
type PingStatus string

const (
	PingUp   PingStatus = "UP"
	PingDown PingStatus = "DOWN"
)

// Record is one sample of host utilization and reachability.
// Rows are append-only; nothing in HostWatch updates or deletes them.
type Record struct {
	ID         uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Timestamp  string     `gorm:"column:timestamp" json:"timestamp"`
	CPU        float64    `gorm:"column:cpu" json:"cpu"`       // percent 0-100
	Memory     float64    `gorm:"column:memory" json:"memory"` // percent 0-100
	Disk       float64    `gorm:"column:disk" json:"disk"`     // percent 0-100
	PingStatus PingStatus `gorm:"column:ping_status" json:"ping_status"`
	PingMS     float64    `gorm:"column:ping_ms" json:"ping_ms"`
}

// TableName pins the table to system_log, the file's compatibility contract.
func (Record) TableName() string { return "system_log" }

// Tuple renders the record the way the collector reports it on the console.
func (r Record) Tuple() string {
	return fmt.Sprintf("(%s, %v, %v, %v, %s, %v)",
		r.Timestamp, r.CPU, r.Memory, r.Disk, r.PingStatus, r.PingMS)
}
