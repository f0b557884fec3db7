package agent

import (
	"bufio"
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/vesaa/hostwatch/internal/models"
)

// Prober checks reachability of a host.
type Prober interface {
	Probe(ctx context.Context, host string) (models.PingStatus, float64)
}

// CommandRunner runs an external program and returns its stdout.
// A non-nil error means the program could not run or exited non-zero.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec, discarding stderr.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PingProber sends a single echo request with the platform ping utility.
type PingProber struct {
	Run     CommandRunner
	Timeout time.Duration // 0 leaves the utility's own timeout in charge
	GOOS    string
}

// NewPingProber creates a prober that shells out to ping with the given timeout.
func NewPingProber(timeout time.Duration) *PingProber {
	return &PingProber{Run: ExecRunner, Timeout: timeout, GOOS: runtime.GOOS}
}

// Probe returns (DOWN, -1) on any failure of the ping process: non-zero exit,
// timeout, missing binary or permission error all look the same. On success
// the status is UP and the latency is whatever ParsePingTime finds, which may
// itself be -1.
func (p *PingProber) Probe(ctx context.Context, host string) (models.PingStatus, float64) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	run := p.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, "ping", pingArgs(p.GOOS, host)...)
	if err != nil {
		return models.PingDown, models.NoLatency
	}
	return models.PingUp, ParsePingTime(string(out))
}

// pingArgs builds a one-packet ping invocation.
func pingArgs(goos, host string) []string {
	count := "-c"
	if goos == "windows" {
		count = "-n"
	}
	return []string{count, "1", host}
}

// ParsePingTime returns the value after the first "time=" marker in ping
// output, or -1 when the marker is missing or not followed by a number.
func ParsePingTime(output string) float64 {
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		_, after, found := strings.Cut(sc.Text(), "time=")
		if !found {
			continue
		}
		fields := strings.Fields(after)
		if len(fields) == 0 {
			return models.NoLatency
		}
		ms, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return models.NoLatency
		}
		return ms
	}
	return models.NoLatency
}
