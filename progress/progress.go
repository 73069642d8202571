// Package progress defines the progress-reporting collaborator notified by
// long binning scans.
//
// Reporters are purely observational: they never influence a scan's output.
// The zero-cost Nop reporter is the default wherever a Reporter is optional;
// LogReporter emits coarse structured-log milestones for interactive use.
package progress

import "log/slog"

// Reporter receives progress notifications from a scan.
type Reporter interface {
	// Start announces the total number of steps about to be processed.
	Start(total int)
	// Increment records one completed step.
	Increment()
	// Finish announces that processing completed.
	Finish()
}

// Nop returns a Reporter that discards all notifications.
func Nop() Reporter {
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) Start(int)  {}
func (nopReporter) Increment() {}
func (nopReporter) Finish()    {}

// LogReporter reports scan progress through a slog.Logger: one entry at
// start, one at every 10% milestone, one at finish.
//
// A LogReporter belongs to a single scan at a time; it is not safe for
// concurrent use.
type LogReporter struct {
	logger *slog.Logger
	label  string

	total int
	done  int
	step  int
	next  int
}

// NewLogReporter creates a reporter logging under the given label.
// A nil logger falls back to slog.Default().
func NewLogReporter(logger *slog.Logger, label string) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogReporter{logger: logger, label: label}
}

// Start resets the reporter for a scan of total steps.
func (r *LogReporter) Start(total int) {
	r.total = total
	r.done = 0
	r.step = max(total/10, 1)
	r.next = r.step

	r.logger.Info("scan started", "label", r.label, "total", total)
}

// Increment records one completed step, logging when a milestone is crossed.
func (r *LogReporter) Increment() {
	r.done++
	if r.done < r.next || r.total <= 0 {
		return
	}

	r.logger.Info("scan progress",
		"label", r.label,
		"done", r.done,
		"total", r.total,
		"percent", r.done*100/r.total,
	)
	r.next += r.step
}

// Finish logs scan completion.
func (r *LogReporter) Finish() {
	r.logger.Info("scan finished", "label", r.label, "processed", r.done)
}
