package observ

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Phases of checking one document, in the order they run.
const (
	PhaseDecode = "decode"
	PhaseSema   = "sema"
)

// Status is how a phase ended.
type Status uint8

const (
	StatusOK Status = iota
	StatusFailed
	StatusSkipped
)

var statusNames = [...]string{
	StatusOK:      "ok",
	StatusFailed:  "failed",
	StatusSkipped: "skipped",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Phase is one step of a check. Skipped phases have no duration.
type Phase struct {
	Name   string
	Start  time.Time
	Dur    time.Duration
	Status Status
	Note   string
}

// Timer records the phases of checking one document. Not safe for
// concurrent use; every file of a run gets its own Timer.
type Timer struct {
	path   string
	phases []Phase
	now    func() time.Time
}

// NewTimer starts timing the document at path.
func NewTimer(path string) *Timer {
	return &Timer{path: path, phases: make([]Phase, 0, 2), now: time.Now}
}

// Begin starts a phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// Done closes phase idx as successful. Unknown indexes are ignored.
func (t *Timer) Done(idx int, note string) { t.finish(idx, StatusOK, note) }

// Fail closes phase idx as failed.
func (t *Timer) Fail(idx int, note string) { t.finish(idx, StatusFailed, note) }

// Skip records a phase that never ran.
func (t *Timer) Skip(name, reason string) {
	t.phases = append(t.phases, Phase{Name: name, Status: StatusSkipped, Note: reason})
}

func (t *Timer) finish(idx int, status Status, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Status = status
	p.Note = note
}

// PhaseReport is the serializable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Status     Status  `json:"status"`
	Note       string  `json:"note,omitempty"`
}

// Report is the timing of one document.
type Report struct {
	Path    string        `json:"path,omitempty"`
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	// Failed names the first phase that did not succeed.
	Failed string `json:"failed,omitempty"`
}

func (t *Timer) Report() Report {
	report := Report{Path: t.path}
	if len(t.phases) == 0 {
		return report
	}
	report.Phases = make([]PhaseReport, len(t.phases))
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{
			Name:       p.Name,
			DurationMS: millis(p.Dur),
			Status:     p.Status,
			Note:       p.Note,
		}
		if p.Status == StatusFailed && report.Failed == "" {
			report.Failed = p.Name
		}
	}
	report.TotalMS = millis(total)
	return report
}

// Summary renders the report on one line, e.g.
//
//	a.yaml: decode 1.20 ms (12 nodes), sema 0.40 ms (3 scopes); total 1.60 ms
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	if report.Path != "" {
		b.WriteString(report.Path + ": ")
	}
	for i, p := range report.Phases {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		switch p.Status {
		case StatusSkipped:
			b.WriteString(" skipped")
		case StatusFailed:
			fmt.Fprintf(&b, " failed after %.2f ms", p.DurationMS)
		default:
			fmt.Fprintf(&b, " %.2f ms", p.DurationMS)
		}
		if p.Note != "" {
			b.WriteString(" (" + p.Note + ")")
		}
	}
	fmt.Fprintf(&b, "; total %.2f ms", report.TotalMS)
	return b.String()
}

// Log writes one debug event per phase; failed phases are logged as warnings.
func (t *Timer) Log(logger zerolog.Logger) {
	for _, p := range t.phases {
		ev := logger.Debug()
		if p.Status == StatusFailed {
			ev = logger.Warn()
		}
		ev.Str("phase", p.Name).Stringer("status", p.Status).Dur("took", p.Dur).Str("note", p.Note).Msg("check phase")
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
