package observ

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func fakeClock(tm *Timer) *time.Time {
	clock := time.Unix(0, 0)
	tm.now = func() time.Time { return clock }
	return &clock
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer("a.yaml")
	clock := fakeClock(tm)

	decode := tm.Begin(PhaseDecode)
	*clock = clock.Add(2 * time.Millisecond)
	tm.Done(decode, "3 nodes")
	sema := tm.Begin(PhaseSema)
	*clock = clock.Add(500 * time.Microsecond)
	tm.Done(sema, "")
	tm.Done(42, "ignored")

	r := tm.Report()
	if r.Path != "a.yaml" || len(r.Phases) != 2 || r.TotalMS != 2.5 || r.Failed != "" {
		t.Fatalf("report %+v", r)
	}
	if r.Phases[0].Note != "3 nodes" || r.Phases[1].DurationMS != 0.5 {
		t.Fatalf("phases %+v", r.Phases)
	}
	want := "a.yaml: decode 2.00 ms (3 nodes), sema 0.50 ms; total 2.50 ms"
	if got := tm.Summary(); got != want {
		t.Fatalf("summary\n got %q\nwant %q", got, want)
	}
}

func TestFailedDecodeSkipsSema(t *testing.T) {
	tm := NewTimer("")
	clock := fakeClock(tm)

	decode := tm.Begin(PhaseDecode)
	*clock = clock.Add(time.Millisecond)
	tm.Fail(decode, "malformed")
	tm.Skip(PhaseSema, "malformed input")

	r := tm.Report()
	if r.Failed != PhaseDecode || r.Phases[1].Status != StatusSkipped || r.Phases[1].DurationMS != 0 {
		t.Fatalf("report %+v", r)
	}
	want := "decode failed after 1.00 ms (malformed), sema skipped (malformed input); total 1.00 ms"
	if got := tm.Summary(); got != want {
		t.Fatalf("summary\n got %q\nwant %q", got, want)
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"status":"skipped"`) || !strings.Contains(string(data), `"failed":"decode"`) {
		t.Fatalf("json %s", data)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer("x").Report(); r.TotalMS != 0 || r.Phases != nil || r.Path != "x" {
		t.Fatalf("empty report %+v", r)
	}
}
