package timing

import (
	"strings"
	"testing"
	"time"
)

func TestStopwatch_Laps(t *testing.T) {
	sw := New()
	if sw.Running() {
		t.Fatal("new stopwatch should be stopped")
	}
	if r := sw.Stop(); r != (Reading{}) {
		t.Errorf("Stop on stopped stopwatch = %+v, want zero", r)
	}

	sw.Start()
	time.Sleep(2 * time.Millisecond)
	first := sw.Stop()
	if first.Wall < 2*time.Millisecond {
		t.Errorf("first lap wall = %v, want >= 2ms", first.Wall)
	}
	if first.CPU < 0 {
		t.Errorf("negative CPU time %v", first.CPU)
	}

	sw.Start()
	second := sw.Stop()

	if sw.Laps() != 2 {
		t.Errorf("Laps() = %d, want 2", sw.Laps())
	}
	if sw.Last() != second {
		t.Errorf("Last() = %+v, want %+v", sw.Last(), second)
	}
	total := sw.Total()
	if total.Wall != first.Wall+second.Wall || total.CPU != first.CPU+second.CPU {
		t.Errorf("Total() = %+v, want sum of laps", total)
	}
}

func TestStopwatch_CPUBusyLoop(t *testing.T) {
	sw := New()
	sw.Start()
	deadline := time.Now().Add(20 * time.Millisecond)
	x := 0
	for time.Now().Before(deadline) {
		x++
	}
	r := sw.Stop()
	if x == 0 || r.Wall < 20*time.Millisecond {
		t.Fatalf("busy loop did not run: wall %v", r.Wall)
	}
	if r.CPU > r.Wall*time.Duration(64) {
		t.Errorf("CPU time %v implausibly larger than wall %v", r.CPU, r.Wall)
	}
}

func TestStopwatch_ResetAndString(t *testing.T) {
	sw := New()
	sw.Start()
	sw.Stop()
	if !strings.HasPrefix(sw.String(), "1 laps; Elapsed CPU Time: ") {
		t.Errorf("String() = %q", sw.String())
	}

	sw.Reset()
	if sw.Laps() != 0 || sw.Total() != (Reading{}) || sw.Running() {
		t.Error("Reset should clear the stopwatch")
	}
}
