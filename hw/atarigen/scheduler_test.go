package atarigen

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchedulerOrder(t *testing.T) {
	s := NewScheduler(10)
	var got []string
	record := func(name string) func(int) {
		return func(line int) { got = append(got, fmt.Sprintf("%s@%d:%d", name, s.Frame(), line)) }
	}

	s.At(7, "a", record("a"))
	s.At(2, "b", record("b"))
	s.At(2, "c", record("c")) // same line: insertion order
	s.After(12, "d", record("d"))
	e := s.At(5, "cancelled", record("x"))
	s.Cancel(e)
	s.Cancel(e)

	for range 15 {
		s.Tick()
	}
	want := []string{"b@0:2", "c@0:2", "a@0:7", "d@1:2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fire order mismatch (-want +got):\n%s", diff)
	}
	if s.Pending() != 0 {
		t.Errorf("%d events left", s.Pending())
	}
}

func TestSchedulerWraps(t *testing.T) {
	s := NewScheduler(10)
	for range 8 {
		s.Tick()
	}
	var got []uint64
	// Line 3 already passed: next frame. Line 7 is the current one: next frame too.
	s.At(3, "past", func(int) { got = append(got, s.Now()) })
	s.At(7, "current", func(int) { got = append(got, s.Now()) })
	s.At(9, "future", func(int) { got = append(got, s.Now()) })
	for range 12 {
		s.Tick()
	}
	want := []uint64{9, 13, 17}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("wrap mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedulerEveryAndChain(t *testing.T) {
	s := NewScheduler(10)
	var got []int
	s.Every(4, 5, "every", func(line int) { got = append(got, line) })
	s.At(0, "chain", func(int) {
		// Scheduled for the current line: fires within the same tick.
		s.After(0, "now", func(line int) { got = append(got, 100+line) })
	})
	for range 20 {
		s.Tick()
	}
	want := []int{100, 4, 9, 4, 9}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("periodic mismatch (-want +got):\n%s", diff)
	}
}

func TestScanlineTimer(t *testing.T) {
	p, _ := newTestPlatform(t)

	var got []int
	resets := 0
	p.OnFrameStart(func() { resets++ })
	p.ScanlineTimerReset(func(scanline int) { got = append(got, scanline) }, 64)

	runLines(p, 2*262)
	want := []int{0, 64, 128, 192, 256, 0, 64, 128, 192, 256}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("scanline updates mismatch (-want +got):\n%s", diff)
	}
	if resets != 2 {
		t.Errorf("frame resets = %d, want 2", resets)
	}

	// Re-arming replaces the previous timer.
	got = nil
	p.ScanlineTimerReset(func(scanline int) { got = append(got, -scanline) }, 128)
	runLines(p, 262)
	want = []int{0, -128, -256}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("re-armed updates mismatch (-want +got):\n%s", diff)
	}
}
