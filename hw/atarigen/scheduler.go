package atarigen

import (
	"slices"
)

// Event is a pending scheduler entry.
type Event struct {
	Name   string
	due    uint64
	seq    uint64
	period int
	fn     func(scanline int)
	dead   bool
}

// Due returns the absolute line number the event fires at.
func (e *Event) Due() uint64 { return e.due }

// Scheduler fires callbacks on scanline boundaries. Time is counted in
// absolute lines since reset, so entries keep firing in scanline order
// across frame boundaries.
type Scheduler struct {
	total   int
	now     uint64
	started bool
	seq     uint64
	events  []*Event
}

func NewScheduler(totalLines int) *Scheduler {
	return &Scheduler{total: totalLines}
}

func (s *Scheduler) Reset() {
	s.now = 0
	s.started = false
	s.events = s.events[:0]
}

// TotalLines returns the number of lines in a frame.
func (s *Scheduler) TotalLines() int { return s.total }

// Line returns the current scanline.
func (s *Scheduler) Line() int { return int(s.now % uint64(s.total)) }

// Frame returns the number of the current frame.
func (s *Scheduler) Frame() uint64 { return s.now / uint64(s.total) }

// Now returns the absolute current line.
func (s *Scheduler) Now() uint64 { return s.now }

// Pending returns the number of scheduled events.
func (s *Scheduler) Pending() int { return len(s.events) }

func (s *Scheduler) insert(e *Event) *Event {
	e.seq = s.seq
	s.seq++
	i, _ := slices.BinarySearchFunc(s.events, e, func(a, b *Event) int {
		switch {
		case a.due < b.due:
			return -1
		case a.due > b.due:
			return 1
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	s.events = slices.Insert(s.events, i, e)
	return e
}

// next returns the first absolute line strictly in the future (or the
// current one, before the first Tick) that falls on scanline.
func (s *Scheduler) next(scanline int) uint64 {
	total := uint64(s.total)
	line := uint64(scanline) % total
	base := s.now - s.now%total
	t := base + line
	if t < s.now || (t == s.now && s.started) {
		t += total
	}
	return t
}

// At schedules a one-shot call at the next occurrence of scanline.
func (s *Scheduler) At(scanline int, name string, fn func(scanline int)) *Event {
	return s.insert(&Event{Name: name, due: s.next(scanline), fn: fn})
}

// After schedules a one-shot call n lines from now.
func (s *Scheduler) After(n int, name string, fn func(scanline int)) *Event {
	return s.insert(&Event{Name: name, due: s.now + uint64(max(n, 0)), fn: fn})
}

// Every schedules fn at the next occurrence of scanline, and then every
// period lines.
func (s *Scheduler) Every(scanline, period int, name string, fn func(scanline int)) *Event {
	return s.insert(&Event{Name: name, due: s.next(scanline), period: period, fn: fn})
}

// Cancel removes a scheduled event. Cancelling a fired or cancelled event is
// a no-op.
func (s *Scheduler) Cancel(e *Event) {
	if e == nil || e.dead {
		return
	}
	e.dead = true
	s.events = slices.DeleteFunc(s.events, func(o *Event) bool { return o == e })
}

// Tick moves to the next scanline (the first call starts scanline 0) and
// fires every event due, in due order. Events due at the current line and
// scheduled by a callback fire within the same Tick.
func (s *Scheduler) Tick() {
	if s.started {
		s.now++
	}
	s.started = true

	for len(s.events) > 0 && s.events[0].due <= s.now {
		e := s.events[0]
		s.events = s.events[1:]
		line := int(e.due % uint64(s.total))
		if e.period > 0 {
			e.due += uint64(e.period)
			s.insert(e)
		} else {
			e.dead = true
		}
		e.fn(line)
	}
}
