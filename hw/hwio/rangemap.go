package hwio

import (
	"fmt"
	"slices"
)

// span is a mapped address interval. base is the address where the handler
// was originally mapped, which stays unchanged when the span is split by an
// Unmap, so that handlers keep receiving offsets relative to their origin.
type span[T any] struct {
	begin, end uint32 // inclusive
	base       uint32
	io         T
}

// rangeMap is a sorted set of non-overlapping spans.
type rangeMap[T any] struct {
	spans []span[T]
	last  int
}

func (m *rangeMap[T]) find(addr uint32) int {
	i, _ := slices.BinarySearchFunc(m.spans, addr, func(s span[T], a uint32) int {
		switch {
		case s.end < a:
			return -1
		case s.begin > a:
			return 1
		}
		return 0
	})
	return i
}

func (m *rangeMap[T]) insert(begin, end uint32, io T) error {
	if end < begin {
		return fmt.Errorf("invalid range [%06x-%06x]", begin, end)
	}
	i := m.find(begin)
	if i < len(m.spans) && m.spans[i].begin <= end {
		s := m.spans[i]
		return fmt.Errorf("range [%06x-%06x] overlaps [%06x-%06x]", begin, end, s.begin, s.end)
	}
	m.spans = slices.Insert(m.spans, i, span[T]{begin: begin, end: end, base: begin, io: io})
	m.last = 0
	return nil
}

func (m *rangeMap[T]) remove(begin, end uint32) {
	var out []span[T]
	for _, s := range m.spans {
		if s.end < begin || s.begin > end {
			out = append(out, s)
			continue
		}
		if s.begin < begin {
			left := s
			left.end = begin - 1
			out = append(out, left)
		}
		if s.end > end {
			right := s
			right.begin = end + 1
			out = append(out, right)
		}
	}
	m.spans = out
	m.last = 0
}

func (m *rangeMap[T]) search(addr uint32) (span[T], bool) {
	if m.last < len(m.spans) {
		if s := m.spans[m.last]; s.begin <= addr && addr <= s.end {
			return s, true
		}
	}
	i := m.find(addr)
	if i < len(m.spans) && m.spans[i].begin <= addr && addr <= m.spans[i].end {
		m.last = i
		return m.spans[i], true
	}
	var zero span[T]
	return zero, false
}
