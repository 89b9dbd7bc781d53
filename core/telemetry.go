package core

import (
	"log/slog"
	"sync/atomic"
)

// AllocationSite tags the containers created at one place in a program and
// counts how often their storage changed representation. It never influences
// behaviour; it only feeds promotion-rate telemetry.
type AllocationSite struct {
	Name   string
	logger *slog.Logger
	counts [storageKindCount][storageKindCount]atomic.Int64
}

func NewAllocationSite(name string, logger *slog.Logger) *AllocationSite {
	return &AllocationSite{Name: name, logger: logger}
}

// Transitions reports how many from→to transitions the site observed.
func (s *AllocationSite) Transitions(from, to StorageKind) int64 {
	if s == nil {
		return 0
	}
	return s.counts[from][to].Load()
}

// Total reports every transition recorded by the site.
func (s *AllocationSite) Total() int64 {
	if s == nil {
		return 0
	}
	var total int64
	for i := range s.counts {
		for j := range s.counts[i] {
			total += s.counts[i][j].Load()
		}
	}
	return total
}

func (s *AllocationSite) record(from, to StorageKind, length int) {
	if s == nil || from == to {
		return
	}
	s.counts[from][to].Add(1)
	if s.logger != nil {
		s.logger.Debug("storage transition",
			slog.String("site", s.Name),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
			slog.Int("length", length))
	}
}
