package jnigo

import "sync/atomic"

// RefStats counts references of one discipline created and deleted through
// this package.
type RefStats struct {
	Acquired uint64
	Released uint64
}

// Live returns the number of references currently owned.
func (s RefStats) Live() int64 { return int64(s.Acquired) - int64(s.Released) }

// Stats is a snapshot of the package counters.
type Stats struct {
	Local    RefStats
	Global   RefStats
	Weak     RefStats
	Attached uint64 // threads attached by the provider
	Detached uint64 // threads detached by the provider
}

type counters struct {
	acq      [4]atomic.Uint64
	rel      [4]atomic.Uint64
	attached atomic.Uint64
	detached atomic.Uint64
}

var stats counters

func (c *counters) acquired(k RefKind) {
	if k > AutoRef && int(k) < len(c.acq) {
		c.acq[k].Add(1)
	}
}

func (c *counters) released(k RefKind) {
	if k > AutoRef && int(k) < len(c.rel) {
		c.rel[k].Add(1)
	}
}

func (c *counters) ref(k RefKind) RefStats {
	return RefStats{Acquired: c.acq[k].Load(), Released: c.rel[k].Load()}
}

// ReadStats returns the current counters.
func ReadStats() Stats {
	return Stats{
		Local:    stats.ref(LocalRef),
		Global:   stats.ref(GlobalRef),
		Weak:     stats.ref(WeakRef),
		Attached: stats.attached.Load(),
		Detached: stats.detached.Load(),
	}
}
