package pool

// Stats is a point-in-time snapshot of pool accounting.
type Stats struct {
	Available int
	InUse     int
	Capacity  int

	Acquires      uint64
	Exhaustions   uint64
	StaleReplaced uint64
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	available := len(p.available)
	inUse := len(p.checkedOut) + p.creating
	p.mu.Unlock()

	return Stats{
		Available:     available,
		InUse:         inUse,
		Capacity:      p.opts.MaxSize,
		Acquires:      p.acquires.Load(),
		Exhaustions:   p.exhaustions.Load(),
		StaleReplaced: p.staleReplaced.Load(),
	}
}
