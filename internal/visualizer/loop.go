package visualizer

// FrameLoop guards a self-rescheduling frame callback chain. Each chain is
// tagged with a generation; stopping bumps the generation so callbacks
// already in flight find themselves stale and do nothing.
type FrameLoop struct {
	gen     uint64
	running bool
}

// Start begins a new chain and returns its generation. ok is false when a
// chain is already running, in which case the caller must not schedule
// another one.
func (l *FrameLoop) Start() (gen uint64, ok bool) {
	if l.running {
		return l.gen, false
	}
	l.gen++
	l.running = true
	return l.gen, true
}

// Stop invalidates the running chain.
func (l *FrameLoop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.gen++
}

// Accept reports whether a callback tagged gen should run and reschedule.
func (l *FrameLoop) Accept(gen uint64) bool {
	return l.running && gen == l.gen
}

// Running reports whether a chain is active.
func (l *FrameLoop) Running() bool { return l.running }

// Generation returns the current generation.
func (l *FrameLoop) Generation() uint64 { return l.gen }
