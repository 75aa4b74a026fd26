package profile

// Stopper stops a running profiler. Stop is always safe to call.
type Stopper interface{ Stop() }

// Profiler describes a single profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory
	Quiet bool   // suppress the profiler's own log output
}

// Start begins profiling and returns a [Stopper] for the session.
// An empty or unsupported Mode, or a build without the pprof tag, yields a
// no-op [Stopper].
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
