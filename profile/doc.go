// Package profile starts optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag. Without it,
// [Modes] is empty and [Profiler.Start] returns a no-op stopper.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/typoscript"}
//	defer p.Start().Stop()
//
// Profiles are written under Path with names matching the mode (cpu.pprof,
// mem.pprof, and so on) and can be inspected with "go tool pprof".
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
