package typoscript

import "maps"

// Stack is an ordered stack of context frames. Frames are copied on
// overlay and never modified once pushed, so a frame retained by an object
// stays valid across later pushes.
//
// Push and Pop must be strictly paired by the caller. Popping or reading an
// empty stack panics.
type Stack struct {
	frames []Frame
}

// Push pushes frame as the new top. A nil frame is pushed as an empty one.
func (s *Stack) Push(frame Frame) {
	if frame == nil {
		frame = Frame{}
	}

	s.frames = append(s.frames, frame)
}

// PushKey pushes a copy of the current frame with key set to value.
func (s *Stack) PushKey(key string, value any) {
	s.PushOverlay(Frame{key: value})
}

// PushOverlay pushes a copy of the current frame with every entry of
// overlay applied, as a single new frame.
func (s *Stack) PushOverlay(overlay Frame) {
	var next Frame

	if n := len(s.frames); n > 0 {
		next = make(Frame, len(s.frames[n-1])+len(overlay))
		maps.Copy(next, s.frames[n-1])
	} else {
		next = make(Frame, len(overlay))
	}

	maps.Copy(next, overlay)
	s.frames = append(s.frames, next)
}

// Pop removes and returns the top frame.
func (s *Stack) Pop() Frame {
	n := len(s.frames)
	if n == 0 {
		panic("typoscript: pop from empty context stack")
	}

	top := s.frames[n-1]
	s.frames[n-1] = nil
	s.frames = s.frames[:n-1]

	return top
}

// Current returns the top frame.
func (s *Stack) Current() Frame {
	n := len(s.frames)
	if n == 0 {
		panic("typoscript: current context of empty stack")
	}

	return s.frames[n-1]
}

// Depth returns the number of frames on the stack.
func (s *Stack) Depth() int { return len(s.frames) }
