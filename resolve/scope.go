// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

// A frame holds the names bound in one lexical scope.
type frame map[string]bool

// A scopeStack models nested lexical scopes as a stack of frames,
// innermost last. The bottom frame is seeded with the builtin names
// and is never popped.
type scopeStack struct {
	frames []frame
}

func newScopeStack() *scopeStack {
	bottom := make(frame, len(builtins)+1)
	for _, name := range builtins {
		bottom[name] = true
	}
	// Fragments analyzed out of context (a method body without its
	// class) still refer to the receiver by convention.
	bottom["self"] = true
	return &scopeStack{frames: []frame{bottom}}
}

func (s *scopeStack) push() {
	s.frames = append(s.frames, make(frame))
}

func (s *scopeStack) pop() {
	if len(s.frames) == 1 {
		panic("pop of builtin frame")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// bind records name in the innermost frame.
func (s *scopeStack) bind(name string) {
	s.frames[len(s.frames)-1][name] = true
}

// unbind removes name from the innermost frame that binds it, if any.
func (s *scopeStack) unbind(name string) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i][name] {
			delete(s.frames[i], name)
			return
		}
	}
}

// isBound reports whether any frame binds name.
func (s *scopeStack) isBound(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i][name] {
			return true
		}
	}
	return false
}
