package macro

// frame is one lexical scope. Frames form a tree through parent indices;
// because blocks nest strictly, the frame being exited is always the last
// element of the arena.
type frame struct {
	vars   map[string]any
	state  map[any]any
	parent int
}

// scope is an arena of frames with a cursor on the innermost one. Frame 0 is
// the unit's global scope and is never exited.
type scope struct {
	frames []frame
	cur    int
}

func newScope() scope {
	return scope{frames: []frame{{parent: -1}}}
}

func (s *scope) enter() {
	s.frames = append(s.frames, frame{parent: s.cur})
	s.cur = len(s.frames) - 1
}

func (s *scope) exit() {
	if s.cur == 0 {
		panic("macro: exit from global scope")
	}

	s.cur = s.frames[s.cur].parent
	s.frames = s.frames[:len(s.frames)-1]
}

// depth returns the number of scopes entered and not yet exited.
func (s *scope) depth() int { return len(s.frames) - 1 }

func (s *scope) set(name string, v any) {
	f := &s.frames[s.cur]
	if f.vars == nil {
		f.vars = map[string]any{}
	}

	f.vars[name] = v
}

func (s *scope) lookup(name string) (any, bool) {
	for i := s.cur; i >= 0; i = s.frames[i].parent {
		if v, ok := s.frames[i].vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// empty reports whether no variable is visible from the current frame.
func (s *scope) empty() bool {
	for i := s.cur; i >= 0; i = s.frames[i].parent {
		if len(s.frames[i].vars) > 0 {
			return false
		}
	}

	return true
}

// env returns every visible variable, inner definitions shadowing outer ones.
func (s *scope) env() map[string]any {
	env := map[string]any{}

	for i := s.cur; i >= 0; i = s.frames[i].parent {
		for k, v := range s.frames[i].vars {
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}
	}

	return env
}

func (s *scope) setState(key, v any) {
	f := &s.frames[s.cur]
	if f.state == nil {
		f.state = map[any]any{}
	}

	f.state[key] = v
}

func (s *scope) state(key any) (any, bool) {
	for i := s.cur; i >= 0; i = s.frames[i].parent {
		if v, ok := s.frames[i].state[key]; ok {
			return v, true
		}
	}

	return nil, false
}
