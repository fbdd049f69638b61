package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each frame. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
	editor  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// SetEditorMode toggles skipping of systems that do not run in the editor.
func (r *Runner) SetEditorMode(on bool) { r.editor = on }

func (r *Runner) EditorMode() bool { return r.editor }

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if r.skip(s) {
			continue
		}
		s.Update(dt)
	}
}

func (r *Runner) skip(s System) bool {
	if !r.editor {
		return false
	}
	ea, ok := s.(EditorAware)
	return ok && !ea.RunsInEditor()
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
