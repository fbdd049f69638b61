package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name     string
	phase    Phase
	inEditor bool
	log      *[]string
}

func (r *recorder) Phase() Phase         { return r.phase }
func (r *recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }
func (r *recorder) RunsInEditor() bool   { return r.inEditor }

type plain struct {
	name string
	log  *[]string
}

func (p *plain) Phase() Phase         { return PhaseRender }
func (p *plain) Update(time.Duration) { *p.log = append(*p.log, p.name) }

func TestRunnerOrdersByPhaseStable(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "cleanup", phase: PhaseCleanup, log: &log})
	r.Register(&recorder{name: "physics", phase: PhasePhysics, log: &log})
	r.Register(&recorder{name: "timers", phase: PhaseTimers, log: &log})
	r.Register(&recorder{name: "physics2", phase: PhasePhysics, log: &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"timers", "physics", "physics2", "cleanup"}, log)
}

func TestRunnerEditorModeSkipsSimulation(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{name: "physics", phase: PhasePhysics, log: &log})
	r.Register(&recorder{name: "render", phase: PhaseRender, inEditor: true, log: &log})
	r.Register(&plain{name: "plain", log: &log})

	r.SetEditorMode(true)
	r.Tick(0)
	assert.Equal(t, []string{"render", "plain"}, log)

	log = nil
	r.SetEditorMode(false)
	r.Tick(0)
	assert.Equal(t, []string{"physics", "render", "plain"}, log)
}
