package world

import (
	"strings"

	"go.uber.org/zap"

	"github.com/yoyoengine/yoyogo/internal/core/ecs"
)

// LogEntities writes one debug line per entity listing its components.
func (s *State) LogEntities() {
	s.entities.Each(func(_ ecs.EntityID, e *Entity) {
		var kinds []string
		for _, k := range Kinds {
			if s.Has(e.ID, k) {
				kinds = append(kinds, k.String())
			}
		}
		s.log.Debug("entity",
			eid(e.ID),
			zap.String("name", e.Name),
			zap.Bool("active", e.Active),
			zap.String("components", strings.Join(kinds, ",")),
		)
	})
	s.log.Debug("entity count", zap.Int("total", s.entities.Len()))
}
