package physics

// Body is one collider a mover is tested against.
type Body struct {
	Rect    Rect
	Trigger bool
}

// Outcome is the result of resolving one frame of movement.
type Outcome struct {
	// Position is the committed origin: the full displacement when nothing
	// solid was hit, the starting origin otherwise.
	Position Vec2
	Blocked  bool
	// BlockedBy indexes the solid body that stopped the mover, or -1.
	BlockedBy int
	// Triggers indexes every trigger body crossed, in first-contact order.
	// Each body appears at most once.
	Triggers []int
}

// ResolveStep moves a solid collider from origin by delta in substeps equal
// fractions. Every substep tests the box swept since the previous substep
// against others. A solid overlap rejects the whole frame's movement; a
// trigger overlap is recorded and the mover keeps going.
//
// others must not contain the mover itself.
func ResolveStep(origin Vec2, collider Rect, delta Vec2, substeps int, others []Body) Outcome {
	if substeps < 1 {
		substeps = 1
	}
	out := Outcome{Position: origin, BlockedBy: -1}
	prev := collider

	for i := 1; i <= substeps; i++ {
		off := delta.Scale(float64(i) / float64(substeps))
		cur := collider.Translate(off)
		sweep := prev.Union(cur)

		var crossed []int
		for j, o := range others {
			if !Overlap(sweep, o.Rect) {
				continue
			}
			if !o.Trigger {
				out.Position = origin
				out.Blocked = true
				out.BlockedBy = j
				return out
			}
			crossed = append(crossed, j)
		}
		for _, j := range crossed {
			if !containsIndex(out.Triggers, j) {
				out.Triggers = append(out.Triggers, j)
			}
		}

		out.Position = origin.Add(off)
		prev = cur
	}
	return out
}

func containsIndex(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
