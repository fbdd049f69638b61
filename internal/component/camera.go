package component

import "github.com/yoyoengine/yoyogo/internal/physics"

type Camera struct {
	Active          bool
	Relative        bool
	Z               int
	ViewField       physics.Rect
	LockAspectRatio bool
}
