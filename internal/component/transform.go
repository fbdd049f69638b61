package component

// Transform is the world position of an entity. Components that need a
// world position resolve their relative rectangles against it.
type Transform struct {
	X float64
	Y float64
}
