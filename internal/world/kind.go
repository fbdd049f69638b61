package world

// Kind names a component store.
type Kind int

const (
	KindTransform Kind = iota
	KindPhysics
	KindCollider
	KindCamera
	KindRenderer
	KindTag
	KindAudioSource
	KindScript
	KindButton
)

// Kinds lists every component kind in declaration order.
var Kinds = []Kind{
	KindTransform, KindPhysics, KindCollider, KindCamera, KindRenderer,
	KindTag, KindAudioSource, KindScript, KindButton,
}

func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindPhysics:
		return "physics"
	case KindCollider:
		return "collider"
	case KindCamera:
		return "camera"
	case KindRenderer:
		return "renderer"
	case KindTag:
		return "tag"
	case KindAudioSource:
		return "audiosource"
	case KindScript:
		return "script"
	case KindButton:
		return "button"
	}
	return "unknown"
}
