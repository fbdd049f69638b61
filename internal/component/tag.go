package component

const (
	MaxTags      = 10
	MaxTagLength = 20
)

// Tag holds up to MaxTags short labels. An entity whose last tag is removed
// loses the component.
type Tag struct {
	Active bool
	Tags   []string
}
