package world

import "errors"

var (
	ErrNoEntity           = errors.New("entity does not exist")
	ErrDuplicateComponent = errors.New("entity already has component")
	ErrNoComponent        = errors.New("entity has no such component")
	ErrInactive           = errors.New("component is inactive")
	ErrNoRuntime          = errors.New("no script runtime attached")
)
