package event

// ChannelFinished is emitted by the mixer when a channel drains.
type ChannelFinished struct {
	Channel int
}

// SceneLoaded is emitted after a deferred scene load completes.
type SceneLoaded struct {
	Name      string
	RequestID string
}

// Quit is emitted when the window or terminal asks the engine to stop.
type Quit struct{}
