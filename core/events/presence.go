package events

const (
	// KindViewerPresenceChanged identifies a presence value change.
	KindViewerPresenceChanged Kind = "presence.viewer_changed"
	// KindPresenceChannelChanged identifies a detector link change.
	KindPresenceChannelChanged Kind = "presence.channel_changed"
	// KindViewerSwiped identifies a detector-recognised swipe.
	KindViewerSwiped Kind = "presence.swipe"
)

// ViewerPresenceChanged reports whether a viewer stands at the kiosk.
type ViewerPresenceChanged struct {
	Base
	Present bool
}

// NewViewerPresenceChanged creates a presence change event.
func NewViewerPresenceChanged(present bool) ViewerPresenceChanged {
	return ViewerPresenceChanged{Base: NewBase(KindViewerPresenceChanged), Present: present}
}

// PresenceChannelChanged reports whether the detector link is healthy.
type PresenceChannelChanged struct {
	Base
	Healthy bool
}

// NewPresenceChannelChanged creates a channel change event.
func NewPresenceChannelChanged(healthy bool) PresenceChannelChanged {
	return PresenceChannelChanged{Base: NewBase(KindPresenceChannelChanged), Healthy: healthy}
}

// ViewerSwiped carries a detector swipe mapped to a selection direction.
type ViewerSwiped struct {
	Base
	Direction int
}

// NewViewerSwiped creates a swipe event.
func NewViewerSwiped(direction int) ViewerSwiped {
	return ViewerSwiped{Base: NewBase(KindViewerSwiped), Direction: direction}
}
