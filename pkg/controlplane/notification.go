package controlplane

import "github.com/google/uuid"

// NotificationKind identifies the variant carried by a Notification.
type NotificationKind string

const (
	NotifyPlayPosition    NotificationKind = "PlayPositionUpdate"
	NotifyParamChanged    NotificationKind = "ParameterChanged"
	NotifyWindowResize    NotificationKind = "PluginWindowResize"
	NotifyError           NotificationKind = "Error"
)

// Notification is one engine -> UI event. The engine sets BlockIndex only
// on PlayPositionUpdate notifications, where it rises by one per processed
// block; ParameterChanged and Error notifications leave it zero.
type Notification struct {
	Kind       NotificationKind
	BlockIndex uint64

	TrackID  uuid.UUID
	PluginID uuid.UUID
	ParamID  uint32
	Value    float64

	CurrentBeat float64
	CurrentBar  uint32

	Width, Height uint32

	Err error
}
