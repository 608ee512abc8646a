// Package fdawerr defines the engine's typed error kinds (§7) and the
// sentinel values raised against them, in the teacher's style of
// package-level `errors.New` sentinels (see param.ErrInvalidParam,
// state.ErrInvalidVersion) rather than a generic error-code framework.
package fdawerr

import (
	"errors"
	"fmt"
)

// Kind classifies where an error originated, per §7.
type Kind string

const (
	KindPluginLoad       Kind = "plugin_load"
	KindPluginInitialise Kind = "plugin_initialise"
	KindPluginProcess    Kind = "plugin_process"
	KindScheduling       Kind = "scheduling"
	KindTransport        Kind = "transport"
	KindPersistence      Kind = "persistence"
	KindDevice           Kind = "device"
)

// Error carries a Kind alongside the wrapped cause so callers can branch on
// origin without string matching.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap returns a new *Error tagging cause with kind. A nil cause returns nil.
func Wrap(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Cause: cause}
}

// As reports whether err (or something it wraps) is an *Error of the given
// kind, returning it if so.
func As(err error, kind Kind) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind == kind {
		return fe, true
	}
	return nil, false
}

// Sentinels reused across packages.
var (
	ErrPluginNotFound      = errors.New("plugin instance not found")
	ErrModuleNotLoadable   = errors.New("plugin module could not be loaded")
	ErrUIDNotInFactory     = errors.New("plugin uid not found in factory")
	ErrAudioSetupFailed    = errors.New("plugin audio setup failed")
	ErrBusActivationFailed = errors.New("plugin bus activation failed")
	ErrInvalidState        = errors.New("invalid plugin state transition")
	ErrProcessNotAllowed   = errors.New("process called outside Processing state")
	ErrUnknownRiff         = errors.New("riff reference points at unknown riff")
	ErrEventOverflow       = errors.New("event buffer overflow")
	ErrUnknownTrack        = errors.New("track not found")
	ErrDuplicateTrackID    = errors.New("duplicate track id")
	ErrUnresolvedReference = errors.New("reference resolves to zero or multiple entities")
)
