package mirror

import "github.com/rjeczalik/notify"

// EventKind is castmirror's own closed vocabulary for the five event
// kinds spec.md names, independent of whatever event constants the
// underlying watch library exposes.
type EventKind int

const (
	EventCreate EventKind = iota
	EventDelete
	EventMovedIn
	EventMovedOut
	EventCloseWrite
	EventUnknown
)

// watchMask selects Linux inotify's own event vocabulary rather than
// rjeczalik/notify's cross-platform Create/Remove/Rename/Write set: the
// generic set cannot distinguish a move-in from a move-out, or a write
// from a close-after-write, which the spec's event model requires. This
// ties the watch to Linux, matching the original implementation's direct
// use of the inotify crate.
const watchMask = notify.InCreate | notify.InDelete | notify.InMovedTo | notify.InMovedFrom | notify.InCloseWrite

func classify(e notify.Event) EventKind {
	switch e {
	case notify.InCreate:
		return EventCreate
	case notify.InDelete:
		return EventDelete
	case notify.InMovedTo:
		return EventMovedIn
	case notify.InMovedFrom:
		return EventMovedOut
	case notify.InCloseWrite:
		return EventCloseWrite
	default:
		return EventUnknown
	}
}
