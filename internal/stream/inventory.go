// Package stream holds the Stream Inventory: the per-file record of every
// elementary stream a media file contains, probed from the transcoding
// backend ahead of any decision about what to do with the file.
package stream

import "github.com/hbomb79/castmirror/internal/codec"

// Kind is a closed classification of stream content. Its values share
// their spelling with codec.Kind, and the decision engine matches the two
// by comparing their string values.
type Kind string

const (
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindSubtitle Kind = "subtitle"
	KindOther    Kind = "other"
)

func kindFromCodecType(t string) Kind {
	switch t {
	case "video":
		return KindVideo
	case "audio":
		return KindAudio
	case "subtitle":
		return KindSubtitle
	default:
		return KindOther
	}
}

// Entry describes a single stream within a probed media file.
type Entry struct {
	Index    int
	Kind     Kind
	CodecID  codec.ID
	Language string
}

// Inventory is the full set of streams probed from one file, plus the
// container format name the backend reported it as.
type Inventory struct {
	Format  string
	Entries []Entry
}

// ByKind returns only the entries matching kind, preserving stream order.
func (inv Inventory) ByKind(kind Kind) []Entry {
	var out []Entry
	for _, e := range inv.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
