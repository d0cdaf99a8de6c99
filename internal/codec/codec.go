// Package codec models the set of codecs a transcoding backend can decode
// and encode, and the catalog used to resolve names the policy file refers
// to into concrete, backend-confirmed codecs.
package codec

import "strings"

// ID is a backend codec short name, e.g. "h264", "aac", normalized to
// lower-case so lookups are case-insensitive.
type ID string

func NewID(raw string) ID { return ID(strings.ToLower(strings.TrimSpace(raw))) }

func (i ID) String() string { return string(i) }

// Kind is the media kind a codec applies to, as reported by the backend's
// encoder/decoder listing (its leading type flag).
type Kind string

const (
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindSubtitle Kind = "subtitle"
	KindOther    Kind = "other"
)

// Codec describes a single codec as reported by the transcoding backend.
type Codec struct {
	ID        ID
	Long      string
	Kind      Kind
	Decodable bool
	Encodable bool
}
