package decision

import "github.com/hbomb79/castmirror/internal/codec"

// TranscodeTask names the one action to take for a single stream: copy it
// through unchanged, or re-encode it to a specific target codec.
type TranscodeTask struct {
	StreamIndex int
	Copy        bool
	TargetCodec codec.ID
}

// Plan is the ordered set of per-stream actions a Transcoding Backend
// Adapter must carry out, in ascending stream-index order.
type Plan []TranscodeTask

// Result is what the Policy Decision Engine returns for a single probed
// file: whether the file may be linked through unchanged, and if not, the
// plan to transcode it plus the container format it must land in.
type Result struct {
	Compliant    bool
	Plan         Plan
	TargetFormat string
	TargetExt    string
}
