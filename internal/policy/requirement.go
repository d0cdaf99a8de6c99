package policy

import "github.com/hbomb79/castmirror/internal/stream"

// RequirementType is a tagged variant over the kind of stream a
// Requirement constrains. Video carries no language; Audio and Subtitle
// may optionally be qualified by a language tag.
type RequirementType string

const (
	RequirementVideo    RequirementType = "video"
	RequirementAudio    RequirementType = "audio"
	RequirementSubtitle RequirementType = "subtitle"
)

func (t RequirementType) streamKind() stream.Kind {
	switch t {
	case RequirementVideo:
		return stream.KindVideo
	case RequirementAudio:
		return stream.KindAudio
	case RequirementSubtitle:
		return stream.KindSubtitle
	default:
		return stream.KindOther
	}
}

// RequirementLevel is the quantifier a Requirement is declared with,
// governing how many matching streams must already be compliant before
// the requirement stops forcing a transcode.
type RequirementLevel string

const (
	LevelAll        RequirementLevel = "All"
	LevelAtLeastOne RequirementLevel = "AtLeastOne"
	LevelWithOther  RequirementLevel = "WithOther"
	LevelIgnore     RequirementLevel = "Ignore"
	// LevelDecline is declared by a policy author but, per the resolved
	// Open Question, behaves identically to Ignore: no code path drops a
	// stream from the output today.
	LevelDecline RequirementLevel = "Decline"
)

// Requirement is a single declarative constraint from a policy file.
// Requirements are kept in a Policy's Required slice in priority order:
// language-qualified requirements sort before language-agnostic ones of
// the same stream kind, so the engine can stop at the first match.
type Requirement struct {
	What     RequirementType
	Language string // empty means "language-agnostic"
	Level    RequirementLevel
}

// Matches reports whether e satisfies this requirement's (kind, language)
// selector.
func (r Requirement) Matches(e stream.Entry) bool {
	if e.Kind != r.What.streamKind() {
		return false
	}
	if r.Language == "" {
		return true
	}
	return e.Language == r.Language
}

// Priority places language-qualified requirements ahead of language-
// agnostic ones; lower sorts first.
func (r Requirement) Priority() int {
	if r.Language != "" {
		return 0
	}
	return 1
}

// Effective collapses Decline into Ignore per the resolved Open Question.
func (r Requirement) Effective() RequirementLevel {
	if r.Level == LevelDecline {
		return LevelIgnore
	}
	return r.Level
}
