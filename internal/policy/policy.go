package policy

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hbomb79/castmirror/internal/codec"
	"github.com/hbomb79/castmirror/pkg/logger"
)

var log = logger.Get("Policy")

// RawPolicy is the shape a policy is declared in by a config file, before
// its codec names have been resolved against a Catalog. Both the
// underscore and hyphen key spellings from the config schema are accepted
// (see internal/config, which rewrites the aliases to the hyphenated
// spelling before a single mapstructure decode into this struct).
type RawPolicy struct {
	SupportedFormats []string         `yaml:"supported-formats" json:"supported-formats" mapstructure:"supported-formats"`
	SupportedCodecs  []string         `yaml:"supported-codecs" json:"supported-codecs" mapstructure:"supported-codecs"`
	Required         []RawRequirement `yaml:"required" json:"required" mapstructure:"required"`
	BackupSymlink    bool             `yaml:"backup-symlink" json:"backup-symlink" mapstructure:"backup-symlink"`
}

// RawRequirement flattens the wire-format tagged union
// ("Video" | {"Audio":{"language":...}} | {"Subtitle":{"language":...}})
// into a shape every supported config format (including TOML, which has
// no tagged-union construct) can express directly.
type RawRequirement struct {
	What     string `yaml:"what" json:"what" mapstructure:"what"`
	Language string `yaml:"language" json:"language" mapstructure:"language"`
	Level    string `yaml:"level" json:"level" mapstructure:"level"`
}

// Policy is the fully-resolved, validated media compliance policy: the
// container formats and codecs a file may pass through on unchanged, and
// the ordered set of requirements a Decision Engine evaluates to decide
// whether (and how) to transcode a stream.
type Policy struct {
	// SupportedFormats is lower-cased and order-preserving; its first
	// entry is the preferred output container extension.
	SupportedFormats []string
	SupportedCodecs  []codec.Codec
	Required         []Requirement
	BackupSymlink    bool
}

// PreferredExt returns the preferred output container extension, or ""
// when the policy declares no supported formats (the format rule never
// fires and destination extensions are left untouched, per the resolved
// Open Question).
func (p *Policy) PreferredExt() string {
	if len(p.SupportedFormats) == 0 {
		return ""
	}
	return p.SupportedFormats[0]
}

// Load validates raw against cat, resolving every codec name to a
// catalog-confirmed Codec. An unknown codec name is a fatal configuration
// error: the policy author referred to something the transcoding backend
// cannot produce or recognise.
func Load(raw RawPolicy, cat *codec.Catalog) (*Policy, error) {
	p := &Policy{BackupSymlink: raw.BackupSymlink}

	for _, f := range raw.SupportedFormats {
		p.SupportedFormats = append(p.SupportedFormats, strings.ToLower(strings.TrimPrefix(f, ".")))
	}

	for _, name := range raw.SupportedCodecs {
		c, ok := cat.Find(name)
		if !ok {
			return nil, fmt.Errorf("policy declares unknown supported codec %q", name)
		}
		p.SupportedCodecs = append(p.SupportedCodecs, c)
	}

	for _, rr := range raw.Required {
		req, err := resolveRequirement(rr)
		if err != nil {
			return nil, err
		}
		p.Required = append(p.Required, req)
	}

	sort.SliceStable(p.Required, func(i, j int) bool {
		return p.Required[i].Priority() < p.Required[j].Priority()
	})

	return p, nil
}

func resolveRequirement(rr RawRequirement) (Requirement, error) {
	level := RequirementLevel(rr.Level)
	switch level {
	case LevelAll, LevelAtLeastOne, LevelWithOther, LevelIgnore, LevelDecline:
	default:
		return Requirement{}, fmt.Errorf("requirement has unrecognised level %q", rr.Level)
	}

	what := RequirementType(strings.ToLower(rr.What))
	switch what {
	case RequirementVideo, RequirementAudio, RequirementSubtitle:
	default:
		return Requirement{}, fmt.Errorf("requirement has unrecognised stream kind %q", rr.What)
	}

	if what == RequirementVideo && rr.Language != "" {
		return Requirement{}, fmt.Errorf("video requirements cannot be language-qualified")
	}

	return Requirement{What: what, Language: rr.Language, Level: level}, nil
}

// global holds the process-wide, single-writer-multi-reader active policy.
var global atomic.Pointer[Policy]

// Set installs p as the process-wide active policy. Called once at startup
// (internal.App.Run), before the mirror loop begins handling events.
func Set(p *Policy) {
	log.Emit(logger.INFO, "Policy active: %d supported format(s), %d supported codec(s), %d requirement(s)\n",
		len(p.SupportedFormats), len(p.SupportedCodecs), len(p.Required))
	global.Store(p)
}

// Get returns the currently active policy, or nil if Set has not yet been
// called.
func Get() *Policy {
	return global.Load()
}
