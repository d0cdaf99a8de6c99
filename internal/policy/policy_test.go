package policy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbomb79/castmirror/internal/codec"
	"github.com/hbomb79/castmirror/internal/policy"
)

type fakeSource struct{ codecs []codec.Codec }

func (f fakeSource) Decoders(ctx context.Context) ([]codec.Codec, error) { return f.codecs, nil }
func (f fakeSource) Encoders(ctx context.Context) ([]codec.Codec, error) { return f.codecs, nil }

func TestLoad_NormalizesCaseAndOrdersRequirements(t *testing.T) {
	cat, err := codec.Build(context.Background(), fakeSource{codecs: []codec.Codec{
		{ID: "h264", Kind: codec.KindVideo, Encodable: true},
	}})
	require.NoError(t, err)

	pol, err := policy.Load(policy.RawPolicy{
		SupportedFormats: []string{"MP4", ".MKV"},
		SupportedCodecs:  []string{"H264"},
		Required: []policy.RawRequirement{
			{What: "audio", Level: "Ignore"},
			{What: "audio", Language: "eng", Level: "All"},
		},
	}, cat)
	require.NoError(t, err)

	assert.Equal(t, []string{"mp4", "mkv"}, pol.SupportedFormats)
	assert.Equal(t, "mp4", pol.PreferredExt())
	require.Len(t, pol.Required, 2)
	assert.Equal(t, "eng", pol.Required[0].Language, "language-qualified requirement must sort first")
}

func TestLoad_UnknownCodecIsFatal(t *testing.T) {
	cat, err := codec.Build(context.Background(), fakeSource{})
	require.NoError(t, err)

	_, err = policy.Load(policy.RawPolicy{SupportedCodecs: []string{"nonexistent"}}, cat)
	require.Error(t, err)
}

func TestRequirement_DeclineBehavesAsIgnore(t *testing.T) {
	req := policy.Requirement{What: policy.RequirementVideo, Level: policy.LevelDecline}
	assert.Equal(t, policy.LevelIgnore, req.Effective())
}

func TestPolicy_EmptySupportedFormatsHasNoPreferredExt(t *testing.T) {
	pol := &policy.Policy{}
	assert.Equal(t, "", pol.PreferredExt())
}
