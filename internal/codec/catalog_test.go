package codec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbomb79/castmirror/internal/codec"
)

type fakeSource struct {
	decoders []codec.Codec
	encoders []codec.Codec
}

func (f fakeSource) Decoders(ctx context.Context) ([]codec.Codec, error) { return f.decoders, nil }
func (f fakeSource) Encoders(ctx context.Context) ([]codec.Codec, error) { return f.encoders, nil }

func TestBuild_MergesDecodeAndEncodeCapability(t *testing.T) {
	cat, err := codec.Build(context.Background(), fakeSource{
		decoders: []codec.Codec{{ID: "h264", Long: "H.264 / AVC", Kind: codec.KindVideo}},
		encoders: []codec.Codec{{ID: "h264", Long: "H.264 / AVC", Kind: codec.KindVideo}},
	})
	require.NoError(t, err)

	got, ok := cat.Find("h264")
	require.True(t, ok)
	assert.True(t, got.Decodable)
	assert.True(t, got.Encodable)
}

func TestFind_CaseInsensitiveByShortOrLongName(t *testing.T) {
	cat, err := codec.Build(context.Background(), fakeSource{
		decoders: []codec.Codec{{ID: "aac", Long: "AAC (Advanced Audio Coding)", Kind: codec.KindAudio}},
	})
	require.NoError(t, err)

	_, ok := cat.Find("AAC")
	assert.True(t, ok)

	_, ok = cat.Find("aac (advanced audio coding)")
	assert.True(t, ok)

	_, ok = cat.Find("does-not-exist")
	assert.False(t, ok)
}
