package pathmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hbomb79/castmirror/internal/pathmap"
)

func TestDest(t *testing.T) {
	got := pathmap.Dest("/src", "/dst", "/src/a/b.mp4")
	assert.Equal(t, "/dst/a/b.mp4", got)
}

func TestDest_OutsideRoot(t *testing.T) {
	got := pathmap.Dest("/src", "/dst", "/elsewhere/b.mp4")
	assert.Equal(t, "", got)
}

func TestRewrite(t *testing.T) {
	assert.Equal(t, "/dst/a/b.mp4", pathmap.Rewrite("/dst/a/b.mkv", "mp4"))
	assert.Equal(t, "/dst/a/b.mp4", pathmap.Rewrite("/dst/a/b.mkv", ".mp4"))
}

func TestRewrite_EmptyPreferredExtKeepsSource(t *testing.T) {
	assert.Equal(t, "/dst/a/b.mkv", pathmap.Rewrite("/dst/a/b.mkv", ""))
}
