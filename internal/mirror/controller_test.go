package mirror_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbomb79/castmirror/internal/config"
	"github.com/hbomb79/castmirror/internal/decision"
	"github.com/hbomb79/castmirror/internal/dispatch"
	"github.com/hbomb79/castmirror/internal/mirror"
	"github.com/hbomb79/castmirror/internal/policy"
	"github.com/hbomb79/castmirror/internal/stream"
)

type fakeProber struct {
	inv stream.Inventory
	err error
}

func (f fakeProber) Probe(ctx context.Context, path string) (stream.Inventory, error) {
	return f.inv, f.err
}

type fakeBackend struct {
	err   error
	calls int
}

func (f *fakeBackend) Transcode(ctx context.Context, src, dst string, plan decision.Plan) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dst, []byte("transcoded"), 0o644)
}

func TestDryRun_LinksCompliantFile(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.mp4"), []byte("data"), 0o644))

	policy.Set(&policy.Policy{SupportedFormats: []string{"mp4"}})

	prober := fakeProber{inv: stream.Inventory{}}
	backend := &fakeBackend{}
	pool := dispatch.NewPool(2)
	c := mirror.NewController(prober, backend, pool)

	err := c.DryRun(context.Background(), []config.WatchPair{{Src: src, Dst: dst}})
	require.NoError(t, err)

	linked := filepath.Join(dst, "a.mp4")
	info, err := os.Lstat(linked)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)
	assert.Equal(t, 0, backend.calls)
}

func TestDryRun_ProbeFailureFallsBackToLink(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "opaque.bin"), []byte("data"), 0o644))

	prober := fakeProber{err: assert.AnError}
	backend := &fakeBackend{}
	pool := dispatch.NewPool(1)
	c := mirror.NewController(prober, backend, pool)

	require.NoError(t, c.DryRun(context.Background(), []config.WatchPair{{Src: src, Dst: dst}}))

	_, err := os.Lstat(filepath.Join(dst, "opaque.bin"))
	assert.NoError(t, err)
	assert.Equal(t, 0, backend.calls)
}

func TestDryRun_IdempotentOnSecondPass(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.mp4"), []byte("data"), 0o644))

	prober := fakeProber{err: assert.AnError}
	backend := &fakeBackend{}
	pool := dispatch.NewPool(1)
	c := mirror.NewController(prober, backend, pool)

	pairs := []config.WatchPair{{Src: src, Dst: dst}}
	require.NoError(t, c.DryRun(context.Background(), pairs))
	firstLinked := c.Stats.Linked.Load()
	require.NoError(t, c.DryRun(context.Background(), pairs))
	secondLinked := c.Stats.Linked.Load()

	assert.Equal(t, firstLinked, secondLinked, "bootstrap must be a no-op against an up-to-date destination")
}
