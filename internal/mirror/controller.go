// Package mirror implements the Mirror Controller: it watches source
// roots, translates filesystem events into idempotent link/transcode/
// delete actions at the corresponding destination, and performs the
// bootstrap reconciliation pass when a watch is added.
package mirror

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rjeczalik/notify"

	"github.com/hbomb79/castmirror/internal/config"
	"github.com/hbomb79/castmirror/internal/decision"
	"github.com/hbomb79/castmirror/internal/dispatch"
	"github.com/hbomb79/castmirror/internal/pathmap"
	"github.com/hbomb79/castmirror/internal/policy"
	"github.com/hbomb79/castmirror/internal/stream"
	"github.com/hbomb79/castmirror/internal/transcodebackend"
	"github.com/hbomb79/castmirror/pkg/logger"
)

var log = logger.Get("Mirror")

// Stats counts the actions a Controller has taken, used to summarise a
// dry run.
type Stats struct {
	Linked     atomic.Int64
	Transcoded atomic.Int64
	Removed    atomic.Int64
}

func (s *Stats) snapshot() (int64, int64, int64) {
	return s.Linked.Load(), s.Transcoded.Load(), s.Removed.Load()
}

type watch struct {
	pair config.WatchPair
	ch   chan notify.EventInfo
}

// Controller is the Mirror Controller. It holds no policy state itself —
// it reads the process-wide policy singleton on every decision — and the
// only mutable state it owns is its set of active watches, its
// action-count stats and its count of in-flight mirror tasks.
type Controller struct {
	prober  stream.Prober
	backend transcodebackend.Adapter
	pool    *dispatch.Pool

	watches  []watch
	Stats    Stats
	inflight sync.WaitGroup
}

func NewController(prober stream.Prober, backend transcodebackend.Adapter, pool *dispatch.Pool) *Controller {
	return &Controller{prober: prober, backend: backend, pool: pool}
}

// AddPair registers a live watch on pair.Src and performs the bootstrap
// reconciliation pass. A source root that does not exist is a fatal
// watch-add error, per spec.md §7.
func (c *Controller) AddPair(ctx context.Context, pair config.WatchPair) error {
	if info, err := os.Stat(pair.Src); err != nil {
		return fmt.Errorf("watch-add failed: source root %s: %w", pair.Src, err)
	} else if !info.IsDir() {
		return fmt.Errorf("watch-add failed: source root %s is not a directory", pair.Src)
	}

	ch := make(chan notify.EventInfo, 256)
	if err := notify.Watch(pair.Src+"/...", ch, watchMask); err != nil {
		return fmt.Errorf("watch-add failed for %s: %w", pair.Src, err)
	}
	c.watches = append(c.watches, watch{pair: pair, ch: ch})

	go c.consume(ctx, pair, ch)

	linkedBefore, transcodedBefore, _ := c.Stats.snapshot()
	if err := c.bootstrap(ctx, pair); err != nil {
		return err
	}
	linkedAfter, transcodedAfter, _ := c.Stats.snapshot()
	log.Emit(logger.INFO, "Bootstrap walk for %s -> %s finished: %d linked, %d transcoded so far (remaining tasks continue in the pool)\n",
		pair.Src, pair.Dst, linkedAfter-linkedBefore, transcodedAfter-transcodedBefore)

	return nil
}

// DryRun performs only the bootstrap reconciliation pass for every pair,
// without registering live watches, waits for the tasks each pass
// dispatched to finish, then returns — used to preview what a live run
// would do.
func (c *Controller) DryRun(ctx context.Context, pairs []config.WatchPair) error {
	for _, pair := range pairs {
		if info, err := os.Stat(pair.Src); err != nil {
			return fmt.Errorf("watch-add failed: source root %s: %w", pair.Src, err)
		} else if !info.IsDir() {
			return fmt.Errorf("watch-add failed: source root %s is not a directory", pair.Src)
		}

		linkedBefore, transcodedBefore, _ := c.Stats.snapshot()
		if err := c.bootstrap(ctx, pair); err != nil {
			return err
		}
		c.inflight.Wait()
		linkedAfter, transcodedAfter, _ := c.Stats.snapshot()
		log.Emit(logger.INFO, "[dry-run] %s -> %s: linked %d, transcoded %d\n",
			pair.Src, pair.Dst, linkedAfter-linkedBefore, transcodedAfter-transcodedBefore)
	}

	return nil
}

// Close stops every active watch and drains the dispatch pool.
func (c *Controller) Close() {
	for _, w := range c.watches {
		notify.Stop(w.ch)
	}
	c.pool.Close()
}

func (c *Controller) bootstrap(ctx context.Context, pair config.WatchPair) error {
	return filepath.WalkDir(pair.Src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Emit(logger.WARNING, "Bootstrap walk error at %s: %v\n", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		c.dispatchCreate(ctx, pair, path, true)

		return nil
	})
}

func (c *Controller) consume(ctx context.Context, pair config.WatchPair, ch chan notify.EventInfo) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			c.handleEvent(ctx, pair, ev)
		}
	}
}

func (c *Controller) handleEvent(ctx context.Context, pair config.WatchPair, ev notify.EventInfo) {
	path := ev.Path()
	kind := classify(ev.Event())

	dst := pathmap.Dest(pair.Src, pair.Dst, path)
	if dst == "" {
		log.Emit(logger.WARNING, "Event for %s is not under watched root %s, ignoring\n", path, pair.Src)
		return
	}
	if dst == path {
		log.Emit(logger.WARNING, "Destination for %s equals its source, ignoring (misconfigured watch pair?)\n", path)
		return
	}

	switch kind {
	case EventDelete, EventMovedOut:
		id := uuid.New().String()
		c.pool.Submit(path, dispatch.Task{Label: "remove", ID: id, Run: func() { c.remove(id, dst) }})
	case EventCreate, EventMovedIn, EventCloseWrite:
		c.dispatchCreate(ctx, pair, path, false)
	default:
		log.Emit(logger.WARNING, "Unexpected event kind for %s\n", path)
	}
}

// dispatchCreate implements step 4 of the per-event dispatch: directories
// are ignored (their children arrive as individual events), and when
// checkExists is set (the bootstrap pass) an already-mirrored destination
// short-circuits the dispatch entirely.
func (c *Controller) dispatchCreate(ctx context.Context, pair config.WatchPair, path string, checkExists bool) {
	info, err := os.Stat(path)
	if err != nil {
		// The file may have already been removed by a racing delete;
		// nothing to mirror.
		return
	}
	if info.IsDir() {
		return
	}

	dst := pathmap.Dest(pair.Src, pair.Dst, path)
	if dst == "" || dst == path {
		return
	}

	if checkExists {
		if _, err := os.Lstat(dst); err == nil {
			return
		}
	}

	id := uuid.New().String()
	c.inflight.Add(1)
	c.pool.Submit(path, dispatch.Task{Label: "mirror", ID: id, Run: func() {
		defer c.inflight.Done()
		c.transcodeOrLink(ctx, id, path, dst)
	}})
}

// transcodeOrLink is the Transcode-or-Link step from spec.md §4.6. id
// correlates every log line this dispatch produces, across a possible
// probe -> decide -> transcode -> fallback-link chain.
func (c *Controller) transcodeOrLink(ctx context.Context, id, src, dst string) {
	inv, err := c.prober.Probe(ctx, src)
	if err != nil {
		log.Emit(logger.VERBOSE, "[%s] Probe failed for %s, treating as opaque: %v\n", id, src, err)
		c.link(id, src, dst)
		return
	}

	pol := policy.Get()
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(src), "."))
	result := decision.Decide(inv, ext, pol)

	if result.Compliant {
		c.link(id, src, dst)
		return
	}

	c.transcode(ctx, id, src, dst, result, pol)
}

func (c *Controller) link(id, src, dst string) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		log.Emit(logger.WARNING, "[%s] Creating parent directory for %s: %v\n", id, dst, err)
		return
	}

	_ = os.Remove(dst)
	if err := os.Symlink(src, dst); err != nil {
		log.Emit(logger.WARNING, "[%s] Linking %s -> %s: %v\n", id, dst, src, err)
		return
	}

	c.Stats.Linked.Add(1)
	log.Emit(logger.LINK, "[%s] %s -> %s\n", id, dst, src)
}

func (c *Controller) transcode(ctx context.Context, id, src, dst string, result decision.Result, pol *policy.Policy) {
	effectiveDst := pathmap.Rewrite(dst, result.TargetExt)

	if err := c.backend.Transcode(ctx, src, effectiveDst, result.Plan); err != nil {
		log.Emit(logger.WARNING, "[%s] Transcode failed for %s: %v\n", id, src, err)
		_ = os.Remove(effectiveDst)

		if pol != nil && pol.BackupSymlink {
			c.link(id, src, dst)
		}
		return
	}

	c.Stats.Transcoded.Add(1)
	log.Emit(logger.TRANSCODE, "[%s] %s -> %s\n", id, effectiveDst, src)
}

func (c *Controller) remove(id, dst string) {
	info, err := os.Lstat(dst)
	if err != nil {
		return
	}

	if info.IsDir() {
		err = os.RemoveAll(dst)
	} else {
		err = os.Remove(dst)
	}
	if err != nil {
		log.Emit(logger.WARNING, "[%s] Removing %s: %v\n", id, dst, err)
		return
	}

	c.Stats.Removed.Add(1)
	log.Emit(logger.REMOVE, "[%s] %s\n", id, dst)
}
