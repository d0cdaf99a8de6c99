// Package transcodebackend drives the external media toolchain that
// performs the actual transcode: given a source file, a destination path
// and a Plan, it invokes the backend and reports success or failure by
// exit status alone.
package transcodebackend

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/hbomb79/castmirror/internal/decision"
	"github.com/hbomb79/castmirror/pkg/logger"
)

var log = logger.Get("Backend")

// Adapter is the Transcoding Backend Adapter contract: the Mirror
// Controller depends on this interface, not on ffmpeg directly, so tests
// can substitute a fake backend.
type Adapter interface {
	Transcode(ctx context.Context, src, dst string, plan decision.Plan) error
}

// FFmpegAdapter shells out to a local ffmpeg binary using the exact CLI
// contract spec.md §6 mandates: one input, `-map 0`, one `-c:<index>`
// flag per retained stream in ascending index order, overwrite without
// prompting, destination as the final positional argument. Stdout/stderr
// are inherited; the adapter never parses them, matching the backend's
// documented boundary (exit status is the sole success signal).
type FFmpegAdapter struct {
	BinPath string
}

func (a FFmpegAdapter) Transcode(ctx context.Context, src, dst string, plan decision.Plan) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("preparing destination directory for %s: %w", dst, err)
	}

	args := BuildArgs(src, dst, plan)

	bin := a.BinPath
	if bin == "" {
		bin = "ffmpeg"
	}

	log.Emit(logger.TRANSCODE, "%s %v\n", bin, args)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("transcoding %s -> %s: %w", src, dst, err)
	}

	return nil
}

// BuildArgs assembles the ffmpeg argv for src/dst/plan per spec.md §6: one
// input, `-map 0`, one `-c:<index>` flag per retained stream in ascending
// index order, overwrite without prompting.
func BuildArgs(src, dst string, plan decision.Plan) []string {
	sorted := make(decision.Plan, len(plan))
	copy(sorted, plan)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StreamIndex < sorted[j].StreamIndex })

	args := []string{"-y", "-i", src, "-map", "0"}
	for _, task := range sorted {
		flag := fmt.Sprintf("-c:%d", task.StreamIndex)
		if task.Copy {
			args = append(args, flag, "copy")
		} else {
			args = append(args, flag, task.TargetCodec.String())
		}
	}
	args = append(args, dst)

	return args
}
