package transcodebackend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hbomb79/castmirror/internal/codec"
	"github.com/hbomb79/castmirror/internal/decision"
	"github.com/hbomb79/castmirror/internal/transcodebackend"
)

func TestBuildArgs_AllStreamsCopied(t *testing.T) {
	plan := decision.Plan{
		{StreamIndex: 0, Copy: true},
		{StreamIndex: 1, Copy: true},
	}

	got := transcodebackend.BuildArgs("/src/a.mkv", "/dst/a.mp4", plan)

	assert.Equal(t, []string{
		"-y", "-i", "/src/a.mkv", "-map", "0",
		"-c:0", "copy",
		"-c:1", "copy",
		"/dst/a.mp4",
	}, got)
}

func TestBuildArgs_SubstitutesTargetCodecForNonCopiedStream(t *testing.T) {
	plan := decision.Plan{
		{StreamIndex: 0, Copy: true},
		{StreamIndex: 1, Copy: false, TargetCodec: codec.NewID("aac")},
	}

	got := transcodebackend.BuildArgs("/src/a.mkv", "/dst/a.mp4", plan)

	assert.Equal(t, []string{
		"-y", "-i", "/src/a.mkv", "-map", "0",
		"-c:0", "copy",
		"-c:1", "aac",
		"/dst/a.mp4",
	}, got)
}

func TestBuildArgs_OrdersFlagsByAscendingStreamIndexRegardlessOfPlanOrder(t *testing.T) {
	plan := decision.Plan{
		{StreamIndex: 2, Copy: true},
		{StreamIndex: 0, Copy: false, TargetCodec: codec.NewID("h264")},
		{StreamIndex: 1, Copy: true},
	}

	got := transcodebackend.BuildArgs("/src/a.mkv", "/dst/a.mp4", plan)

	assert.Equal(t, []string{
		"-y", "-i", "/src/a.mkv", "-map", "0",
		"-c:0", "h264",
		"-c:1", "copy",
		"-c:2", "copy",
		"/dst/a.mp4",
	}, got)
}

func TestBuildArgs_DroppedStreamsProduceNoFlag(t *testing.T) {
	plan := decision.Plan{
		{StreamIndex: 0, Copy: true},
	}

	got := transcodebackend.BuildArgs("/src/a.mkv", "/dst/a.mp4", plan)

	assert.Equal(t, []string{"-y", "-i", "/src/a.mkv", "-map", "0", "-c:0", "copy", "/dst/a.mp4"}, got)
}
