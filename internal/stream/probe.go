package stream

import (
	"context"
	"fmt"

	"github.com/floostack/transcoder/ffmpeg"
	"github.com/hbomb79/castmirror/internal/codec"
	"github.com/hbomb79/castmirror/pkg/logger"
)

var log = logger.Get("Inventory")

// Prober probes a media file and returns its Inventory. Implemented by
// FFmpegProber against a real backend; tests supply a fake.
type Prober interface {
	Probe(ctx context.Context, path string) (Inventory, error)
}

// FFmpegProber probes files with ffprobe through the transcoder library's
// metadata API. Each Entry.Index is the stream index ffprobe reports,
// which is the index the transcoding backend adapter's `-c:<index>` flags
// refer to.
type FFmpegProber struct {
	FfmpegBinPath  string
	FfprobeBinPath string
}

func (p FFmpegProber) Probe(ctx context.Context, path string) (Inventory, error) {
	transcoderInstance := ffmpeg.New(&ffmpeg.Config{
		FfmpegBinPath:  p.FfmpegBinPath,
		FfprobeBinPath: p.FfprobeBinPath,
	}).Input(path).WithContext(&ctx)

	metadata, err := transcoderInstance.GetMetadata()
	if err != nil {
		return Inventory{}, fmt.Errorf("probing %s: %w", path, err)
	}

	inv := Inventory{Format: metadata.GetFormatName()}
	for _, s := range metadata.GetStreams() {
		lang := ""
		if tags := s.GetTags(); tags != nil {
			if l, ok := tags["language"].(string); ok {
				lang = l
			}
		}

		inv.Entries = append(inv.Entries, Entry{
			Index:    s.GetIndex(),
			Kind:     kindFromCodecType(s.GetCodecType()),
			CodecID:  codec.NewID(s.GetCodecName()),
			Language: lang,
		})
	}

	log.Emit(logger.VERBOSE, "Probed %s: format=%s streams=%d\n", path, inv.Format, len(inv.Entries))

	return inv, nil
}
