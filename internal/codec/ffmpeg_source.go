package codec

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// FFmpegSource queries a local ffmpeg binary's `-encoders`/`-decoders`
// listings. The output of both flags shares the same fixed-width format:
// a flag column followed by the short name and a long description.
type FFmpegSource struct {
	BinPath string
}

var listingLine = regexp.MustCompile(`^\s*([VASDEIL.]{6})\s+(\S+)\s+(.*)$`)

func (s FFmpegSource) Decoders(ctx context.Context) ([]Codec, error) {
	return s.list(ctx, "-decoders", false)
}

func (s FFmpegSource) Encoders(ctx context.Context) ([]Codec, error) {
	return s.list(ctx, "-encoders", true)
}

func (s FFmpegSource) list(ctx context.Context, flag string, encodable bool) ([]Codec, error) {
	bin := s.BinPath
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, flag)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running %s %s: %w", bin, flag, err)
	}

	var codecs []Codec
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	inTable := false
	for scanner.Scan() {
		line := scanner.Text()
		if !inTable {
			if strings.HasPrefix(strings.TrimSpace(line), "---") {
				inTable = true
			}
			continue
		}

		match := listingLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		codecs = append(codecs, Codec{
			ID:        NewID(match[2]),
			Long:      strings.TrimSpace(match[3]),
			Kind:      kindFromFlag(match[1][0]),
			Decodable: !encodable,
			Encodable: encodable,
		})
	}

	return codecs, scanner.Err()
}

func kindFromFlag(flag byte) Kind {
	switch flag {
	case 'V':
		return KindVideo
	case 'A':
		return KindAudio
	case 'S':
		return KindSubtitle
	default:
		return KindOther
	}
}
