package config

import (
	"fmt"
	"strings"
)

// WatchPair is an immutable (source-root, destination-root) pair, parsed
// from a compact textual form `src<sep>dst` where `<sep>` is the first
// occurrence of one of `:,;= ` in the string — exactly the separator set
// and first-match rule the original implementation used.
type WatchPair struct {
	Src string
	Dst string
}

const watchPairSeparators = ":,;= "

// ParseWatchPair parses a single positional CLI argument into a
// WatchPair.
func ParseWatchPair(raw string) (WatchPair, error) {
	idx := strings.IndexAny(raw, watchPairSeparators)
	if idx < 0 {
		return WatchPair{}, fmt.Errorf("watch pair %q has no recognised separator (one of %q)", raw, watchPairSeparators)
	}

	src := raw[:idx]
	dst := raw[idx+1:]
	if src == "" || dst == "" {
		return WatchPair{}, fmt.Errorf("watch pair %q is missing a source or destination root", raw)
	}

	return WatchPair{Src: src, Dst: dst}, nil
}

// ParseWatchPairs parses every positional argument, failing on the first
// invalid one.
func ParseWatchPairs(raw []string) ([]WatchPair, error) {
	pairs := make([]WatchPair, 0, len(raw))
	for _, r := range raw {
		p, err := ParseWatchPair(r)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}
