// Package pathmap computes destination paths from a WatchPair and a
// source path. It performs no I/O.
package pathmap

import (
	"path/filepath"
	"strings"
)

// Dest computes dst_root ⊕ (srcPath ⊖ srcRoot). When srcPath does not lie
// under srcRoot it returns "" (internal/mirror logs and ignores events for
// which this happens).
func Dest(srcRoot, dstRoot, srcPath string) string {
	rel, err := filepath.Rel(srcRoot, srcPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.Join(dstRoot, rel)
}

// Rewrite replaces destPath's extension with preferredExt. An empty
// preferredExt is a no-op: when a policy declares no supported formats,
// the format rule never fires and the destination extension must not be
// rewritten (resolved Open Question — the original implementation
// panicked attempting to index an empty list here).
func Rewrite(destPath, preferredExt string) string {
	if preferredExt == "" {
		return destPath
	}

	ext := filepath.Ext(destPath)
	base := strings.TrimSuffix(destPath, ext)
	return base + "." + strings.TrimPrefix(preferredExt, ".")
}
