// Package ioutils provides file system utilities shared by the pipeline.
package ioutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/music/Artist/Album")
//	// Creates /music, /music/Artist, and /music/Artist/Album if needed
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// UniquePath returns path if nothing exists there, otherwise the first
// suffixed variant that is free: "name (2).ext", "name (3).ext", and so on.
//
// Concurrent runs write distinct files through deterministic naming plus
// this uniqueness fallback; nothing is ever silently overwritten.
//
// Example:
//
//	// With "/music/Song.mp3" already on disk:
//	p := UniquePath("/music/Song.mp3") // "/music/Song (2).mp3"
func UniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
