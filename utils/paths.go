package utils

import (
	"path"
	"strings"
)

// Workspace path helpers. Workspace paths are virtual, slash-separated and
// absolute; folder paths keep exactly one trailing slash so the flat entries
// map can serve prefix lookups for cascade operations. Two input spellings of
// the same logical location must normalize identically, which is what makes
// collision detection on create/rename correct.

// NormalizePath collapses duplicate separators and "." / ".." segments and
// returns the canonical absolute form. A trailing slash on the input (other
// than the root itself) is preserved, marking the path as a folder path.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	trailing := strings.HasSuffix(p, "/")
	cleaned := path.Clean("/" + p)
	if cleaned == "/" {
		return "/"
	}
	if trailing {
		return cleaned + "/"
	}
	return cleaned
}

// JoinPath composes a child path under a folder and normalizes it. isFolder
// appends the trailing separator that marks folder paths.
func JoinPath(folder, name string, isFolder bool) string {
	p := folder + "/" + name
	if isFolder {
		p += "/"
	}
	return NormalizePath(p)
}

// ParentPath returns the folder path containing p, always with a trailing
// slash. The parent of a top-level entry (and of the root) is "/".
func ParentPath(p string) string {
	trimmed := strings.TrimSuffix(NormalizePath(p), "/")
	if trimmed == "" {
		return "/"
	}
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return "/"
	}
	return trimmed[:idx+1]
}

// BaseName returns the final segment of p, without any trailing slash.
func BaseName(p string) string {
	trimmed := strings.TrimSuffix(NormalizePath(p), "/")
	if trimmed == "" {
		return ""
	}
	return trimmed[strings.LastIndex(trimmed, "/")+1:]
}

// IsFolderPath reports whether p denotes a folder (trailing separator).
// The root "/" is a folder path.
func IsFolderPath(p string) bool {
	return strings.HasSuffix(p, "/")
}

// HasPathPrefix reports whether p equals prefix or lives underneath it.
// prefix must be a folder path; matching is on whole segments, which the
// trailing slash guarantees ("/src/" never matches "/srcfoo").
func HasPathPrefix(p, prefix string) bool {
	if !IsFolderPath(prefix) {
		return p == prefix
	}
	return p == prefix || strings.HasPrefix(p, prefix)
}

// ReplacePathPrefix rewrites p from oldPrefix to newPrefix, used when a
// folder rename cascades to every descendant path.
func ReplacePathPrefix(p, oldPrefix, newPrefix string) string {
	if !HasPathPrefix(p, oldPrefix) {
		return p
	}
	return newPrefix + strings.TrimPrefix(p, oldPrefix)
}
