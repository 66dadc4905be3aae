package docstore

import (
	"strings"

	"github.com/geocards/geocards-api/internal/errors"
)

const forbiddenSegmentChars = ".#$[]"

// SplitPath validates path and returns its segments
func SplitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, errors.InvalidArgument("path is required")
	}

	segs := strings.Split(trimmed, "/")
	for _, seg := range segs {
		if err := ValidateSegment(seg); err != nil {
			return nil, errors.Wrapf(err, "invalid path %q", path)
		}
	}
	return segs, nil
}

// ValidateSegment rejects empty segments, separators and any of .#$[]
func ValidateSegment(seg string) error {
	if seg == "" {
		return errors.InvalidArgument("path segment cannot be empty")
	}
	if strings.Contains(seg, "/") {
		return errors.InvalidArgumentf("path segment %q cannot contain /", seg)
	}
	if strings.ContainsAny(seg, forbiddenSegmentChars) {
		return errors.InvalidArgumentf("path segment %q cannot contain any of %q", seg, forbiddenSegmentChars)
	}
	return nil
}

// Join builds a path from segments
func Join(segs ...string) string {
	return strings.Join(segs, "/")
}

// related reports whether a write at a can change the value at b
func related(a, b []string) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
