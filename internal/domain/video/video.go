// Package video provides YouTube video reference parsing and validation.
package video

import (
	"regexp"

	"github.com/cockroachdb/errors"
)

// ErrInvalidReference indicates the input is neither a bare video id nor a
// recognizable YouTube URL.
var ErrInvalidReference = errors.New("invalid video reference")

// idPattern matches a bare 11-character YouTube video id.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// urlPatterns match the recognized YouTube URL forms. The first capture group
// is always the video id.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:[^#&]*&)*v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
}

// ExtractID returns the 11-character video id for a reference.
// A bare id is returned as-is; a URL reference is reduced to the id it carries.
func ExtractID(ref string) (string, error) {
	if idPattern.MatchString(ref) {
		return ref, nil
	}

	for _, pattern := range urlPatterns {
		if m := pattern.FindStringSubmatch(ref); m != nil {
			return m[1], nil
		}
	}

	return "", errors.Wrapf(ErrInvalidReference, "%q", ref)
}

// Validate checks that a reference is acceptable for queueing.
func Validate(ref string) error {
	_, err := ExtractID(ref)
	return err
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
