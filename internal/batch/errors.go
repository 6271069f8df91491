package batch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetch marks transport, HTTP status, or write failures while
	// downloading an asset.
	ErrFetch = errors.New("fetch error")
	// ErrAnchorNotFound marks a page whose markup lacks the configured anchor.
	ErrAnchorNotFound = errors.New("anchor not found")
	// ErrNotFound marks a catalog entry whose page source file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration marks invalid configuration or catalog data.
	ErrConfiguration = errors.New("configuration error")
	// ErrIO marks local filesystem failures while reading or writing a page.
	ErrIO = errors.New("io error")
)

// Wrap builds an error message that includes phase and page context while
// tagging it with the provided marker. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, phase Phase, pageID, message string, err error) error {
	detail := buildDetail(string(phase), pageID, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify returns the status an error should be reported with. A nil error
// has no status.
func Classify(err error) Status {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAnchorNotFound):
		return StatusWarned
	case errors.Is(err, ErrNotFound):
		return StatusSkipped
	default:
		return StatusFailed
	}
}

func buildDetail(phase, pageID, message string) string {
	parts := make([]string, 0, 3)
	if phase = strings.TrimSpace(phase); phase != "" {
		parts = append(parts, phase)
	}
	if pageID = strings.TrimSpace(pageID); pageID != "" {
		parts = append(parts, pageID)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "batch failure"
	}
	return strings.Join(parts, ": ")
}
