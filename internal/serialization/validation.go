package serialization

import (
	"fmt"

	"github.com/born-ml/revad/internal/tape"
)

// MaxMetadataEntries bounds the number of metadata entries in a header.
const MaxMetadataEntries = 1024

// ValidateHeader checks a decoded header against the decoded tape.
func ValidateHeader(h *Header, t *tape.Tape) error {
	if h.FormatVersion != FormatVersion {
		return &ValidationError{
			Field:   "format_version",
			Details: fmt.Sprintf("header says %d, file says %d", h.FormatVersion, FormatVersion),
		}
	}
	if h.Nodes != t.Len() {
		return &ValidationError{
			Field:   "nodes",
			Details: fmt.Sprintf("header says %d, tape has %d", h.Nodes, t.Len()),
		}
	}
	if h.Output != NoOutput && (h.Output < 0 || h.Output >= t.Len()) {
		return &ValidationError{
			Field:   "output",
			Details: fmt.Sprintf("%d not in [0, %d)", h.Output, t.Len()),
		}
	}
	if len(h.Metadata) > MaxMetadataEntries {
		return &ValidationError{
			Field:   "metadata",
			Details: fmt.Sprintf("got %d entries, max %d", len(h.Metadata), MaxMetadataEntries),
		}
	}
	return nil
}
