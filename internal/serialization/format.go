package serialization

import (
	"time"

	"github.com/born-ml/revad/internal/tape"
)

// Format constants.
const (
	MagicBytes      = "RVAD"
	FormatVersion   = 1
	ChecksumSize    = 32                           // SHA-256
	FixedHeaderSize = 4 + 4 + 4 + 8 + ChecksumSize // magic, version, flags, size, checksum
	MaxPayloadSize  = 1 << 30                      // 1GB
	NoOutput        = -1                           // Header.Output when no output node is recorded
	revadVersion    = "0.1.0"
)

// Flags for the .rvad format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
	FlagHasOutput   uint32 = 1 << 1 // bit 1: header names an output node
)

// Header describes a stored tape.
type Header struct {
	FormatVersion int               `cbor:"format_version"`
	RevadVersion  string            `cbor:"revad_version"`
	CreatedAt     time.Time         `cbor:"created_at"`
	Nodes         int               `cbor:"nodes"`    // number of nodes on the tape
	Output        int               `cbor:"output"`   // node to seed a backward traversal from, or NoOutput
	Metadata      map[string]string `cbor:"metadata"` // custom metadata
}

// payload is the CBOR body of a .rvad file.
type payload struct {
	Header Header     `cbor:"header"`
	Tape   *tape.Tape `cbor:"tape"`
}
