package serialization

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/born-ml/revad/internal/tape"
	"github.com/fxamacker/cbor/v2"
)

// encMode keeps sub-second precision of Header.CreatedAt.
var encMode = mustEncMode(cbor.EncOptions{Time: cbor.TimeRFC3339Nano})

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("serialization: invalid CBOR options: %v", err))
	}
	return em
}

// Writer writes tapes in .rvad format.
type Writer struct {
	w io.Writer
}

// NewWriter creates a .rvad writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteTape writes t with the given header.
//
// FormatVersion, RevadVersion and Nodes are filled in; CreatedAt defaults to
// the current time. An empty tape is always written with Output = NoOutput.
func (w *Writer) WriteTape(t *tape.Tape, header Header) error {
	if t == nil {
		return ErrNilTape
	}
	header.FormatVersion = FormatVersion
	header.RevadVersion = revadVersion
	header.Nodes = t.Len()
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if t.Len() == 0 {
		header.Output = NoOutput
	}
	if err := ValidateHeader(&header, t); err != nil {
		return fmt.Errorf("failed to validate header: %w", err)
	}

	body, err := encMode.Marshal(payload{Header: header, Tape: t})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if len(body) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(body))
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Output != NoOutput {
		flags |= FlagHasOutput
	}

	var fixed bytes.Buffer
	fixed.Grow(FixedHeaderSize)
	fixed.WriteString(MagicBytes)
	_ = binary.Write(&fixed, binary.LittleEndian, uint32(FormatVersion))
	_ = binary.Write(&fixed, binary.LittleEndian, flags)
	_ = binary.Write(&fixed, binary.LittleEndian, uint64(len(body)))
	checksum := ComputeChecksum(body)
	fixed.Write(checksum[:])

	if _, err := w.w.Write(fixed.Bytes()); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.w.Write(body); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// SaveFile writes t to a .rvad file at path.
func SaveFile(path string, t *tape.Tape, header Header) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return NewWriter(file).WriteTape(t, header)
}
