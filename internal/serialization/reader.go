package serialization

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/revad/internal/tape"
	"github.com/fxamacker/cbor/v2"
)

// Reader reads tapes from .rvad format.
type Reader struct {
	r io.Reader
}

// NewReader creates a .rvad reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadTape reads one tape and its header, verifying the checksum.
func (r *Reader) ReadTape() (*tape.Tape, Header, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r.r, fixed); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, Header{}, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(fixed[4:8])
	if version != FormatVersion {
		return nil, Header{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	flags := binary.LittleEndian.Uint32(fixed[8:12])
	size := binary.LittleEndian.Uint64(fixed[12:20])
	if size > MaxPayloadSize {
		return nil, Header{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, size)
	}
	var stored [ChecksumSize]byte
	copy(stored[:], fixed[20:FixedHeaderSize])

	body := make([]byte, size)
	if _, err := io.ReadFull(r.r, body); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read payload: %w", err)
	}
	if err := ValidateChecksum(body, stored); err != nil {
		return nil, Header{}, err
	}

	var p payload
	if err := cbor.Unmarshal(body, &p); err != nil {
		return nil, Header{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	if p.Tape == nil {
		p.Tape = tape.New()
	}
	if err := ValidateHeader(&p.Header, p.Tape); err != nil {
		return nil, Header{}, fmt.Errorf("validation failed: %w", err)
	}
	if hasOutput := flags&FlagHasOutput != 0; hasOutput != (p.Header.Output != NoOutput) {
		return nil, Header{}, &ValidationError{
			Field:   "output",
			Details: fmt.Sprintf("flags say output=%v, header says %d", hasOutput, p.Header.Output),
		}
	}
	return p.Tape, p.Header, nil
}

// LoadFile reads a .rvad file from path.
func LoadFile(path string) (t *tape.Tape, h Header, err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return NewReader(file).ReadTape()
}
