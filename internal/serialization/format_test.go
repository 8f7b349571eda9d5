package serialization

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/born-ml/revad/internal/tape"
)

// buildTape records z = x*y + sin(x) at x=0.5, y=4.2.
func buildTape() (*tape.Tape, tape.Var, tape.Var, tape.Var) {
	tp := tape.New()
	x := tp.Var(0.5)
	y := tp.Var(4.2)
	z := x.Mul(y).Add(x.Sin())
	return tp, x, y, z
}

func encode(t *testing.T, tp *tape.Tape, h Header) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteTape(tp, h); err != nil {
		t.Fatalf("WriteTape failed: %v", err)
	}
	return buf.Bytes()
}

// TestRoundTrip verifies that a stored tape replays the same gradient.
func TestRoundTrip(t *testing.T) {
	tp, x, y, z := buildTape()
	created := time.Date(2025, 3, 14, 15, 9, 26, 535897932, time.UTC)
	data := encode(t, tp, Header{
		Output:    z.Index(),
		CreatedAt: created,
		Metadata:  map[string]string{"expr": "x*y + sin(x)"},
	})

	if string(data[:4]) != MagicBytes {
		t.Fatalf("magic = %q, want %q", data[:4], MagicBytes)
	}
	flags := binary.LittleEndian.Uint32(data[8:12])
	if flags != FlagHasMetadata|FlagHasOutput {
		t.Errorf("flags = %b, want %b", flags, FlagHasMetadata|FlagHasOutput)
	}

	decoded, header, err := NewReader(bytes.NewReader(data)).ReadTape()
	if err != nil {
		t.Fatalf("ReadTape failed: %v", err)
	}
	if header.Nodes != tp.Len() || decoded.Len() != tp.Len() {
		t.Errorf("nodes = %d/%d, want %d", header.Nodes, decoded.Len(), tp.Len())
	}
	if header.Output != z.Index() {
		t.Errorf("Output = %d, want %d", header.Output, z.Index())
	}
	if !header.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", header.CreatedAt, created)
	}
	if header.Metadata["expr"] != "x*y + sin(x)" {
		t.Errorf("Metadata = %v", header.Metadata)
	}
	if header.RevadVersion == "" {
		t.Error("RevadVersion should be set")
	}

	grad, err := decoded.BackwardAt(header.Output)
	if err != nil {
		t.Fatalf("BackwardAt failed: %v", err)
	}
	if got, want := grad.AtIndex(x.Index()), y.Value()+math.Cos(x.Value()); math.Abs(got-want) > 1e-15 {
		t.Errorf("dz/dx = %v, want %v", got, want)
	}
	if got, want := grad.AtIndex(y.Index()), x.Value(); math.Abs(got-want) > 1e-15 {
		t.Errorf("dz/dy = %v, want %v", got, want)
	}
}

// TestFileRoundTrip exercises SaveFile and LoadFile.
func TestFileRoundTrip(t *testing.T) {
	tp, _, _, z := buildTape()
	path := filepath.Join(t.TempDir(), "expr.rvad")

	if err := SaveFile(path, tp, Header{Output: z.Index()}); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	decoded, header, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	want := tp.Backward(z).Derivatives()
	grad, err := decoded.BackwardAt(header.Output)
	if err != nil {
		t.Fatalf("BackwardAt failed: %v", err)
	}
	for i, d := range grad.Derivatives() {
		if d != want[i] {
			t.Errorf("node %d: derivative %v, want %v", i, d, want[i])
		}
	}

	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.rvad")); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
}

// TestEmptyTape verifies that an empty tape carries no output.
func TestEmptyTape(t *testing.T) {
	data := encode(t, tape.New(), Header{})
	decoded, header, err := NewReader(bytes.NewReader(data)).ReadTape()
	if err != nil {
		t.Fatalf("ReadTape failed: %v", err)
	}
	if decoded.Len() != 0 || header.Output != NoOutput {
		t.Errorf("got %d nodes, output %d; want 0 nodes, output %d", decoded.Len(), header.Output, NoOutput)
	}
}

// TestWriteValidation verifies header checks on write.
func TestWriteValidation(t *testing.T) {
	tp, _, _, _ := buildTape()

	err := NewWriter(io.Discard).WriteTape(tp, Header{Output: tp.Len()})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "output" {
		t.Errorf("WriteTape() = %v, want output ValidationError", err)
	}

	if err := NewWriter(io.Discard).WriteTape(nil, Header{}); !errors.Is(err, ErrNilTape) {
		t.Errorf("WriteTape(nil) = %v, want ErrNilTape", err)
	}
}

// TestReadErrors verifies that corrupted input is rejected.
func TestReadErrors(t *testing.T) {
	tp, _, _, z := buildTape()
	good := encode(t, tp, Header{Output: z.Index()})

	mutate := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), good...)
		return f(b)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", mutate(func(b []byte) []byte { copy(b, "BORN"); return b }), ErrInvalidMagic},
		{"bad version", mutate(func(b []byte) []byte { binary.LittleEndian.PutUint32(b[4:8], 9); return b }), ErrUnsupportedVersion},
		{"too large", mutate(func(b []byte) []byte { binary.LittleEndian.PutUint64(b[12:20], MaxPayloadSize+1); return b }), ErrPayloadTooLarge},
		{"corrupted payload", mutate(func(b []byte) []byte { b[len(b)-1] ^= 0xff; return b }), ErrChecksumMismatch},
		{"truncated payload", good[:len(good)-3], io.ErrUnexpectedEOF},
		{"truncated header", good[:10], io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewReader(bytes.NewReader(tt.data)).ReadTape()
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadTape() = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestReadFlagMismatch verifies that flags and header must agree.
func TestReadFlagMismatch(t *testing.T) {
	tp, _, _, z := buildTape()
	data := encode(t, tp, Header{Output: z.Index()})
	binary.LittleEndian.PutUint32(data[8:12], 0)

	_, _, err := NewReader(bytes.NewReader(data)).ReadTape()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("ReadTape() = %v, want ValidationError", err)
	}
}
