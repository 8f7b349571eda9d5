package tape

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_ReplayBackward(t *testing.T) {
	tp := New()
	x := tp.Var(0.5)
	y := tp.Var(4.2)
	z := x.Mul(y).Add(x.Sin()).Div(y.Sqrt())

	data, err := cbor.Marshal(tp)
	require.NoError(t, err)

	decoded := New()
	require.NoError(t, cbor.Unmarshal(data, decoded))
	require.Equal(t, tp.Len(), decoded.Len())

	want := tp.Backward(z)
	got, err := decoded.BackwardAt(z.Index())
	require.NoError(t, err)
	assert.Equal(t, want.Derivatives(), got.Derivatives())
}

func TestEncode_RejectsForwardReference(t *testing.T) {
	rec := tapeRecord{Nodes: []nodeRecord{
		{Deps: [2]int{0, 0}},
		{Deps: [2]int{0, 2}, Weights: [2]float64{1, 1}},
	}}
	data, err := cbor.Marshal(rec)
	require.NoError(t, err)

	err = New().UnmarshalCBOR(data)
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestEncode_RejectsGarbage(t *testing.T) {
	err := New().UnmarshalCBOR([]byte{0xff, 0x00})
	assert.Error(t, err)
}

func TestEncode_Empty(t *testing.T) {
	data, err := New().MarshalCBOR()
	require.NoError(t, err)
	decoded := New()
	require.NoError(t, decoded.UnmarshalCBOR(data))
	assert.Zero(t, decoded.Len())
}
