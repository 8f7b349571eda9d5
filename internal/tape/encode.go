package tape

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// nodeRecord is the wire form of a node: [[dep0, dep1], [weight0, weight1]].
type nodeRecord struct {
	_       struct{} `cbor:",toarray"`
	Deps    [2]int
	Weights [2]float64
}

type tapeRecord struct {
	Nodes []nodeRecord `cbor:"nodes"`
}

// MarshalCBOR encodes the recorded nodes. Values are not part of the
// encoding; only the dependency structure and local partials are needed to
// replay a backward traversal.
func (t *Tape) MarshalCBOR() ([]byte, error) {
	rec := tapeRecord{Nodes: make([]nodeRecord, len(t.nodes))}
	for i, n := range t.nodes {
		rec.Nodes[i] = nodeRecord{Deps: n.deps, Weights: n.weights}
	}
	return cbor.Marshal(rec)
}

// UnmarshalCBOR replaces the tape's nodes with the decoded ones. Every
// dependency must refer to the node itself or an earlier one.
func (t *Tape) UnmarshalCBOR(data []byte) error {
	var rec tapeRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("tape: decode: %w", err)
	}
	nodes := make([]node, len(rec.Nodes))
	for i, r := range rec.Nodes {
		for k, dep := range r.Deps {
			if dep < 0 || dep > i {
				return fmt.Errorf("tape: node %d: dependency %d is %d: %w", i, k, dep, ErrInvalidNode)
			}
		}
		nodes[i] = node{deps: r.Deps, weights: r.Weights}
	}
	t.nodes = nodes
	return nil
}
