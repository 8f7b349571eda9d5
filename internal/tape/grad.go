package tape

// Grad holds the derivatives produced by one backward traversal.
// It is read-only.
type Grad struct {
	tape   *Tape
	derivs []float64
}

// At returns the derivative of the traversal's output with respect to v.
//
// Nodes recorded after the traversal cannot influence its output, so their
// derivative is 0. At panics with a *ConsistencyError if v belongs to
// another tape.
func (g *Grad) At(v Var) float64 {
	if v.tape != g.tape {
		panic(&ConsistencyError{Op: "grad", Left: g.tape, Right: v.tape})
	}
	return g.AtIndex(v.index)
}

// AtIndex returns the derivative for the node at index, or 0 if the node
// did not exist when the gradient was computed.
func (g *Grad) AtIndex(index int) float64 {
	if index < 0 || index >= len(g.derivs) {
		return 0
	}
	return g.derivs[index]
}

// Len returns the number of nodes covered by the gradient.
func (g *Grad) Len() int {
	return len(g.derivs)
}

// Derivatives returns a copy of the derivative of every node, by index.
func (g *Grad) Derivatives() []float64 {
	out := make([]float64, len(g.derivs))
	copy(out, g.derivs)
	return out
}
