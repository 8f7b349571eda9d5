// Package tape implements scalar reverse-mode automatic differentiation on a
// Wengert list.
//
// Every operation on a Var appends one node to its Tape recording up to two
// dependencies and the local partial derivative with respect to each. A
// single backward traversal over the nodes, newest first, then yields the
// derivative of one output with respect to every node on the tape.
//
// Usage:
//
//	t := tape.New()
//	x := t.Var(0.5)
//	y := t.Var(4.2)
//	z := x.Mul(y).Add(x.Sin())
//	grad := t.Backward(z)
//	dzdx := grad.At(x) // y + cos(x)
//
// A Tape is append-only and not safe for concurrent use; give each goroutine
// its own tape or serialize access externally.
package tape

// node is one entry of the Wengert list. Unused dependency slots point at the
// node itself with a zero weight.
type node struct {
	weights [2]float64
	deps    [2]int
}

// Tape records elementary operations for reverse-mode differentiation.
type Tape struct {
	nodes []node
}

// New creates an empty tape.
func New() *Tape {
	return &Tape{
		nodes: make([]node, 0, 64),
	}
}

// Len returns the number of recorded nodes.
func (t *Tape) Len() int {
	return len(t.nodes)
}

// Var records a new independent variable with the given value.
func (t *Tape) Var(value float64) Var {
	return Var{
		tape:  t,
		index: t.push0(),
		value: value,
	}
}

func (t *Tape) push0() int {
	n := len(t.nodes)
	t.nodes = append(t.nodes, node{deps: [2]int{n, n}})
	return n
}

func (t *Tape) push1(dep0 int, weight0 float64) int {
	n := len(t.nodes)
	t.nodes = append(t.nodes, node{
		weights: [2]float64{weight0, 0},
		deps:    [2]int{dep0, n},
	})
	return n
}

func (t *Tape) push2(dep0 int, weight0 float64, dep1 int, weight1 float64) int {
	n := len(t.nodes)
	t.nodes = append(t.nodes, node{
		weights: [2]float64{weight0, weight1},
		deps:    [2]int{dep0, dep1},
	})
	return n
}

// Backward computes the derivative of out with respect to every node
// recorded so far.
//
// Algorithm:
//  1. Allocate a zeroed derivative per node and seed out's slot with 1
//  2. Walk nodes from the newest to the oldest
//  3. Add weight[k] * derivative[node] into derivative[dep[k]]
//
// The tape is not modified; calling Backward again recomputes the same
// result from scratch.
func (t *Tape) Backward(out Var) *Grad {
	t.mustOwn(out, "backward")
	return t.backward(out.index)
}

// BackwardAt is Backward for a node identified by index, for tapes that were
// decoded rather than built through Var handles.
func (t *Tape) BackwardAt(index int) (*Grad, error) {
	if index < 0 || index >= len(t.nodes) {
		return nil, &IndexError{Index: index, Len: len(t.nodes)}
	}
	return t.backward(index), nil
}

func (t *Tape) backward(out int) *Grad {
	derivs := make([]float64, len(t.nodes))
	derivs[out] = 1.0
	for i := len(t.nodes) - 1; i >= 0; i-- {
		n := t.nodes[i]
		d := derivs[i]
		for k := 0; k < 2; k++ {
			derivs[n.deps[k]] += n.weights[k] * d
		}
	}
	return &Grad{tape: t, derivs: derivs}
}

func (t *Tape) mustOwn(v Var, op string) {
	if v.tape != t {
		panic(&ConsistencyError{Op: op, Left: t, Right: v.tape})
	}
}
