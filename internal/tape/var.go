package tape

import "math"

// Var is a value tracked on a Tape: the numeric value plus the index of the
// node that produced it. Vars are small values meant to be passed by copy.
// The zero Var is not attached to any tape and cannot be used in operations.
type Var struct {
	tape  *Tape
	index int
	value float64
}

// Value returns the numeric value.
func (v Var) Value() float64 {
	return v.value
}

// Index returns the node index on the owning tape.
func (v Var) Index() int {
	return v.index
}

// Tape returns the tape that recorded v.
func (v Var) Tape() *Tape {
	return v.tape
}

// Grad runs a backward traversal with v as the output.
func (v Var) Grad() *Grad {
	return v.recorded("grad").Backward(v)
}

func (v Var) recorded(op string) *Tape {
	if v.tape == nil {
		panic(&ConsistencyError{Op: op})
	}
	return v.tape
}

// shared returns the tape of a and b, panicking if they differ.
func shared(op string, a, b Var) *Tape {
	if a.tape == nil || a.tape != b.tape {
		panic(&ConsistencyError{Op: op, Left: a.tape, Right: b.tape})
	}
	return a.tape
}

func (v Var) unary(op string, value, partial float64) Var {
	t := v.recorded(op)
	return Var{tape: t, index: t.push1(v.index, partial), value: value}
}

// Add returns v + w.
//
// d(v+w)/dv = 1, d(v+w)/dw = 1.
func (v Var) Add(w Var) Var {
	t := shared("add", v, w)
	return Var{tape: t, index: t.push2(v.index, 1, w.index, 1), value: v.value + w.value}
}

// Sub returns v - w.
//
// d(v-w)/dv = 1, d(v-w)/dw = -1.
func (v Var) Sub(w Var) Var {
	t := shared("sub", v, w)
	return Var{tape: t, index: t.push2(v.index, 1, w.index, -1), value: v.value - w.value}
}

// Mul returns v * w.
//
// d(v*w)/dv = w, d(v*w)/dw = v.
func (v Var) Mul(w Var) Var {
	t := shared("mul", v, w)
	return Var{tape: t, index: t.push2(v.index, w.value, w.index, v.value), value: v.value * w.value}
}

// Div returns v / w.
//
// d(v/w)/dv = 1/w, d(v/w)/dw = -v/w².
func (v Var) Div(w Var) Var {
	t := shared("div", v, w)
	inv := 1 / w.value
	return Var{tape: t, index: t.push2(v.index, inv, w.index, -v.value*inv*inv), value: v.value / w.value}
}

// Neg returns -v.
func (v Var) Neg() Var {
	return v.unary("neg", -v.value, -1)
}

// Scale returns c * v for a constant c.
func (v Var) Scale(c float64) Var {
	return v.unary("scale", c*v.value, c)
}

// AddConst returns v + c for a constant c.
func (v Var) AddConst(c float64) Var {
	return v.unary("add_const", v.value+c, 1)
}

// Sin returns sin(v). d(sin(v))/dv = cos(v).
func (v Var) Sin() Var {
	return v.unary("sin", math.Sin(v.value), math.Cos(v.value))
}

// Cos returns cos(v). d(cos(v))/dv = -sin(v).
func (v Var) Cos() Var {
	return v.unary("cos", math.Cos(v.value), -math.Sin(v.value))
}

// Exp returns e^v. d(e^v)/dv = e^v.
func (v Var) Exp() Var {
	e := math.Exp(v.value)
	return v.unary("exp", e, e)
}

// Log returns ln(v). d(ln(v))/dv = 1/v.
func (v Var) Log() Var {
	return v.unary("log", math.Log(v.value), 1/v.value)
}

// Sqrt returns √v. d(√v)/dv = 1/(2√v).
func (v Var) Sqrt() Var {
	s := math.Sqrt(v.value)
	return v.unary("sqrt", s, 0.5/s)
}

// Tanh returns tanh(v). d(tanh(v))/dv = 1 - tanh²(v).
func (v Var) Tanh() Var {
	th := math.Tanh(v.value)
	return v.unary("tanh", th, 1-th*th)
}

// Pow returns v^c for a constant exponent c. d(v^c)/dv = c·v^(c-1).
func (v Var) Pow(c float64) Var {
	return v.unary("pow", math.Pow(v.value, c), c*math.Pow(v.value, c-1))
}
