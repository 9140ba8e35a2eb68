package primaryvars

import "fmt"

// Evaluation is a value together with its derivatives with respect to the
// primary variables of one DOF (forward mode automatic differentiation).
type Evaluation struct {
	Value  float64
	Derivs []float64
}

// Constant returns an evaluation with all derivatives zero
func Constant(value float64, numVars int) Evaluation {
	return Evaluation{Value: value, Derivs: make([]float64, numVars)}
}

// Variable returns an evaluation representing f = x_varIdx
func Variable(value float64, varIdx, numVars int) (e Evaluation) {
	e = Constant(value, numVars)
	e.Derivs[varIdx] = 1
	return
}

func (e Evaluation) NumVars() int { return len(e.Derivs) }

func (e Evaluation) checkSize(o Evaluation) {
	if len(e.Derivs) != len(o.Derivs) {
		panic(fmt.Errorf("evaluations differ in number of derivatives: %d and %d",
			len(e.Derivs), len(o.Derivs)))
	}
}

func (e Evaluation) Add(o Evaluation) (r Evaluation) {
	e.checkSize(o)
	r = Constant(e.Value+o.Value, len(e.Derivs))
	for i := range r.Derivs {
		r.Derivs[i] = e.Derivs[i] + o.Derivs[i]
	}
	return
}

func (e Evaluation) Sub(o Evaluation) (r Evaluation) {
	e.checkSize(o)
	r = Constant(e.Value-o.Value, len(e.Derivs))
	for i := range r.Derivs {
		r.Derivs[i] = e.Derivs[i] - o.Derivs[i]
	}
	return
}

func (e Evaluation) Mul(o Evaluation) (r Evaluation) {
	e.checkSize(o)
	r = Constant(e.Value*o.Value, len(e.Derivs))
	for i := range r.Derivs {
		r.Derivs[i] = e.Derivs[i]*o.Value + e.Value*o.Derivs[i]
	}
	return
}

func (e Evaluation) Div(o Evaluation) (r Evaluation) {
	e.checkSize(o)
	var (
		oov = 1. / o.Value
	)
	r = Constant(e.Value*oov, len(e.Derivs))
	for i := range r.Derivs {
		r.Derivs[i] = (e.Derivs[i]*o.Value - e.Value*o.Derivs[i]) * oov * oov
	}
	return
}

// Scale multiplies value and derivatives by a
func (e Evaluation) Scale(a float64) (r Evaluation) {
	r = Constant(a*e.Value, len(e.Derivs))
	for i := range r.Derivs {
		r.Derivs[i] = a * e.Derivs[i]
	}
	return
}
