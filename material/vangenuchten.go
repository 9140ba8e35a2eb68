package material

import (
	"fmt"
	"math"
	"strings"
)

// VanGenuchten implements van Genuchten's capillary pressure curve with the
// Mualem relative permeability model. Below SwLow the capillary pressure is
// continued linearly so that it stays finite as Sw goes to zero.
type VanGenuchten struct {
	VanGenuchtenParams
	SwLow float64
}

// add law to factory
func init() {
	allocators["vg"] = func() TwoPhaseLaw { return new(VanGenuchten) }
}

func NewVanGenuchten(p VanGenuchtenParams) *VanGenuchten {
	return &VanGenuchten{VanGenuchtenParams: p, SwLow: 0.01}
}

// Init initialises the law from "alpha" and one of "vgn" or "vgm"; "swlow" is
// optional. The short names "n" and "m" are accepted for Params built in Go,
// YAML 1.1 reads a bare n key as the boolean false.
func (o *VanGenuchten) Init(prms Params) (err error) {
	var (
		ok        bool
		val       float64
		haveShape bool
	)
	o.SwLow = 0.01
	for key := range prms {
		switch strings.ToLower(key) {
		case "alpha", "vgn", "vgm", "n", "m", "swlow":
		case "false", "true":
			return fmt.Errorf("vg: parameter named %q is incorrect, a YAML key read as a boolean, use vgn or vgm", key)
		default:
			return fmt.Errorf("vg: parameter named %q is incorrect", key)
		}
	}
	if val, ok = getPrm(prms, "alpha"); !ok || val <= 0 {
		return fmt.Errorf("vg: parameter alpha must be given and positive")
	}
	o.SetVgAlpha(val)
	if val, ok = getAnyPrm(prms, "vgn", "n"); ok {
		if val <= 1 {
			return fmt.Errorf("vg: parameter vgn must be larger than one, have %g", val)
		}
		o.SetVgN(val)
		haveShape = true
	}
	if val, ok = getAnyPrm(prms, "vgm", "m"); ok {
		if val <= 0 || val >= 1 {
			return fmt.Errorf("vg: parameter vgm must be in (0,1), have %g", val)
		}
		o.SetVgM(val)
		haveShape = true
	}
	if !haveShape {
		return fmt.Errorf("vg: one of the parameters vgn or vgm must be given")
	}
	if val, ok = getPrm(prms, "swlow"); ok {
		o.SwLow = val
	}
	return
}

// GetPrms gets (an example) of parameters
func (o VanGenuchten) GetPrms(example bool) Params {
	if example {
		return Params{"alpha": 3.7e-4, "vgn": 4.7, "swlow": 0.01}
	}
	return Params{"alpha": o.VgAlpha(), "vgn": o.VgN(), "swlow": o.SwLow}
}

func (o VanGenuchten) pcRaw(Sw float64) float64 {
	m, n := o.VgM(), o.VgN()
	return math.Pow(math.Pow(Sw, -1./m)-1., 1./n) / o.VgAlpha()
}

func (o VanGenuchten) dpcRaw(Sw float64) float64 {
	m, n := o.VgM(), o.VgN()
	x := math.Pow(Sw, -1./m) - 1.
	return -1. / (o.VgAlpha() * n * m) * math.Pow(x, 1./n-1.) * math.Pow(Sw, -1./m-1.)
}

func (o VanGenuchten) Pc(Sw float64) float64 {
	switch {
	case Sw >= 1:
		return 0
	case Sw < o.SwLow:
		return o.pcRaw(o.SwLow) + o.dpcRaw(o.SwLow)*(Sw-o.SwLow)
	}
	return o.pcRaw(Sw)
}

func (o VanGenuchten) Sw(pc float64) float64 {
	if pc <= 0 {
		return 1
	}
	if pcLow := o.pcRaw(o.SwLow); pc > pcLow {
		return o.SwLow + (pc-pcLow)/o.dpcRaw(o.SwLow)
	}
	return math.Pow(math.Pow(o.VgAlpha()*pc, o.VgN())+1., -o.VgM())
}

func (o VanGenuchten) DPcDSw(Sw float64) float64 {
	switch {
	case Sw >= 1:
		return o.dpcRaw(1. - 1.e-9)
	case Sw < o.SwLow:
		return o.dpcRaw(o.SwLow)
	}
	return o.dpcRaw(Sw)
}

func (o VanGenuchten) Krw(Sw float64) float64 {
	var (
		Se = clamp(Sw, 0, 1)
		m  = o.VgM()
	)
	r := 1. - math.Pow(1.-math.Pow(Se, 1./m), m)
	return math.Sqrt(Se) * r * r
}

func (o VanGenuchten) Krn(Sw float64) float64 {
	var (
		Se = clamp(Sw, 0, 1)
		m  = o.VgM()
	)
	return math.Cbrt(1.-Se) * math.Pow(1.-math.Pow(Se, 1./m), 2.*m)
}
