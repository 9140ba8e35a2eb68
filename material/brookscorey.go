package material

import (
	"fmt"
	"math"
	"strings"
)

// BrooksCorey implements the Brooks-Corey capillary pressure curve with the
// Burdine relative permeability model
type BrooksCorey struct {
	Pe     float64 // entry pressure [Pa]
	Lambda float64 // pore size distribution index
	SwLow  float64
}

func init() {
	allocators["bc"] = func() TwoPhaseLaw { return new(BrooksCorey) }
}

// Init initialises the law from "pe" and "lambda"; "swlow" is optional
func (o *BrooksCorey) Init(prms Params) (err error) {
	var ok bool
	o.SwLow = 0.01
	for key := range prms {
		switch strings.ToLower(key) {
		case "pe", "lambda", "swlow":
		default:
			return fmt.Errorf("bc: parameter named %q is incorrect", key)
		}
	}
	if o.Pe, ok = getPrm(prms, "pe"); !ok || o.Pe <= 0 {
		return fmt.Errorf("bc: parameter pe must be given and positive")
	}
	if o.Lambda, ok = getPrm(prms, "lambda"); !ok || o.Lambda <= 0 {
		return fmt.Errorf("bc: parameter lambda must be given and positive")
	}
	if val, ok := getPrm(prms, "swlow"); ok {
		o.SwLow = val
	}
	return
}

func (o BrooksCorey) GetPrms(example bool) Params {
	if example {
		return Params{"pe": 500., "lambda": 2., "swlow": 0.01}
	}
	return Params{"pe": o.Pe, "lambda": o.Lambda, "swlow": o.SwLow}
}

func (o BrooksCorey) pcRaw(Sw float64) float64 {
	return o.Pe * math.Pow(Sw, -1./o.Lambda)
}

func (o BrooksCorey) dpcRaw(Sw float64) float64 {
	return -o.Pe / o.Lambda * math.Pow(Sw, -1./o.Lambda-1.)
}

func (o BrooksCorey) Pc(Sw float64) float64 {
	switch {
	case Sw >= 1:
		return o.Pe
	case Sw < o.SwLow:
		return o.pcRaw(o.SwLow) + o.dpcRaw(o.SwLow)*(Sw-o.SwLow)
	}
	return o.pcRaw(Sw)
}

func (o BrooksCorey) Sw(pc float64) float64 {
	if pc <= o.Pe {
		return 1
	}
	if pcLow := o.pcRaw(o.SwLow); pc > pcLow {
		return o.SwLow + (pc-pcLow)/o.dpcRaw(o.SwLow)
	}
	return math.Pow(pc/o.Pe, -o.Lambda)
}

func (o BrooksCorey) DPcDSw(Sw float64) float64 {
	switch {
	case Sw >= 1:
		return o.dpcRaw(1)
	case Sw < o.SwLow:
		return o.dpcRaw(o.SwLow)
	}
	return o.dpcRaw(Sw)
}

func (o BrooksCorey) Krw(Sw float64) float64 {
	Se := clamp(Sw, 0, 1)
	return math.Pow(Se, 2./o.Lambda+3.)
}

func (o BrooksCorey) Krn(Sw float64) float64 {
	Se := clamp(Sw, 0, 1)
	return (1. - Se) * (1. - Se) * (1. - math.Pow(Se, 2./o.Lambda+1.))
}
