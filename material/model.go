// Package material implements two-phase capillary pressure and relative
// permeability closure laws (van Genuchten, Brooks-Corey) in terms of the
// wetting phase saturation.
package material

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notargets/goporous/fluids"
)

// Params are named scalar law parameters, e.g. {"alpha": 3.7e-4, "vgn": 4.7}
type Params map[string]float64

// TwoPhaseLaw relates wetting saturation Sw to capillary pressure and to the
// relative permeabilities of both phases.
type TwoPhaseLaw interface {
	Init(prms Params) error
	GetPrms(example bool) Params
	Pc(Sw float64) float64     // capillary pressure pn - pw [Pa]
	Sw(pc float64) float64     // inverse of Pc
	DPcDSw(Sw float64) float64 // slope of Pc
	Krw(Sw float64) float64    // wetting relative permeability
	Krn(Sw float64) float64    // non-wetting relative permeability
}

// allocators holds all available laws
var allocators = map[string]func() TwoPhaseLaw{}

// New allocates and initialises the law named name. The residual saturations
// "swr" and "snr" are taken out of prms and applied by an EffToAbs wrapper;
// the remaining parameters go to the law itself.
func New(name string, prms Params) (law TwoPhaseLaw, err error) {
	allocator, ok := allocators[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("material law %q is not available, use one of %v", name, Names())
	}
	var (
		inner    = allocator()
		lawPrms  = make(Params)
		residual = make(Params)
	)
	for key, val := range prms {
		switch strings.ToLower(key) {
		case "swr", "snr":
			residual[strings.ToLower(key)] = val
		default:
			lawPrms[key] = val
		}
	}
	if err = inner.Init(lawPrms); err != nil {
		return nil, err
	}
	if len(residual) == 0 {
		return inner, nil
	}
	eta := &EffToAbs{Law: inner}
	if err = eta.Init(residual); err != nil {
		return nil, err
	}
	return eta, nil
}

// Names returns the sorted names of the available laws
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// TwoPhaseMaterialLaw evaluates per-DOF laws against a fluid state
type TwoPhaseMaterialLaw struct{}

// RelativePermeabilities fills kr[wetting] and kr[non-wetting] using the
// TwoPhaseLaw passed as params and the wetting saturation of fs.
func (TwoPhaseMaterialLaw) RelativePermeabilities(kr []float64, params any, fs fluids.FluidState) error {
	law, ok := params.(TwoPhaseLaw)
	if !ok {
		return fmt.Errorf("material law params of type %T are not a two phase law", params)
	}
	if len(kr) < fluids.NumPhases {
		return fmt.Errorf("relative permeability output needs %d entries, have %d", fluids.NumPhases, len(kr))
	}
	Sw := fs.Saturation(fluids.WettingPhase)
	kr[fluids.WettingPhase] = law.Krw(Sw)
	kr[fluids.NonWettingPhase] = law.Krn(Sw)
	return nil
}

// CapillaryPressures fills pc[non-wetting] with Pc(Sw); the wetting entry is
// zero, so that p[phase] = p[w] + pc[phase].
func (TwoPhaseMaterialLaw) CapillaryPressures(pc []float64, params any, fs fluids.FluidState) error {
	law, ok := params.(TwoPhaseLaw)
	if !ok {
		return fmt.Errorf("material law params of type %T are not a two phase law", params)
	}
	pc[fluids.WettingPhase] = 0
	pc[fluids.NonWettingPhase] = law.Pc(fs.Saturation(fluids.WettingPhase))
	return nil
}

func clamp(x, lo, hi float64) float64 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	}
	return x
}

// getAnyPrm returns the first of names present in prms
func getAnyPrm(prms Params, names ...string) (val float64, ok bool) {
	for _, name := range names {
		if val, ok = getPrm(prms, name); ok {
			return
		}
	}
	return
}

func getPrm(prms Params, name string) (val float64, ok bool) {
	for key, v := range prms {
		if strings.EqualFold(key, name) {
			return v, true
		}
	}
	return
}
