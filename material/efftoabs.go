package material

import "fmt"

// EffToAbs maps absolute wetting saturations onto the effective saturation
// range of Law using the residual saturations of both phases:
//
//	Se = (Sw - Swr) / (1 - Swr - Snr)
type EffToAbs struct {
	Law TwoPhaseLaw
	Swr float64
	Snr float64
}

func (o *EffToAbs) Init(prms Params) (err error) {
	o.Swr, _ = getPrm(prms, "swr")
	o.Snr, _ = getPrm(prms, "snr")
	if o.Swr < 0 || o.Snr < 0 || o.Swr+o.Snr >= 1 {
		return fmt.Errorf("residual saturations swr=%g, snr=%g must be non-negative and sum below one",
			o.Swr, o.Snr)
	}
	return
}

func (o EffToAbs) GetPrms(example bool) (prms Params) {
	prms = o.Law.GetPrms(example)
	if example {
		prms["swr"], prms["snr"] = 0.05, 0.
		return
	}
	prms["swr"], prms["snr"] = o.Swr, o.Snr
	return
}

func (o EffToAbs) span() float64 { return 1. - o.Swr - o.Snr }

func (o EffToAbs) effective(Sw float64) float64 { return (Sw - o.Swr) / o.span() }

func (o EffToAbs) Pc(Sw float64) float64 { return o.Law.Pc(o.effective(Sw)) }

func (o EffToAbs) Sw(pc float64) float64 { return o.Law.Sw(pc)*o.span() + o.Swr }

func (o EffToAbs) DPcDSw(Sw float64) float64 {
	return o.Law.DPcDSw(o.effective(Sw)) / o.span()
}

func (o EffToAbs) Krw(Sw float64) float64 { return o.Law.Krw(o.effective(Sw)) }

func (o EffToAbs) Krn(Sw float64) float64 { return o.Law.Krn(o.effective(Sw)) }
