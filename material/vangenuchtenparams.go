package material

// VanGenuchtenParams holds the shape parameters of van Genuchten's curve.
// m and n are coupled by m = 1 - 1/n; setting either one updates the other.
type VanGenuchtenParams struct {
	vgAlpha float64
	vgM     float64
	vgN     float64
}

func NewVanGenuchtenParams(vgAlpha, vgN float64) (p VanGenuchtenParams) {
	p.SetVgAlpha(vgAlpha)
	p.SetVgN(vgN)
	return
}

// VgAlpha returns the α shape parameter [1/Pa]
func (p VanGenuchtenParams) VgAlpha() float64 { return p.vgAlpha }

func (p *VanGenuchtenParams) SetVgAlpha(v float64) { p.vgAlpha = v }

func (p VanGenuchtenParams) VgM() float64 { return p.vgM }

// SetVgM sets m and with it n = 1/(1 - m)
func (p *VanGenuchtenParams) SetVgM(m float64) {
	p.vgM = m
	p.vgN = 1. / (1. - m)
}

func (p VanGenuchtenParams) VgN() float64 { return p.vgN }

// SetVgN sets n and with it m = 1 - 1/n
func (p *VanGenuchtenParams) SetVgN(n float64) {
	p.vgN = n
	p.vgM = 1. - 1./n
}
