package fluids

import "fmt"

// TwoPhaseFluidState is the phase state of the immiscible two-phase model,
// calculated from the non-wetting saturation and both phase pressures.
type TwoPhaseFluidState struct {
	fsys          FluidSystem
	Sn            float64
	PhasePressure [NumPhases]float64
	PhaseDensity  [NumPhases]float64
	Temp          float64
}

func NewTwoPhaseFluidState(fsys FluidSystem) (fs *TwoPhaseFluidState) {
	if fsys.NumPhases() != NumPhases {
		panic(fmt.Errorf("two phase fluid state needs a fluid system with %d phases, have %d",
			NumPhases, fsys.NumPhases()))
	}
	fs = &TwoPhaseFluidState{fsys: fsys}
	return
}

// Update sets the state and evaluates both phase densities at their own
// phase pressure.
func (fs *TwoPhaseFluidState) Update(Sn, pressW, pressN, temperature float64) {
	fs.Sn = Sn
	fs.PhasePressure[WettingPhase] = pressW
	fs.PhasePressure[NonWettingPhase] = pressN
	fs.Temp = temperature
	fs.PhaseDensity[WettingPhase] = fs.fsys.PhaseDensity(WettingPhase, temperature, pressW)
	fs.PhaseDensity[NonWettingPhase] = fs.fsys.PhaseDensity(NonWettingPhase, temperature, pressN)
}

// Assign copies the state of other into fs
func (fs *TwoPhaseFluidState) Assign(other *TwoPhaseFluidState) {
	*fs = *other
}

func (fs *TwoPhaseFluidState) FluidSystem() FluidSystem { return fs.fsys }

// Saturation returns the saturation of a phase
func (fs *TwoPhaseFluidState) Saturation(phaseIdx int) float64 {
	if phaseIdx == WettingPhase {
		return 1. - fs.Sn
	}
	return fs.Sn
}

// MassFrac returns the mass fraction of a component in a phase. Each phase
// consists only of the component with the same index.
func (fs *TwoPhaseFluidState) MassFrac(phaseIdx, compIdx int) float64 {
	if compIdx == phaseIdx {
		return 1.
	}
	return 0
}

func (fs *TwoPhaseFluidState) MoleFrac(phaseIdx, compIdx int) float64 {
	return fs.MassFrac(phaseIdx, compIdx)
}

// TotalConcentration returns the molar concentration of a phase [mol/m³]
func (fs *TwoPhaseFluidState) TotalConcentration(phaseIdx int) float64 {
	return fs.PhaseDensity[phaseIdx] / fs.fsys.MolarMass(phaseIdx)
}

// Concentration returns the concentration of a component in a phase [mol/m³]
func (fs *TwoPhaseFluidState) Concentration(phaseIdx, compIdx int) float64 {
	if phaseIdx == compIdx {
		return fs.TotalConcentration(phaseIdx)
	}
	return 0
}

// Density returns the density of a phase [kg/m³]
func (fs *TwoPhaseFluidState) Density(phaseIdx int) float64 {
	return fs.PhaseDensity[phaseIdx]
}

func (fs *TwoPhaseFluidState) AverageMolarMass(phaseIdx int) float64 {
	return fs.fsys.MolarMass(phaseIdx)
}

// PartialPressure returns the partial pressure of a component in the
// non-wetting phase [Pa]
func (fs *TwoPhaseFluidState) PartialPressure(compIdx int) float64 {
	if compIdx == WettingPhase {
		return 0
	}
	return fs.PhasePressure[NonWettingPhase]
}

// Pressure returns the pressure of a fluid phase [Pa]
func (fs *TwoPhaseFluidState) Pressure(phaseIdx int) float64 {
	return fs.PhasePressure[phaseIdx]
}

// CapillaryPressure returns pn - pw [Pa]
func (fs *TwoPhaseFluidState) CapillaryPressure() float64 {
	return fs.PhasePressure[NonWettingPhase] - fs.PhasePressure[WettingPhase]
}

// Temperature of all phases and the rock matrix, thermal equilibrium is assumed [K]
func (fs *TwoPhaseFluidState) Temperature() float64 {
	return fs.Temp
}
