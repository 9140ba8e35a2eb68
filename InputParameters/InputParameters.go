package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/goporous/fluids"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/material"
	"github.com/notargets/goporous/utils"
)

// Parameters obtained from the YAML input file
type InputParametersFlux struct {
	Title             string                                   `yaml:"Title"`
	DomainSize        []float64                                `yaml:"DomainSize"`
	Cells             []int                                    `yaml:"Cells"`
	GlobalRefinements int                                      `yaml:"GlobalRefinements"`
	EnableGravity     bool                                     `yaml:"EnableGravity"`
	Gravity           []float64                                `yaml:"Gravity"`
	Temperature       float64                                  `yaml:"Temperature"`
	Phases            []string                                 `yaml:"Phases"`       // Wetting phase first
	Permeability      []float64                                `yaml:"Permeability"` // Diagonal of K, one entry for isotropic
	MaterialLaw       string                                   `yaml:"MaterialLaw"`
	MaterialParams    map[string]float64                       `yaml:"MaterialParams"`
	InitialPressure   float64                                  `yaml:"InitialPressure"` // Wetting pressure at the origin
	InitialSaturation float64                                  `yaml:"InitialSaturation"`
	Hydrostatic       bool                                     `yaml:"Hydrostatic"` // Initial wetting pressure in hydrostatic equilibrium
	BCs               map[string]map[string]map[string]float64 `yaml:"BCs"`         // First key is BC type, second is boundary side, third is parameter name
	VelocityLaw       string                                   `yaml:"VelocityLaw"`
	ForchheimerBeta   []float64                                `yaml:"ForchheimerBeta"`
	ParallelDegree    int                                      `yaml:"ParallelDegree"`
}

func (ip *InputParametersFlux) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// SetDefaults fills in what the input file left out
func (ip *InputParametersFlux) SetDefaults() {
	if len(ip.Phases) == 0 {
		ip.Phases = []string{"water", "dnapl"}
	}
	if len(ip.Gravity) == 0 && len(ip.DomainSize) > 0 {
		ip.Gravity = make([]float64, len(ip.DomainSize))
		ip.Gravity[len(ip.Gravity)-1] = -9.81
	}
	if ip.Temperature == 0 {
		ip.Temperature = 293.15
	}
	if len(ip.MaterialLaw) == 0 {
		ip.MaterialLaw = "vg"
	}
	if len(ip.VelocityLaw) == 0 {
		ip.VelocityLaw = "darcy"
	}
	if ip.InitialPressure == 0 {
		ip.InitialPressure = 1.e5
	}
}

func (ip *InputParametersFlux) Validate() (err error) {
	dim := len(ip.DomainSize)
	switch {
	case dim < 1 || dim > 3:
		return fmt.Errorf("DomainSize must have 1, 2 or 3 entries, have %d", dim)
	case len(ip.Cells) != dim:
		return fmt.Errorf("Cells must have %d entries like DomainSize, have %d", dim, len(ip.Cells))
	case len(ip.Gravity) != dim:
		return fmt.Errorf("Gravity must have %d entries, have %d", dim, len(ip.Gravity))
	case len(ip.Permeability) != 1 && len(ip.Permeability) != dim:
		return fmt.Errorf("Permeability must have 1 or %d entries, have %d", dim, len(ip.Permeability))
	case len(ip.Phases) != fluids.NumPhases:
		return fmt.Errorf("need %d Phases, have %d", fluids.NumPhases, len(ip.Phases))
	case ip.InitialSaturation < 0 || ip.InitialSaturation > 1:
		return fmt.Errorf("InitialSaturation must be within [0,1], have %g", ip.InitialSaturation)
	case ip.ParallelDegree < 0:
		return fmt.Errorf("ParallelDegree must not be negative, have %d", ip.ParallelDegree)
	}
	for _, name := range ip.Phases {
		if _, err = fluids.PhaseByName(name); err != nil {
			return
		}
	}
	for _, k := range ip.Permeability {
		if k <= 0 {
			return fmt.Errorf("Permeability entries must be positive, have %v", ip.Permeability)
		}
	}
	if _, err = material.New(ip.MaterialLaw, ip.MaterialParams); err != nil {
		return
	}
	switch strings.ToLower(ip.VelocityLaw) {
	case "darcy", "forchheimer":
	default:
		return fmt.Errorf("VelocityLaw %q is not available, use darcy or forchheimer", ip.VelocityLaw)
	}
	for bcName, sides := range ip.BCs {
		if _, err = utils.ParseBCName(bcName); err != nil {
			return
		}
		for side := range sides {
			if id := grid.BoundaryID(strings.ToLower(side)); id < 0 || id >= 2*dim {
				return fmt.Errorf("boundary side %q does not exist in %d dimensions", side, dim)
			}
		}
	}
	return
}

func (ip *InputParametersFlux) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%v\t\t= DomainSize\n", ip.DomainSize)
	fmt.Printf("%v\t\t\t= Cells\n", ip.Cells)
	fmt.Printf("[%d]\t\t\t= GlobalRefinements\n", ip.GlobalRefinements)
	fmt.Printf("%v %v\t= Gravity\n", ip.EnableGravity, ip.Gravity)
	fmt.Printf("%v\t= Phases\n", ip.Phases)
	fmt.Printf("%v\t\t= Permeability\n", ip.Permeability)
	fmt.Printf("[%s] %v\t= MaterialLaw\n", ip.MaterialLaw, ip.MaterialParams)
	fmt.Printf("%8.5g\t\t= InitialPressure\n", ip.InitialPressure)
	fmt.Printf("%8.5f\t\t= InitialSaturation\n", ip.InitialSaturation)
	fmt.Printf("[%s]\t\t\t= VelocityLaw\n", ip.VelocityLaw)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
