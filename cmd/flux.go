/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/InputParameters"
	"github.com/notargets/goporous/assembly"
	"github.com/notargets/goporous/darcy"
	"github.com/notargets/goporous/fluids"
	"github.com/notargets/goporous/fvcontext"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/material"
	"github.com/notargets/goporous/primaryvars"
	"github.com/notargets/goporous/utils"
)

type ModelFlux struct {
	ICFile         string
	OutputFile     string
	Profile        bool
	ParallelDegree int
}

// FluxCmd represents the flux command
var FluxCmd = &cobra.Command{
	Use:   "flux",
	Short: "Evaluate all face fluxes of a two-phase state on a cube grid",
	Long:  `Evaluate all face fluxes of a two-phase state on a cube grid and report the net cell outflows`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		mf := &ModelFlux{}
		if mf.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		mf.OutputFile, _ = cmd.Flags().GetString("output")
		mf.Profile = viper.GetBool("profile")
		mf.ParallelDegree = viper.GetInt("parallel")
		ip := processInput(mf)
		if mf.Profile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		report, err := RunFlux(mf, ip, logrus.StandardLogger())
		if err != nil {
			logrus.WithError(err).Error("flux evaluation failed")
			os.Exit(1)
		}
		logrus.WithField("memory", utils.GetMemUsage()).Debug("flux evaluation done")
		if err = report.Write(mf.OutputFile); err != nil {
			logrus.WithError(err).Error("unable to write the report")
			os.Exit(1)
		}
	},
}

func processInput(mf *ModelFlux) (ip *InputParameters.InputParametersFlux) {
	var (
		err error
	)
	if len(mf.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Water column"
DomainSize: [1., 10.]
Cells: [1, 10]
EnableGravity: true
Phases: [water, dnapl]
Permeability: [1.e-11]
MaterialLaw: vg
MaterialParams:
  alpha: 3.7e-4
  vgn: 4.7
Hydrostatic: true
BCs:
  Dirichlet:
    ymin:
      pw: 2.e5
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(mf.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParametersFlux{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	ip.SetDefaults()
	if err = ip.Validate(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ip.Print()
	return
}

func init() {
	rootCmd.AddCommand(FluxCmd)
	FluxCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- DomainSize, Cells\n\t- Phases, MaterialLaw\n\t- BCs")
	FluxCmd.Flags().StringP("output", "o", "", "file to write the YAML report to, default is stdout")
	FluxCmd.Flags().IntP("parallel", "p", 0, "number of workers, zero uses one per CPU")
	FluxCmd.Flags().Bool("profile", false, "write a CPU profile to the current directory")
	_ = viper.BindPFlag("parallel", FluxCmd.Flags().Lookup("parallel"))
	_ = viper.BindPFlag("profile", FluxCmd.Flags().Lookup("profile"))
}

// RunFlux builds the grid and the initial state from ip and evaluates all
// face fluxes once
func RunFlux(mf *ModelFlux, ip *InputParameters.InputParametersFlux, logger logrus.FieldLogger) (report *FluxReport, err error) {
	var (
		ctx *fvcontext.Context
		bcs map[int]assembly.BoundaryCondition
		res *assembly.Result
	)
	if ctx, bcs, err = BuildContext(ip); err != nil {
		return
	}
	parallel := ip.ParallelDegree
	if mf != nil && mf.ParallelDegree > 0 {
		parallel = mf.ParallelDegree
	}
	fp := assembly.NewFluxPass(ctx, bcs, parallel, logger)
	if strings.EqualFold(ip.VelocityLaw, "forchheimer") {
		fp.Law = darcy.ForchheimerLaw{Beta: ip.ForchheimerBeta}
	}
	if res, err = fp.Run(); err != nil {
		return
	}
	report = NewFluxReport(ip.Title, ctx, res)
	return
}

// BuildContext creates the grid, the fluid system, the spatial parameters
// and the initial state, and translates the boundary conditions
func BuildContext(ip *InputParameters.InputParametersFlux) (ctx *fvcontext.Context,
	bcs map[int]assembly.BoundaryCondition, err error) {
	var (
		cg     *grid.CubeGrid
		law    material.TwoPhaseLaw
		prob   *fvcontext.Problem
		phases = make([]fluids.Phase, len(ip.Phases))
	)
	if cg, err = grid.NewCubeGridFromSize(ip.DomainSize, ip.Cells, ip.GlobalRefinements); err != nil {
		return
	}
	for i, name := range ip.Phases {
		if phases[i], err = fluids.PhaseByName(name); err != nil {
			return
		}
	}
	fsys := fluids.NewImmiscibleFluidSystem(phases...)
	if law, err = material.New(ip.MaterialLaw, ip.MaterialParams); err != nil {
		return
	}
	diag := make([]float64, cg.Dim)
	for i := range diag {
		diag[i] = ip.Permeability[0]
		if len(ip.Permeability) == cg.Dim {
			diag[i] = ip.Permeability[i]
		}
	}
	if prob, err = fvcontext.NewProblem(cg, ip.Gravity, ip.EnableGravity,
		[]mat.Symmetric{fvcontext.DiagonalPermeability(diag...)}, []material.TwoPhaseLaw{law}); err != nil {
		return
	}
	ctx = fvcontext.NewContext(cg, fsys, prob, ip.Temperature)
	rhoW := fsys.PhaseDensity(fluids.WettingPhase, ip.Temperature, ip.InitialPressure)
	for k, x := range cg.CellCenters {
		pv := primaryvars.New(fvcontext.NumEq)
		pv.SetVec(fvcontext.PressureWIdx, initialPressure(ip, rhoW, x))
		pv.SetVec(fvcontext.SaturationNIdx, ip.InitialSaturation)
		if err = ctx.SetPrimaryVariables(primaryvars.CurrentTime, k, pv); err != nil {
			return
		}
	}
	ctx.Advance()
	bcs = make(map[int]assembly.BoundaryCondition)
	for bcName, sides := range ip.BCs {
		var bcType utils.BCType
		if bcType, err = utils.ParseBCName(bcName); err != nil {
			return
		}
		for side, prms := range sides {
			bc := assembly.BoundaryCondition{
				Type:        bcType,
				PressureW:   ip.InitialPressure,
				SaturationN: ip.InitialSaturation,
			}
			if pw, ok := prms["pw"]; ok {
				bc.PressureW = pw
			}
			if sn, ok := prms["sn"]; ok {
				bc.SaturationN = sn
			}
			bcs[grid.BoundaryID(strings.ToLower(side))] = bc
		}
	}
	return
}

// initialPressure is the wetting pressure at x, hydrostatic if requested
func initialPressure(ip *InputParameters.InputParametersFlux, rhoW float64, x []float64) (p float64) {
	p = ip.InitialPressure
	if ip.Hydrostatic && ip.EnableGravity {
		for i, g := range ip.Gravity {
			p += rhoW * g * x[i]
		}
	}
	return
}

// FluxReport is the YAML summary of one flux evaluation, keyed by phase name
type FluxReport struct {
	Title             string                        `json:"Title"`
	NumCells          int                           `json:"NumCells"`
	NumInteriorFaces  int                           `json:"NumInteriorFaces"`
	NumBoundaryFaces  int                           `json:"NumBoundaryFaces"`
	TotalBoundaryFlux map[string]float64            `json:"TotalBoundaryFlux"`
	BoundaryFlux      map[string]map[string]float64 `json:"BoundaryFlux"` // Per phase and side
	MaxInteriorFlux   map[string]float64            `json:"MaxInteriorFlux"`
	NetOutflow        map[string][]float64          `json:"NetOutflow"`
}

func NewFluxReport(title string, ctx *fvcontext.Context, res *assembly.Result) (rpt *FluxReport) {
	var (
		cg   = ctx.Grid
		fsys = ctx.FluidSystem()
	)
	rpt = &FluxReport{
		Title:             title,
		NumCells:          cg.NumCells,
		NumInteriorFaces:  len(cg.InteriorFaces),
		NumBoundaryFaces:  len(cg.BoundaryFaces),
		TotalBoundaryFlux: make(map[string]float64),
		BoundaryFlux:      make(map[string]map[string]float64),
		MaxInteriorFlux:   make(map[string]float64),
		NetOutflow:        make(map[string][]float64),
	}
	for phaseIdx := 0; phaseIdx < fsys.NumPhases(); phaseIdx++ {
		name := fsys.PhaseName(phaseIdx)
		rpt.TotalBoundaryFlux[name] = res.TotalBoundaryFlux[phaseIdx]
		rpt.NetOutflow[name] = res.NetOutflow[phaseIdx]
		sides := make(map[string]float64)
		for bfIdx, f := range cg.BoundaryFaces {
			sides[grid.BoundaryName(f.BoundaryID)] += res.BoundaryFlux[phaseIdx][bfIdx]
		}
		rpt.BoundaryFlux[name] = sides
		var maxFlux float64
		for _, q := range res.InteriorFlux[phaseIdx] {
			if q < 0 {
				q = -q
			}
			if q > maxFlux {
				maxFlux = q
			}
		}
		rpt.MaxInteriorFlux[name] = maxFlux
	}
	return
}

// Write marshals the report to YAML, on stdout if fileName is empty
func (rpt *FluxReport) Write(fileName string) (err error) {
	var (
		data []byte
	)
	if data, err = yaml.Marshal(rpt); err != nil {
		return
	}
	if len(fileName) == 0 {
		fmt.Print(string(data))
		return
	}
	return ioutil.WriteFile(fileName, data, 0644)
}

// Phases returns the phase names of the report in sorted order
func (rpt *FluxReport) Phases() (names []string) {
	for name := range rpt.TotalBoundaryFlux {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
