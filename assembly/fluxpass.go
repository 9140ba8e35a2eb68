// Package assembly evaluates the phase fluxes of every face of a cube grid
// and sums them into net cell outflows.
package assembly

import (
	"fmt"
	"sync"
	"time"

	"github.com/james-bowman/sparse"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/notargets/goporous/darcy"
	"github.com/notargets/goporous/fluids"
	"github.com/notargets/goporous/fvcontext"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/utils"
)

// BoundaryCondition applies to every face of one side of the domain.
// PressureW and SaturationN define the exterior state of a Dirichlet side.
type BoundaryCondition struct {
	Type        utils.BCType
	PressureW   float64
	SaturationN float64
}

// Result holds volumetric fluxes [m³/s], face flux times face area, per
// phase. Positive values leave the interior cell of a face.
type Result struct {
	InteriorFlux [][]float64 // [phase][interior face]
	BoundaryFlux [][]float64 // [phase][boundary face]
	Upstream     [][]int     // [phase][interior face]
	NetOutflow   [][]float64 // [phase][cell]
	// TotalBoundaryFlux is the net outflow through the domain boundary per phase
	TotalBoundaryFlux []float64
}

type FluxPass struct {
	Ctx            *fvcontext.Context
	BCs            map[int]BoundaryCondition // keyed by grid boundary ID, missing sides are impermeable
	ParallelDegree int                       // zero uses one worker per CPU
	TimeIdx        int
	Law            darcy.VelocityLaw // nil uses Darcy's law
	Logger         logrus.FieldLogger
	incidence      *sparse.CSR
}

func NewFluxPass(ctx *fvcontext.Context, bcs map[int]BoundaryCondition, parallelDegree int,
	logger logrus.FieldLogger) (fp *FluxPass) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	fp = &FluxPass{
		Ctx:            ctx,
		BCs:            bcs,
		ParallelDegree: parallelDegree,
		Logger:         logger,
		incidence:      ctx.Grid.Incidence(),
	}
	return
}

func (fp *FluxPass) bc(boundaryID int) BoundaryCondition {
	if bc, ok := fp.BCs[boundaryID]; ok {
		return bc
	}
	return BoundaryCondition{Type: utils.BCNoFlow}
}

// Run evaluates all faces. The faces are split into contiguous buckets, one
// goroutine each; the first failing worker stops the others and all errors
// are returned combined.
func (fp *FluxPass) Run() (res *Result, err error) {
	var (
		start     = time.Now()
		cg        = fp.Ctx.Grid
		nIF       = len(cg.InteriorFaces)
		nBF       = len(cg.BoundaryFaces)
		nFaces    = nIF + nBF
		numPhases = fp.Ctx.FluidSystem().NumPhases()
		NP        = utils.ParallelDegree(fp.ParallelDegree, nFaces)
		pm        = utils.NewPartitionMap(NP, nFaces)
		abort     = atomic.NewBool(false)
		processed = atomic.NewInt64(0)
		failed    = atomic.NewInt64(-1)
		errs      = make([]error, NP)
		wg        = sync.WaitGroup{}
	)
	res = newResult(numPhases, nIF, nBF, cg.NumCells)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			eq := darcy.NewExtensiveQuantities(numPhases, cg.Dim)
			if fp.Law != nil {
				eq.SetVelocityLaw(fp.Law)
			}
			cache := fluids.NewParameterCache(numPhases)
			for k := kMin; k < kMax; k++ {
				if abort.Load() {
					return
				}
				var e error
				if k < nIF {
					e = fp.interiorFace(eq, k, res)
				} else {
					e = fp.boundaryFace(eq, cache, k-nIF, res)
				}
				if e != nil {
					errs[np] = e
					failed.CAS(-1, int64(k))
					abort.Store(true)
					return
				}
				processed.Inc()
			}
		}(np)
	}
	wg.Wait()
	if err = multierr.Combine(errs...); err != nil {
		fields := logrus.Fields{
			"faces":     nFaces,
			"processed": processed.Load(),
			"workers":   NP,
		}
		if k := int(failed.Load()); k >= 0 {
			fields["failed_worker"], _, _ = pm.GetBucket(k)
			if k < nIF {
				fields["failed_face"], fields["failed_face_kind"] = k, "interior"
			} else {
				fields["failed_face"], fields["failed_face_kind"] = k-nIF, "boundary"
			}
		}
		fp.Logger.WithFields(fields).WithError(err).Error("flux pass aborted")
		return nil, err
	}
	fp.netOutflow(res)
	fields := logrus.Fields{
		"faces":   nFaces,
		"cells":   cg.NumCells,
		"workers": NP,
		"elapsed": time.Since(start),
	}
	for phaseIdx := 0; phaseIdx < numPhases; phaseIdx++ {
		fields["boundary_"+fp.Ctx.FluidSystem().PhaseName(phaseIdx)] = res.TotalBoundaryFlux[phaseIdx]
	}
	fp.Logger.WithFields(fields).Info("flux pass complete")
	return
}

func newResult(numPhases, nIF, nBF, nCells int) (res *Result) {
	res = &Result{
		InteriorFlux:      make([][]float64, numPhases),
		BoundaryFlux:      make([][]float64, numPhases),
		Upstream:          make([][]int, numPhases),
		NetOutflow:        make([][]float64, numPhases),
		TotalBoundaryFlux: make([]float64, numPhases),
	}
	for phaseIdx := 0; phaseIdx < numPhases; phaseIdx++ {
		res.InteriorFlux[phaseIdx] = make([]float64, nIF)
		res.BoundaryFlux[phaseIdx] = make([]float64, nBF)
		res.Upstream[phaseIdx] = make([]int, nIF)
	}
	return
}

func (fp *FluxPass) interiorFace(eq *darcy.ExtensiveQuantities, faceIdx int, res *Result) (err error) {
	if err = eq.Update(fp.Ctx, faceIdx, fp.TimeIdx); err != nil {
		return
	}
	area := fp.Ctx.Grid.InteriorFaces[faceIdx].Area
	for phaseIdx := range res.InteriorFlux {
		res.InteriorFlux[phaseIdx][faceIdx] = eq.VolumeFlux(phaseIdx) * area
		res.Upstream[phaseIdx][faceIdx] = eq.UpstreamIndex(phaseIdx)
	}
	return
}

func (fp *FluxPass) boundaryFace(eq *darcy.ExtensiveQuantities, cache *fluids.ParameterCache, bfIdx int,
	res *Result) (err error) {
	var (
		f  = fp.Ctx.Grid.BoundaryFaces[bfIdx]
		bc = fp.bc(f.BoundaryID)
		fs *fluids.TwoPhaseFluidState
	)
	switch bc.Type {
	case utils.BCNoFlow:
		for phaseIdx := range res.BoundaryFlux {
			res.BoundaryFlux[phaseIdx][bfIdx] = 0
		}
		return
	case utils.BCDirichlet:
		if fs, err = fp.Ctx.BoundaryState(f.Interior, bc.PressureW, bc.SaturationN); err != nil {
			return
		}
	case utils.BCOutflow:
		fs = fp.Ctx.Cell(f.Interior, fp.TimeIdx).State()
	default:
		return fmt.Errorf("boundary %s: unsupported boundary condition %s",
			grid.BoundaryName(f.BoundaryID), bc.Type)
	}
	cache.UpdateAll(fs)
	if err = eq.UpdateBoundary(fp.Ctx, bfIdx, fp.TimeIdx, fs, cache); err != nil {
		return
	}
	for phaseIdx := range res.BoundaryFlux {
		res.BoundaryFlux[phaseIdx][bfIdx] = eq.VolumeFlux(phaseIdx) * f.Area
	}
	return
}

// netOutflow sums the face fluxes of each cell with the incidence matrix
func (fp *FluxPass) netOutflow(res *Result) {
	for phaseIdx := range res.InteriorFlux {
		var (
			faceFlux = append(append([]float64{}, res.InteriorFlux[phaseIdx]...), res.BoundaryFlux[phaseIdx]...)
		)
		res.NetOutflow[phaseIdx] = fp.Ctx.Grid.NetOutflow(fp.incidence, faceFlux)
		for _, q := range res.BoundaryFlux[phaseIdx] {
			res.TotalBoundaryFlux[phaseIdx] += q
		}
	}
}
