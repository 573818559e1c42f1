package corrections

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/banshee-data/geocorr/internal/grid"
)

// Options configures one burst's correction computation.
type Options struct {
	// RangeStep is the LUT spacing along slant range, meters.
	RangeStep float64
	// AzimuthStep is the LUT spacing along azimuth, seconds.
	AzimuthStep float64
	// ScratchDir holds per-burst intermediates. Empty means a unique
	// temporary directory is created for the run.
	ScratchDir string
	// IncludeAzimuthTide folds the along-track tide term into the
	// azimuth LUT (off in the reference products).
	IncludeAzimuthTide bool

	Tide     TideConfig
	Geometry GeometryConfig
}

// DefaultOptions returns the production LUT spacing (200 m x 0.25 s)
// with default tide and geometry configuration.
func DefaultOptions() Options {
	return Options{
		RangeStep:   200,
		AzimuthStep: 0.25,
		Tide:        DefaultTideConfig(),
		Geometry:    DefaultGeometryConfig(),
	}
}

// topoCoarsening is the factor between the correction grid and the even
// coarser grid the geometry engine runs on. rdr2geo dominates the cost
// of a burst, and the tide field it feeds is smooth, so a 10x coarser
// grid loses nothing.
const topoCoarsening = 10

// Pipeline computes cumulative correction LUTs for bursts. It is
// synchronous and owns no state across bursts; callers parallelize
// across bursts if they want to, each with its own scratch path.
type Pipeline struct {
	Topo  TopoEngine
	Tides TideModel
}

// CumulativeCorrectionLUTs computes and sums the correction LUTs for one
// burst, returning the cumulative slant-range LUT in meters and azimuth
// LUT in seconds, both on the bistatic-delay reference grid.
//
// Any failure (engine, tide model, grid disagreement) aborts the burst
// with no partial result. Coarse rdr2geo rasters are left under
// <scratch>/corrections as a byproduct.
func (p *Pipeline) CumulativeCorrectionLUTs(ctx context.Context, burst Burst, demPath string, opts Options) (rangeLUT, azimuthLUT LUT, err error) {
	scratch := opts.ScratchDir
	if scratch == "" {
		scratch = filepath.Join(os.TempDir(), "geocorr-"+uuid.NewString())
	}
	outDir := filepath.Join(scratch, "corrections")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return LUT{}, LUT{}, fmt.Errorf("corrections: create scratch dir: %w", err)
	}

	doppler, err := burst.DopplerInducedRangeShift(opts.RangeStep, opts.AzimuthStep)
	if err != nil {
		return LUT{}, LUT{}, fmt.Errorf("corrections: doppler induced range shift: %w", err)
	}
	bistatic, err := burst.BistaticDelay(opts.RangeStep, opts.AzimuthStep)
	if err != nil {
		return LUT{}, LUT{}, fmt.Errorf("corrections: bistatic delay: %w", err)
	}
	fm, err := burst.AzFMRateMismatch(demPath, scratch, opts.RangeStep, opts.AzimuthStep)
	if err != nil {
		return LUT{}, LUT{}, fmt.Errorf("corrections: azimuth FM rate mismatch: %w", err)
	}

	layers, err := ComputeTopoLayers(ctx, p.Topo, burst, demPath, outDir,
		opts.RangeStep*topoCoarsening, opts.AzimuthStep*topoCoarsening, opts.Geometry)
	if err != nil {
		return LUT{}, LUT{}, err
	}

	estimator := &TideEstimator{Model: p.Tides, Config: opts.Tide}
	tideRg, tideAz, err := estimator.SlantAzimuthDisplacement(burst, layers)
	if err != nil {
		return LUT{}, LUT{}, err
	}

	// The tide estimate lives on the coarser topography grid; bring it
	// to the reference grid shape before summation.
	refH, refW := bistatic.Shape()
	tideRg, err = grid.ResizeBilinear(tideRg, refH, refW)
	if err != nil {
		return LUT{}, LUT{}, err
	}
	tideAz, err = grid.ResizeBilinear(tideAz, refH, refW)
	if err != nil {
		return LUT{}, LUT{}, err
	}

	composeOpts := ComposeOptions{
		IncludeAzimuthTide: opts.IncludeAzimuthTide,
		GroundVelocity:     burst.GroundVelocity(),
	}
	rangeLUT, azimuthLUT, err = ComposeLUTs(doppler, bistatic, fm, tideRg, tideAz, composeOpts)
	if err != nil {
		return LUT{}, LUT{}, err
	}

	log.Printf("corrections: composed %dx%d LUTs (scratch %s)", refH, refW, scratch)
	return rangeLUT, azimuthLUT, nil
}
