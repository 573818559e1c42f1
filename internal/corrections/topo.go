package corrections

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/geocorr/internal/raster"
)

// GeometryConfig enumerates every recognized geometry-engine option.
// Options are validated at construction time; nothing is injected into
// the engine dynamically.
type GeometryConfig struct {
	// ConvergenceThreshold bounds the engine's iterative back-projection.
	ConvergenceThreshold float64
	// ComputeMask enables the shadow/layover mask. The correction
	// pipeline never needs it.
	ComputeMask bool
	// LinesPerBlock sizes the engine's processing blocks. Zero means
	// engine default.
	LinesPerBlock int
}

// DefaultGeometryConfig returns the engine options used by the pipeline.
func DefaultGeometryConfig() GeometryConfig {
	return GeometryConfig{ConvergenceThreshold: 1e8}
}

// Validate rejects option combinations the engine cannot honor.
func (c GeometryConfig) Validate() error {
	if c.ConvergenceThreshold <= 0 {
		return fmt.Errorf("corrections: convergence threshold must be positive, got %g", c.ConvergenceThreshold)
	}
	if c.LinesPerBlock < 0 {
		return fmt.Errorf("corrections: lines per block must be non-negative, got %d", c.LinesPerBlock)
	}
	return nil
}

// Raster file names for the persisted coarse rdr2geo layers.
const (
	lonRaster       = "x.rdr"
	latRaster       = "y.rdr"
	incidenceRaster = "incidence_angle.rdr"
	headingRaster   = "heading_angle.rdr"
)

// ComputeTopoLayers runs the geometry engine on a coarse radar grid and
// persists the four output layers under outDir as a byproduct for reuse
// and inspection. Coordinates are stored as float64, angles as float32.
func ComputeTopoLayers(ctx context.Context, engine TopoEngine, burst Burst, demPath, outDir string,
	rgStep, azStep float64, cfg GeometryConfig) (TopoLayers, error) {

	if err := cfg.Validate(); err != nil {
		return TopoLayers{}, err
	}

	coarse, err := CoarseRadarGrid(burst.RadarGrid(), rgStep, azStep)
	if err != nil {
		return TopoLayers{}, err
	}

	layers, err := engine.Topo(ctx, demPath, coarse, cfg)
	if err != nil {
		return TopoLayers{}, fmt.Errorf("corrections: rdr2geo on %dx%d grid: %w",
			coarse.Height, coarse.Width, err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return TopoLayers{}, fmt.Errorf("corrections: create output dir: %w", err)
	}
	persist := []struct {
		name  string
		field interface {
			Raw() []float64
			Shape() (int, int)
		}
		dtype raster.DType
	}{
		{lonRaster, layers.Lon, raster.Float64},
		{latRaster, layers.Lat, raster.Float64},
		{incidenceRaster, layers.Incidence, raster.Float32},
		{headingRaster, layers.Heading, raster.Float32},
	}
	for _, p := range persist {
		h, w := p.field.Shape()
		path := filepath.Join(outDir, p.name)
		if err := raster.Write(path, p.field.Raw(), w, h, p.dtype); err != nil {
			return TopoLayers{}, err
		}
	}

	return layers, nil
}
