package corrections

import (
	"fmt"

	"github.com/banshee-data/geocorr/internal/geometry"
	"github.com/banshee-data/geocorr/internal/grid"
)

// TideConfig sizes the geographic grid the tide model is evaluated on.
// Tide fields vary smoothly over tens of kilometers, so a coarse grid is
// sufficient and far cheaper than per-pixel modeling.
type TideConfig struct {
	Width   int     // longitude cells
	Height  int     // latitude cells
	Spacing float64 // degrees, both axes
	Margin  float64 // degrees subtracted from the footprint minimum corner
}

// DefaultTideConfig returns the 100x25 cell grid at 0.023 degree spacing
// (about 2.5 km) used for production corrections.
func DefaultTideConfig() TideConfig {
	return TideConfig{Width: 100, Height: 25, Spacing: 0.023, Margin: 0.1}
}

// Validate checks the tide grid parameters.
func (c TideConfig) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("corrections: tide grid must be at least 1x1, got %dx%d", c.Height, c.Width)
	}
	if c.Spacing <= 0 {
		return fmt.Errorf("corrections: tide grid spacing must be positive, got %g", c.Spacing)
	}
	if c.Margin < 0 {
		return fmt.Errorf("corrections: tide grid margin must be non-negative, got %g", c.Margin)
	}
	return nil
}

// GeoGrid derives the geographic tide grid for a burst footprint: the
// origin sits Margin degrees south-west of the footprint minimum corner.
func (c TideConfig) GeoGrid(border geometry.BBox) grid.Desc {
	return grid.Desc{
		X0:     border.MinLon - c.Margin,
		Y0:     border.MinLat - c.Margin,
		DX:     c.Spacing,
		DY:     c.Spacing,
		Width:  c.Width,
		Height: c.Height,
	}
}

// TideEstimator computes solid-earth-tide displacement in the burst's
// slant-range and azimuth axes.
type TideEstimator struct {
	Model  TideModel
	Config TideConfig
}

// SlantAzimuthDisplacement evaluates the tide model once on the burst's
// geographic grid at sensing start, resamples the east/north/up
// components onto the radar-domain latitude/longitude layers with
// nearest-neighbor interpolation, and projects them onto the line of
// sight and along-track directions. Both results are bound to the
// topography grid.
//
// Queries outside the modeled footprint fill with zero: the tide
// contribution is negligible there, a documented approximation rather
// than an error. A tide-model failure aborts the whole burst; there is
// no zero-tide fallback.
func (te *TideEstimator) SlantAzimuthDisplacement(burst Burst, layers TopoLayers) (rg, az *grid.Field, err error) {
	if te.Model == nil {
		return nil, nil, ErrNoTideModel
	}
	if err := te.Config.Validate(); err != nil {
		return nil, nil, err
	}

	geoGrid := te.Config.GeoGrid(burst.Border())
	e, n, u, err := te.Model.SolidEarthTides(burst.SensingStart(), geoGrid)
	if err != nil {
		return nil, nil, fmt.Errorf("corrections: solid earth tide model: %w", err)
	}

	rdrE, err := resampleToRadar(e, geoGrid, layers)
	if err != nil {
		return nil, nil, err
	}
	rdrN, err := resampleToRadar(n, geoGrid, layers)
	if err != nil {
		return nil, nil, err
	}
	rdrU, err := resampleToRadar(u, geoGrid, layers)
	if err != nil {
		return nil, nil, err
	}

	// rdr2geo heading is measured from east, counterclockwise positive.
	// The LOS projection wants the look azimuth from north: heading+90.
	// The along-track direction is heading-90.
	rg, err = geometry.ENUToLOSField(rdrE, rdrN, rdrU, layers.Incidence, layers.Heading, 90)
	if err != nil {
		return nil, nil, err
	}
	az, err = geometry.ENToAzimuthField(rdrE, rdrN, layers.Heading, -90)
	if err != nil {
		return nil, nil, err
	}
	return rg, az, nil
}

// resampleToRadar moves one tide component from the geographic grid onto
// the radar-domain lat/lon layers. The tide model stores rows north to
// south while the latitude axis ascends, so the rows are flipped before
// the nearest-neighbor lookup; flipping only one side would silently
// mirror the field.
func resampleToRadar(component *grid.Field, geoGrid grid.Desc, layers TopoLayers) (*grid.Field, error) {
	latAxis := geoGrid.YAxis()
	lonAxis := geoGrid.XAxis()

	flipped := grid.FlipRows(component)
	vals, err := grid.ResampleNearest(flipped, latAxis, lonAxis, layers.Lat.Raw(), layers.Lon.Raw(), 0)
	if err != nil {
		return nil, fmt.Errorf("corrections: resample tide component: %w", err)
	}
	return grid.FieldFromData(layers.Lat.Desc, vals)
}
