// Package corrections computes the per-burst timing correction LUTs
// applied during geocoding. Four physically distinct biases are modeled
// on coarse grids (geometric/steering Doppler, bistatic delay, azimuth
// FM-rate mismatch and solid-earth tides), then combined into one slant
// range LUT (meters) and one azimuth LUT (seconds), both indexed by
// azimuth time and slant range.
//
// The radar geometry engine, the burst model and the tide model are
// external collaborators consumed through the interfaces defined here.
package corrections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/geocorr/internal/geometry"
	"github.com/banshee-data/geocorr/internal/grid"
)

// Unit tags the physical unit of a correction LUT.
type Unit string

const (
	Seconds Unit = "seconds"
	Meters  Unit = "meters"
)

// LUT is a correction surface indexed by azimuth time (rows) and slant
// range (columns). Two LUTs combine elementwise only when their grids
// are identical.
type LUT struct {
	Field *grid.Field
	Unit  Unit
}

// RadarGrid carries the radar-domain sampling parameters of a burst.
type RadarGrid struct {
	SensingStart        time.Time
	RefEpoch            time.Time
	Wavelength          float64 // meters
	StartingRange       float64 // meters
	RangePixelSpacing   float64 // meters
	AzimuthTimeInterval float64 // seconds
	Width               int     // range samples
	Height              int     // azimuth lines
}

// RangeExtent is the slant-range span of the grid in meters.
func (rg RadarGrid) RangeExtent() float64 {
	return float64(rg.Width) * rg.RangePixelSpacing
}

// AzimuthExtent is the along-track time span of the grid in seconds.
func (rg RadarGrid) AzimuthExtent() float64 {
	return float64(rg.Height) * rg.AzimuthTimeInterval
}

// Burst is the read-only geometry context supplied by the external burst
// model. The three correction operations each return a field whose
// descriptor is taken as returned; it is never assumed to equal the
// coarse topography grid.
type Burst interface {
	RadarGrid() RadarGrid
	SensingStart() time.Time
	Border() geometry.BBox

	// GroundVelocity reports the along-track ground velocity in m/s,
	// used to convert azimuth tide displacement from meters to seconds.
	// Zero means unknown.
	GroundVelocity() float64

	DopplerInducedRangeShift(rgStep, azStep float64) (*grid.Field, error)
	BistaticDelay(rgStep, azStep float64) (*grid.Field, error)
	AzFMRateMismatch(demPath, scratchPath string, rgStep, azStep float64) (*grid.Field, error)
}

// TopoLayers are the radar-domain geodetic layers produced by the
// geometry engine on the coarse grid.
type TopoLayers struct {
	Lon       *grid.Field // longitude, degrees
	Lat       *grid.Field // latitude, degrees
	Incidence *grid.Field // incidence angle, degrees
	Heading   *grid.Field // heading angle, degrees (from east, ccw positive)
}

// TopoEngine back-projects a radar grid onto the DEM. Implementations
// return the four layers in memory; persistence is handled by the
// adapter. A DEM that does not cover the burst footprint is an error,
// propagated unretried.
type TopoEngine interface {
	Topo(ctx context.Context, demPath string, rg RadarGrid, cfg GeometryConfig) (TopoLayers, error)
}

// TideModel produces east/north/up solid-earth-tide displacement on a
// geographic grid at the given instant. Rows are stored north to south
// (descending latitude).
type TideModel interface {
	SolidEarthTides(t time.Time, g grid.Desc) (e, n, u *grid.Field, err error)
}

// InvalidStepError reports a step size that cannot produce a valid
// coarse grid.
type InvalidStepError struct {
	Name   string
	Value  float64
	Extent float64
}

func (e *InvalidStepError) Error() string {
	if e.Value <= 0 {
		return fmt.Sprintf("corrections: %s step must be positive, got %g", e.Name, e.Value)
	}
	return fmt.Sprintf("corrections: %s step %g exceeds swath extent %g", e.Name, e.Value, e.Extent)
}

// GridMismatchError reports two correction sources whose grids were
// expected to be identical but are not.
type GridMismatchError struct {
	Name string
	Want grid.Desc
	Got  grid.Desc
}

func (e *GridMismatchError) Error() string {
	return fmt.Sprintf("corrections: %s grid %+v does not match reference grid %+v", e.Name, e.Got, e.Want)
}

// ErrNoTideModel is returned when tide correction is requested without a
// model. There is no silent zero-tide fallback: omitting the tide would
// propagate an uncorrected bias into every product.
var ErrNoTideModel = errors.New("corrections: no tide model configured")
