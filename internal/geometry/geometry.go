// Package geometry provides the coordinate conversions used to express
// east/north/up displacement in the radar's slant-range and azimuth axes,
// plus the physical constants shared across the pipeline.
package geometry

import (
	"fmt"
	"math"

	"github.com/banshee-data/geocorr/internal/grid"
)

// SpeedOfLight in vacuum, m/s.
const SpeedOfLight = 299792458.0

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// BBox is a geographic bounding box in degrees.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// ENUToLOS projects an east/north/up displacement onto the radar line of
// sight. incDeg is the incidence angle; azDeg is the look azimuth measured
// from north, counterclockwise positive. At zero incidence the projection
// reduces to the up component.
func ENUToLOS(e, n, u, incDeg, azDeg float64) float64 {
	inc := Radians(incDeg)
	az := Radians(azDeg)
	sinInc := math.Sin(inc)
	return -e*sinInc*math.Sin(az) + n*sinInc*math.Cos(az) + u*math.Cos(inc)
}

// ENToAzimuth projects an east/north displacement onto the along-track
// direction given by azDeg (from north, counterclockwise positive).
func ENToAzimuth(e, n, azDeg float64) float64 {
	az := Radians(azDeg)
	return -e*math.Sin(az) + n*math.Cos(az)
}

// ENUToLOSField applies ENUToLOS node by node. The look azimuth is
// heading+azOffsetDeg; rdr2geo heading is measured from east,
// counterclockwise positive, so LOS projection uses offset +90 and
// along-track projection uses -90. All fields must share one shape; the
// result is bound to e's descriptor.
func ENUToLOSField(e, n, u, inc, heading *grid.Field, azOffsetDeg float64) (*grid.Field, error) {
	if err := sameShapes(e, n, u, inc, heading); err != nil {
		return nil, err
	}
	out := e.Clone()
	h, w := e.Shape()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			az := heading.At(r, c) + azOffsetDeg
			out.Set(r, c, ENUToLOS(e.At(r, c), n.At(r, c), u.At(r, c), inc.At(r, c), az))
		}
	}
	return out, nil
}

// ENToAzimuthField applies ENToAzimuth node by node with look azimuth
// heading+azOffsetDeg. The result is bound to e's descriptor.
func ENToAzimuthField(e, n, heading *grid.Field, azOffsetDeg float64) (*grid.Field, error) {
	if err := sameShapes(e, n, heading); err != nil {
		return nil, err
	}
	out := e.Clone()
	h, w := e.Shape()
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			az := heading.At(r, c) + azOffsetDeg
			out.Set(r, c, ENToAzimuth(e.At(r, c), n.At(r, c), az))
		}
	}
	return out, nil
}

func sameShapes(fields ...*grid.Field) error {
	for i := 1; i < len(fields); i++ {
		if !fields[0].Desc.SameShape(fields[i].Desc) {
			return fmt.Errorf("geometry: field %d is %dx%d, want %dx%d: %w",
				i, fields[i].Desc.Height, fields[i].Desc.Width,
				fields[0].Desc.Height, fields[0].Desc.Width, grid.ErrShapeMismatch)
		}
	}
	return nil
}
