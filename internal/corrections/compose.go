package corrections

import (
	"fmt"

	"github.com/banshee-data/geocorr/internal/geometry"
	"github.com/banshee-data/geocorr/internal/grid"
	"gonum.org/v1/gonum/floats"
)

// ComposeOptions controls cumulative LUT assembly.
type ComposeOptions struct {
	// IncludeAzimuthTide folds the along-track solid-earth-tide term
	// into the azimuth LUT, converted from meters to seconds with
	// GroundVelocity. The reference products omit this term, so it
	// defaults off; enabling it requires a positive ground velocity.
	IncludeAzimuthTide bool
	// GroundVelocity in m/s, used only when IncludeAzimuthTide is set.
	GroundVelocity float64
}

// ComposeLUTs combines the four correction sources into the two
// cumulative LUTs applied during geocoding:
//
//	range LUT (meters)    = doppler_seconds * c/2 + tide_range_meters
//	azimuth LUT (seconds) = -(bistatic + fm_mismatch) [- tide_az/v_ground]
//
// The factor of one half converts one-way Doppler travel time to range.
// The azimuth sign is inverted so callers apply every LUT with one
// convention: add the LUT value to the raw SLC-tagged time or range.
//
// The bistatic-delay grid is the reference grid. Doppler and FM-mismatch
// must arrive on an identical grid and the tide fields on the same
// shape; any disagreement fails with GridMismatchError rather than
// producing a silently misaligned sum.
func ComposeLUTs(doppler, bistatic, fm, tideRg, tideAz *grid.Field, opts ComposeOptions) (rangeLUT, azimuthLUT LUT, err error) {
	ref := bistatic.Desc
	if !doppler.Desc.Equal(ref) {
		return LUT{}, LUT{}, &GridMismatchError{Name: "doppler", Want: ref, Got: doppler.Desc}
	}
	if !fm.Desc.Equal(ref) {
		return LUT{}, LUT{}, &GridMismatchError{Name: "fm mismatch", Want: ref, Got: fm.Desc}
	}
	if !tideRg.Desc.SameShape(ref) {
		return LUT{}, LUT{}, &GridMismatchError{Name: "range tide", Want: ref, Got: tideRg.Desc}
	}
	if !tideAz.Desc.SameShape(ref) {
		return LUT{}, LUT{}, &GridMismatchError{Name: "azimuth tide", Want: ref, Got: tideAz.Desc}
	}

	rangeField, err := grid.NewField(ref)
	if err != nil {
		return LUT{}, LUT{}, err
	}
	floats.AddScaled(rangeField.Raw(), geometry.SpeedOfLight/2, doppler.Raw())
	floats.Add(rangeField.Raw(), tideRg.Raw())

	azField, err := grid.NewField(ref)
	if err != nil {
		return LUT{}, LUT{}, err
	}
	floats.AddScaled(azField.Raw(), -1, bistatic.Raw())
	floats.AddScaled(azField.Raw(), -1, fm.Raw())
	if opts.IncludeAzimuthTide {
		if opts.GroundVelocity <= 0 {
			return LUT{}, LUT{}, fmt.Errorf("corrections: azimuth tide requires a positive ground velocity, got %g", opts.GroundVelocity)
		}
		floats.AddScaled(azField.Raw(), -1/opts.GroundVelocity, tideAz.Raw())
	}

	return LUT{Field: rangeField, Unit: Meters}, LUT{Field: azField, Unit: Seconds}, nil
}
