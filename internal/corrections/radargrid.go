package corrections

import "math"

// CoarseRadarGrid constructs a reduced-resolution radar grid covering the
// same time/range extent as the original burst grid, with rgStep meters
// between range samples and azStep seconds between azimuth lines.
//
// A step that is non-positive or larger than the corresponding swath
// extent is an invalid argument. A resulting 1x1 grid is legal but of
// little use; callers choosing extreme steps own that outcome.
func CoarseRadarGrid(rg RadarGrid, rgStep, azStep float64) (RadarGrid, error) {
	if rgStep <= 0 || rgStep > rg.RangeExtent() {
		return RadarGrid{}, &InvalidStepError{Name: "range", Value: rgStep, Extent: rg.RangeExtent()}
	}
	if azStep <= 0 || azStep > rg.AzimuthExtent() {
		return RadarGrid{}, &InvalidStepError{Name: "azimuth", Value: azStep, Extent: rg.AzimuthExtent()}
	}

	coarse := rg
	coarse.RangePixelSpacing = rgStep
	coarse.AzimuthTimeInterval = azStep
	coarse.Width = int(math.Ceil(rg.RangeExtent() / rgStep))
	coarse.Height = int(math.Ceil(rg.AzimuthExtent() / azStep))
	return coarse, nil
}
