package corrections

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRadarGrid() RadarGrid {
	return RadarGrid{
		SensingStart:        time.Date(2021, 7, 14, 6, 30, 0, 0, time.UTC),
		RefEpoch:            time.Date(2021, 7, 14, 0, 0, 0, 0, time.UTC),
		Wavelength:          0.0556,
		StartingRange:       800000,
		RangePixelSpacing:   40,
		AzimuthTimeInterval: 0.05,
		Width:               100,
		Height:              100,
	}
}

func TestCoarseRadarGrid(t *testing.T) {
	t.Parallel()

	rg := testRadarGrid() // 4000 m x 5 s extent

	coarse, err := CoarseRadarGrid(rg, 200, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 20, coarse.Width)
	assert.Equal(t, 20, coarse.Height)
	assert.Equal(t, 200.0, coarse.RangePixelSpacing)
	assert.Equal(t, 0.25, coarse.AzimuthTimeInterval)

	// Extent, timing and wavelength carry over unchanged.
	assert.Equal(t, rg.SensingStart, coarse.SensingStart)
	assert.Equal(t, rg.StartingRange, coarse.StartingRange)
	assert.Equal(t, rg.Wavelength, coarse.Wavelength)
}

func TestCoarseRadarGridCeil(t *testing.T) {
	t.Parallel()

	rg := testRadarGrid()

	// 4000/300 = 13.33 -> 14 samples; 5/0.4 = 12.5 -> 13 lines.
	coarse, err := CoarseRadarGrid(rg, 300, 0.4)
	require.NoError(t, err)
	assert.Equal(t, 14, coarse.Width)
	assert.Equal(t, 13, coarse.Height)
}

func TestCoarseRadarGridDegenerate(t *testing.T) {
	t.Parallel()

	rg := testRadarGrid()

	// A step equal to the full extent is legal and yields a 1x1 grid;
	// what to do with that is the caller's concern.
	coarse, err := CoarseRadarGrid(rg, rg.RangeExtent(), rg.AzimuthExtent())
	require.NoError(t, err)
	assert.Equal(t, 1, coarse.Width)
	assert.Equal(t, 1, coarse.Height)
}

func TestCoarseRadarGridInvalidSteps(t *testing.T) {
	t.Parallel()

	rg := testRadarGrid()

	cases := []struct {
		name           string
		rgStep, azStep float64
	}{
		{"zero range step", 0, 0.25},
		{"negative range step", -200, 0.25},
		{"range step beyond extent", 4001, 0.25},
		{"zero azimuth step", 200, 0},
		{"azimuth step beyond extent", 200, 5.1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := CoarseRadarGrid(rg, tc.rgStep, tc.azStep)
			var stepErr *InvalidStepError
			require.Error(t, err)
			assert.True(t, errors.As(err, &stepErr))
		})
	}
}
