package corrections

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/geocorr/internal/geometry"
	"github.com/banshee-data/geocorr/internal/grid"
	"github.com/banshee-data/geocorr/internal/testutil"
)

// mockBurst returns constant correction fields on a fixed reference grid.
type mockBurst struct {
	rg       RadarGrid
	border   geometry.BBox
	doppler  float64
	bistatic float64
	fm       float64
	velocity float64

	fmErr error
}

func (b *mockBurst) RadarGrid() RadarGrid    { return b.rg }
func (b *mockBurst) SensingStart() time.Time { return b.rg.SensingStart }
func (b *mockBurst) Border() geometry.BBox   { return b.border }
func (b *mockBurst) GroundVelocity() float64 { return b.velocity }

func (b *mockBurst) refDesc(rgStep, azStep float64) grid.Desc {
	coarse, _ := CoarseRadarGrid(b.rg, rgStep, azStep)
	return grid.Desc{
		X0:     coarse.StartingRange,
		Y0:     0,
		DX:     rgStep,
		DY:     azStep,
		Width:  coarse.Width,
		Height: coarse.Height,
	}
}

func (b *mockBurst) DopplerInducedRangeShift(rgStep, azStep float64) (*grid.Field, error) {
	return grid.Constant(b.refDesc(rgStep, azStep), b.doppler)
}

func (b *mockBurst) BistaticDelay(rgStep, azStep float64) (*grid.Field, error) {
	return grid.Constant(b.refDesc(rgStep, azStep), b.bistatic)
}

func (b *mockBurst) AzFMRateMismatch(demPath, scratchPath string, rgStep, azStep float64) (*grid.Field, error) {
	if b.fmErr != nil {
		return nil, b.fmErr
	}
	return grid.Constant(b.refDesc(rgStep, azStep), b.fm)
}

// mockTopoEngine back-projects the coarse grid to a synthetic footprint
// inside the burst's tide grid.
type mockTopoEngine struct {
	border  geometry.BBox
	incDeg  float64
	headDeg float64

	err      error
	gotCfg   GeometryConfig
	gotGrid  RadarGrid
	invoked  bool
}

func (e *mockTopoEngine) Topo(_ context.Context, _ string, rg RadarGrid, cfg GeometryConfig) (TopoLayers, error) {
	e.invoked = true
	e.gotCfg = cfg
	e.gotGrid = rg
	if e.err != nil {
		return TopoLayers{}, e.err
	}

	d := grid.Desc{
		X0:     rg.StartingRange,
		Y0:     0,
		DX:     rg.RangePixelSpacing,
		DY:     rg.AzimuthTimeInterval,
		Width:  rg.Width,
		Height: rg.Height,
	}
	lon, err := grid.NewField(d)
	if err != nil {
		return TopoLayers{}, err
	}
	lat, _ := grid.NewField(d)
	for r := 0; r < d.Height; r++ {
		for c := 0; c < d.Width; c++ {
			lon.Set(r, c, e.border.MinLon+0.05+0.001*float64(c))
			lat.Set(r, c, e.border.MinLat+0.05+0.001*float64(r))
		}
	}
	inc, _ := grid.Constant(d, e.incDeg)
	head, _ := grid.Constant(d, e.headDeg)
	return TopoLayers{Lon: lon, Lat: lat, Incidence: inc, Heading: head}, nil
}

func testBorder() geometry.BBox {
	return geometry.BBox{MinLon: -118.4, MinLat: 34.1, MaxLon: -117.5, MaxLat: 34.6}
}

func TestPipelineAllZeroInputs(t *testing.T) {
	t.Parallel()

	burst := &mockBurst{rg: testRadarGrid(), border: testBorder(), velocity: 7000}
	p := &Pipeline{
		Topo:  &mockTopoEngine{border: testBorder(), incDeg: 35, headDeg: -12},
		Tides: constantTide(0, 0, 0),
	}

	opts := DefaultOptions()
	opts.ScratchDir = t.TempDir()

	rgLUT, azLUT, err := p.CumulativeCorrectionLUTs(context.Background(), burst, "dem.tif", opts)
	require.NoError(t, err)

	// Zero engines and a flat zero tide model compose to all-zero LUTs
	// on the reference grid's shape.
	wantH, wantW := 20, 20
	h, w := rgLUT.Field.Shape()
	assert.Equal(t, wantH, h)
	assert.Equal(t, wantW, w)
	testutil.AssertFieldConstant(t, rgLUT.Field, 0, 1e-15)
	testutil.AssertFieldConstant(t, azLUT.Field, 0, 1e-18)
}

func TestPipelineConstantInputs(t *testing.T) {
	t.Parallel()

	burst := &mockBurst{
		rg:       testRadarGrid(),
		border:   testBorder(),
		doppler:  1.0e-9,
		bistatic: 1.0e-6,
		fm:       2.0e-6,
		velocity: 7000,
	}
	p := &Pipeline{
		Topo:  &mockTopoEngine{border: testBorder(), incDeg: 0, headDeg: 0},
		Tides: constantTide(0, 0, 0.01),
	}

	opts := DefaultOptions()
	opts.ScratchDir = t.TempDir()

	rgLUT, azLUT, err := p.CumulativeCorrectionLUTs(context.Background(), burst, "dem.tif", opts)
	require.NoError(t, err)

	// At nadir the constant 1 cm up displacement lands fully in range.
	wantRange := 1.0e-9*geometry.SpeedOfLight/2 + 0.01
	testutil.AssertFieldConstant(t, rgLUT.Field, wantRange, 1e-9)
	testutil.AssertFieldConstant(t, azLUT.Field, -3.0e-6, 1e-15)

	// The LUT grid is the bistatic-delay reference grid.
	assert.Equal(t, burst.refDesc(200, 0.25), rgLUT.Field.Desc)
	assert.Equal(t, burst.refDesc(200, 0.25), azLUT.Field.Desc)
}

func TestPipelinePersistsTopoRasters(t *testing.T) {
	t.Parallel()

	scratch := t.TempDir()
	burst := &mockBurst{rg: testRadarGrid(), border: testBorder(), velocity: 7000}
	engine := &mockTopoEngine{border: testBorder(), incDeg: 30, headDeg: 10}
	p := &Pipeline{Topo: engine, Tides: constantTide(0, 0, 0)}

	opts := DefaultOptions()
	opts.ScratchDir = scratch

	_, _, err := p.CumulativeCorrectionLUTs(context.Background(), burst, "dem.tif", opts)
	require.NoError(t, err)

	for _, name := range []string{"x.rdr", "y.rdr", "incidence_angle.rdr", "heading_angle.rdr"} {
		_, statErr := os.Stat(filepath.Join(scratch, "corrections", name))
		assert.NoError(t, statErr, "raster %s", name)
	}

	// The engine ran on the 10x coarser grid with the default options.
	assert.True(t, engine.invoked)
	assert.Equal(t, 2000.0, engine.gotGrid.RangePixelSpacing)
	assert.Equal(t, 2.5, engine.gotGrid.AzimuthTimeInterval)
	assert.Equal(t, 1e8, engine.gotCfg.ConvergenceThreshold)
}

func TestPipelineEngineFailurePropagates(t *testing.T) {
	t.Parallel()

	burst := &mockBurst{rg: testRadarGrid(), border: testBorder()}
	engineErr := errors.New("DEM does not cover burst footprint")
	p := &Pipeline{
		Topo:  &mockTopoEngine{err: engineErr},
		Tides: constantTide(0, 0, 0),
	}

	opts := DefaultOptions()
	opts.ScratchDir = t.TempDir()

	_, _, err := p.CumulativeCorrectionLUTs(context.Background(), burst, "dem.tif", opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, engineErr)
}

func TestPipelineTideFailureIsAllOrNothing(t *testing.T) {
	t.Parallel()

	burst := &mockBurst{rg: testRadarGrid(), border: testBorder()}
	tideErr := errors.New("solid earth tide model crashed")
	failing := tideFunc(func(time.Time, grid.Desc) (*grid.Field, *grid.Field, *grid.Field, error) {
		return nil, nil, nil, tideErr
	})
	p := &Pipeline{
		Topo:  &mockTopoEngine{border: testBorder()},
		Tides: failing,
	}

	opts := DefaultOptions()
	opts.ScratchDir = t.TempDir()

	rgLUT, azLUT, err := p.CumulativeCorrectionLUTs(context.Background(), burst, "dem.tif", opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, tideErr)
	// No partial LUT escapes a failed burst.
	assert.Nil(t, rgLUT.Field)
	assert.Nil(t, azLUT.Field)
}

func TestPipelineBurstModelFailure(t *testing.T) {
	t.Parallel()

	burst := &mockBurst{rg: testRadarGrid(), border: testBorder(), fmErr: errors.New("fm rate fit failed")}
	p := &Pipeline{
		Topo:  &mockTopoEngine{border: testBorder()},
		Tides: constantTide(0, 0, 0),
	}

	opts := DefaultOptions()
	opts.ScratchDir = t.TempDir()

	_, _, err := p.CumulativeCorrectionLUTs(context.Background(), burst, "dem.tif", opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fm rate fit failed")
}

func TestPipelineAzimuthTideOption(t *testing.T) {
	t.Parallel()

	burst := &mockBurst{
		rg:       testRadarGrid(),
		border:   testBorder(),
		bistatic: 1.0e-6,
		velocity: 7000,
	}
	// Due-north heading puts the constant north displacement fully in
	// the along-track axis.
	p := &Pipeline{
		Topo:  &mockTopoEngine{border: testBorder(), incDeg: 0, headDeg: 90},
		Tides: constantTide(0, 0.014, 0),
	}

	opts := DefaultOptions()
	opts.ScratchDir = t.TempDir()
	opts.IncludeAzimuthTide = true

	_, azLUT, err := p.CumulativeCorrectionLUTs(context.Background(), burst, "dem.tif", opts)
	require.NoError(t, err)

	want := -1.0e-6 - 0.014/7000
	testutil.AssertFieldConstant(t, azLUT.Field, want, 1e-12)
}
