// Package monitor renders correction LUTs as diagnostic plots. A LUT is
// drawn as one line per sampled azimuth row against slant range, which
// makes grid misalignment and sign errors visible at a glance.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/geocorr/internal/corrections"
)

// LUTPlotter writes PNG diagnostics for correction LUTs.
type LUTPlotter struct {
	OutputDir string
	// MaxRows caps the number of azimuth rows drawn; rows are sampled
	// evenly across the grid. Zero means 8.
	MaxRows int
}

// Plot renders the LUT to <OutputDir>/<name>.png and returns the path.
func (lp *LUTPlotter) Plot(lut corrections.LUT, name string) (string, error) {
	if lp.OutputDir == "" {
		return "", fmt.Errorf("monitor: no output directory configured")
	}
	if lut.Field == nil {
		return "", fmt.Errorf("monitor: nil LUT field")
	}
	if err := os.MkdirAll(lp.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("monitor: create output dir: %w", err)
	}

	h, w := lut.Field.Shape()
	maxRows := lp.MaxRows
	if maxRows <= 0 {
		maxRows = 8
	}
	stride := h / maxRows
	if stride < 1 {
		stride = 1
	}

	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "Slant range (m)"
	p.Y.Label.Text = fmt.Sprintf("Correction (%s)", lut.Unit)

	xAxis := lut.Field.Desc.XAxis()
	rowCount := 0
	for r := 0; r < h; r += stride {
		pts := make(plotter.XYs, w)
		for c := 0; c < w; c++ {
			pts[c] = plotter.XY{X: xAxis[c], Y: lut.Field.At(r, c)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", fmt.Errorf("monitor: row %d: %w", r, err)
		}
		line.Color = rowColor(rowCount, (h+stride-1)/stride)
		line.Width = vg.Points(1)
		p.Add(line)
		rowLabel := fmt.Sprintf("t=%.2fs", lut.Field.Desc.Y0+float64(r)*lut.Field.Desc.DY)
		p.Legend.Add(rowLabel, line)
		rowCount++
	}
	p.Legend.Top = true

	outPath := filepath.Join(lp.OutputDir, name+".png")
	if err := p.Save(10*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return "", fmt.Errorf("monitor: save plot: %w", err)
	}
	return outPath, nil
}

// rowColor spreads hues evenly over the drawn rows.
func rowColor(i, n int) color.Color {
	if n <= 0 {
		n = 1
	}
	hue := float64(i) / float64(n)
	r, g, b := hslToRGB(hue, 0.7, 0.5)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64
	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
