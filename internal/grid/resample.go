package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ResampleNearest looks up field values at scattered destination points
// using nearest-neighbor interpolation over the field's rectangular grid.
// yAxis and xAxis are the row/column node coordinates and must be
// ascending and uniformly spaced. Destination points outside the axis
// extents receive fill.
//
// Callers holding north-to-south (descending latitude) data must flip the
// rows first (FlipRows) so the data ordering matches the ascending yAxis;
// skipping the flip silently mirrors the result.
func ResampleNearest(f *Field, yAxis, xAxis []float64, dstY, dstX []float64, fill float64) ([]float64, error) {
	h, w := f.Shape()
	if len(yAxis) != h || len(xAxis) != w {
		return nil, fmt.Errorf("grid: axes %dx%d do not match field %dx%d: %w",
			len(yAxis), len(xAxis), h, w, ErrShapeMismatch)
	}
	if len(dstY) != len(dstX) {
		return nil, fmt.Errorf("grid: destination coordinate lengths differ: %d vs %d: %w",
			len(dstY), len(dstX), ErrShapeMismatch)
	}

	out := make([]float64, len(dstY))
	for i := range dstY {
		r, okR := nearestIndex(yAxis, dstY[i])
		c, okC := nearestIndex(xAxis, dstX[i])
		if !okR || !okC {
			out[i] = fill
			continue
		}
		out[i] = f.At(r, c)
	}
	return out, nil
}

// nearestIndex maps a query coordinate to the closest node of an
// ascending uniform axis. Queries beyond either end report !ok.
func nearestIndex(axis []float64, q float64) (int, bool) {
	n := len(axis)
	if n == 0 || q < axis[0] || q > axis[n-1] {
		return 0, false
	}
	if n == 1 {
		return 0, true
	}
	step := (axis[n-1] - axis[0]) / float64(n-1)
	idx := int(math.Round((q - axis[0]) / step))
	if idx < 0 {
		idx = 0
	} else if idx >= n {
		idx = n - 1
	}
	return idx, true
}

// ResizeBilinear rescales a field to outH x outW samples using bilinear
// interpolation with edge-extended boundaries. Downscaling applies a
// gaussian prefilter so high-frequency content does not alias into the
// output. Constant fields are invariant under resize. The returned
// descriptor keeps the source origin and extent with spacing adjusted to
// the new sample counts.
func ResizeBilinear(f *Field, outH, outW int) (*Field, error) {
	if outH < 1 || outW < 1 {
		return nil, fmt.Errorf("grid: resize target must be >= 1x1, got %dx%d", outH, outW)
	}
	h, w := f.Shape()

	src := f.Data
	scaleY := float64(outH) / float64(h)
	scaleX := float64(outW) / float64(w)
	if scaleY < 1 || scaleX < 1 {
		src = gaussianPrefilter(src, scaleY, scaleX)
	}

	out := mat.NewDense(outH, outW, nil)
	for r := 0; r < outH; r++ {
		// Center-aligned source coordinate for output row r.
		sy := (float64(r)+0.5)/scaleY - 0.5
		y0, y1, fy := edgeSpan(sy, h)
		for c := 0; c < outW; c++ {
			sx := (float64(c)+0.5)/scaleX - 0.5
			x0, x1, fx := edgeSpan(sx, w)

			v00 := src.At(y0, x0)
			v01 := src.At(y0, x1)
			v10 := src.At(y1, x0)
			v11 := src.At(y1, x1)
			top := v00 + (v01-v00)*fx
			bot := v10 + (v11-v10)*fx
			out.Set(r, c, top+(bot-top)*fy)
		}
	}

	desc := Desc{
		X0:     f.Desc.X0,
		Y0:     f.Desc.Y0,
		DX:     f.Desc.DX * float64(w) / float64(outW),
		DY:     f.Desc.DY * float64(h) / float64(outH),
		Width:  outW,
		Height: outH,
	}
	return &Field{Desc: desc, Data: out}, nil
}

// edgeSpan clamps a fractional source coordinate to the valid index range
// and returns the bracketing indices plus the interpolation fraction.
func edgeSpan(s float64, n int) (lo, hi int, frac float64) {
	if s <= 0 {
		return 0, 0, 0
	}
	if s >= float64(n-1) {
		return n - 1, n - 1, 0
	}
	lo = int(math.Floor(s))
	hi = lo + 1
	return lo, hi, s - float64(lo)
}

// gaussianPrefilter smooths the source before downscaling. Sigma per axis
// follows the usual anti-aliasing choice of (1/scale - 1) / 2; axes that
// are not shrinking keep sigma 0 and pass through unchanged.
func gaussianPrefilter(src *mat.Dense, scaleY, scaleX float64) *mat.Dense {
	sigmaY := math.Max(0, (1/scaleY-1)/2)
	sigmaX := math.Max(0, (1/scaleX-1)/2)

	tmp := blurAxis(src, sigmaX, false)
	if sigmaY == 0 {
		return tmp
	}
	return blurAxis(tmp, sigmaY, true)
}

// blurAxis applies a 1-D gaussian along rows (vertical=false) or columns
// (vertical=true) with edge-extended boundaries.
func blurAxis(src *mat.Dense, sigma float64, vertical bool) *mat.Dense {
	h, w := src.Dims()
	if sigma == 0 {
		out := mat.NewDense(h, w, nil)
		out.Copy(src)
		return out
	}

	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	out := mat.NewDense(h, w, nil)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			var acc float64
			for k, kv := range kernel {
				off := k - radius
				rr, cc := r, c
				if vertical {
					rr = clampIndex(r+off, h)
				} else {
					cc = clampIndex(c+off, w)
				}
				acc += kv * src.At(rr, cc)
			}
			out.Set(r, c, acc)
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
