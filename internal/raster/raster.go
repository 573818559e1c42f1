// Package raster persists 2-D float grids as flat little-endian binary
// files with a JSON sidecar header (<name> plus <name>.hdr). The geometry
// engine's coarse rdr2geo layers are written in this format so later
// stages, and operators debugging a run, can reload them without the
// producing process.
package raster

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// DType identifies the on-disk sample type.
type DType string

const (
	Float32 DType = "float32"
	Float64 DType = "float64"
)

// Header describes the layout of a raster file.
type Header struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	DType  DType `json:"dtype"`
}

func (h Header) validate() error {
	if h.Width < 1 || h.Height < 1 {
		return fmt.Errorf("raster: invalid dimensions %dx%d", h.Height, h.Width)
	}
	switch h.DType {
	case Float32, Float64:
	default:
		return fmt.Errorf("raster: unsupported dtype %q", h.DType)
	}
	return nil
}

func (h Header) sampleSize() int {
	if h.DType == Float32 {
		return 4
	}
	return 8
}

// Write persists row-major data to path with the given shape and sample
// type. len(data) must equal width*height.
func Write(path string, data []float64, width, height int, dtype DType) error {
	hdr := Header{Width: width, Height: height, DType: dtype}
	if err := hdr.validate(); err != nil {
		return err
	}
	if len(data) != width*height {
		return fmt.Errorf("raster: data length %d does not match %dx%d", len(data), height, width)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	buf := make([]byte, 8)
	for _, v := range data {
		if dtype == Float32 {
			binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(float32(v)))
			if _, err := w.Write(buf[:4]); err != nil {
				return fmt.Errorf("raster: write %s: %w", path, err)
			}
		} else {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("raster: write %s: %w", path, err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("raster: flush %s: %w", path, err)
	}

	return writeHeader(path+".hdr", hdr)
}

func writeHeader(path string, hdr Header) error {
	b, err := json.MarshalIndent(hdr, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("raster: write header %s: %w", path, err)
	}
	return nil
}

// Read loads a raster written by Write. Data is returned as float64
// regardless of the stored type. A file shorter than the header promises
// is an error, never silently truncated.
func Read(path string) ([]float64, Header, error) {
	var hdr Header
	hb, err := os.ReadFile(path + ".hdr")
	if err != nil {
		return nil, hdr, fmt.Errorf("raster: read header: %w", err)
	}
	if err := json.Unmarshal(hb, &hdr); err != nil {
		return nil, hdr, fmt.Errorf("raster: parse header %s: %w", path+".hdr", err)
	}
	if err := hdr.validate(); err != nil {
		return nil, hdr, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, hdr, fmt.Errorf("raster: open %s: %w", path, err)
	}
	defer f.Close()

	n := hdr.Width * hdr.Height
	raw := make([]byte, n*hdr.sampleSize())
	if _, err := io.ReadFull(bufio.NewReader(f), raw); err != nil {
		return nil, hdr, fmt.Errorf("raster: %s shorter than %dx%d %s: %w",
			path, hdr.Height, hdr.Width, hdr.DType, err)
	}

	data := make([]float64, n)
	for i := range data {
		if hdr.DType == Float32 {
			bits := binary.LittleEndian.Uint32(raw[i*4:])
			data[i] = float64(math.Float32frombits(bits))
		} else {
			bits := binary.LittleEndian.Uint64(raw[i*8:])
			data[i] = math.Float64frombits(bits)
		}
	}
	return data, hdr, nil
}
