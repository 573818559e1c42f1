// Package config loads and validates the YAML runconfig driving a
// correction run. Fields omitted from the file keep their defaults, so
// partial configs are safe; the Get* accessors are the single source of
// those defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Polarization modes accepted by the processing group.
const (
	CoPol    = "co-pol"
	CrossPol = "cross-pol"
	DualPol  = "dual-pol"
)

// RunConfig is the root runconfig document.
type RunConfig struct {
	InputFile        InputFileGroup        `yaml:"input_file_group"`
	DynamicAncillary DynamicAncillaryGroup `yaml:"dynamic_ancillary_file_group"`
	ProductPath      ProductPathGroup      `yaml:"product_path_group"`
	Processing       ProcessingGroup       `yaml:"processing"`
}

// InputFileGroup lists the acquisition inputs.
type InputFileGroup struct {
	SafeFilePaths  []string `yaml:"safe_file_path"`
	OrbitFilePaths []string `yaml:"orbit_file_path"`
	BurstIDs       []string `yaml:"burst_id"`
	BurstDBFile    string   `yaml:"burst_database_file"`
}

// DynamicAncillaryGroup holds per-run ancillary inputs.
type DynamicAncillaryGroup struct {
	DEMFile string `yaml:"dem_file"`
}

// ProductPathGroup holds output and scratch locations.
type ProductPathGroup struct {
	ProductPath string `yaml:"product_path"`
	ScratchPath string `yaml:"scratch_path"`
}

// ProcessingGroup tunes the correction computation. Pointer fields
// distinguish "omitted" from explicit zero values.
type ProcessingGroup struct {
	Polarization         *string  `yaml:"polarization,omitempty"`
	RangeStep            *float64 `yaml:"correction_range_step,omitempty"`   // meters
	AzimuthStep          *float64 `yaml:"correction_azimuth_step,omitempty"` // seconds
	SolidEarthTides      *bool    `yaml:"solid_earth_tides,omitempty"`
	AzimuthSETInLUT      *bool    `yaml:"azimuth_set_in_lut,omitempty"`
	TideGridWidth        *int     `yaml:"tide_grid_width,omitempty"`
	TideGridHeight       *int     `yaml:"tide_grid_height,omitempty"`
	TideGridSpacing      *float64 `yaml:"tide_grid_spacing,omitempty"` // degrees
	TideGridMargin       *float64 `yaml:"tide_grid_margin,omitempty"`  // degrees
	ConvergenceThreshold *float64 `yaml:"rdr2geo_threshold,omitempty"`
}

// Load reads and validates a runconfig from a YAML file.
func Load(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config: runconfig must have a .yaml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config: stat runconfig: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config: runconfig too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config: read runconfig: %w", err)
	}

	cfg := &RunConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse runconfig YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid runconfig: %w", err)
	}
	return cfg, nil
}

// Validate checks group contents the way the processing code relies on
// them: existing input files, a DEM, writable output dirs, sane steps.
func (c *RunConfig) Validate() error {
	for _, p := range c.InputFile.SafeFilePaths {
		if err := checkFilePath(p); err != nil {
			return err
		}
	}
	for _, p := range c.InputFile.OrbitFilePaths {
		if err := checkFilePath(p); err != nil {
			return err
		}
	}
	if c.InputFile.BurstDBFile != "" {
		if err := checkFilePath(c.InputFile.BurstDBFile); err != nil {
			return err
		}
	}
	if c.DynamicAncillary.DEMFile == "" {
		return fmt.Errorf("dem_file is required")
	}
	if err := checkFilePath(c.DynamicAncillary.DEMFile); err != nil {
		return err
	}
	if err := checkWriteDir(c.ProductPath.ProductPath); err != nil {
		return err
	}
	if err := checkWriteDir(c.ProductPath.ScratchPath); err != nil {
		return err
	}

	p := c.Processing
	if p.Polarization != nil {
		switch *p.Polarization {
		case CoPol, CrossPol, DualPol:
		default:
			return fmt.Errorf("polarization must be one of %s, %s, %s; got %q",
				CoPol, CrossPol, DualPol, *p.Polarization)
		}
	}
	if p.RangeStep != nil && *p.RangeStep <= 0 {
		return fmt.Errorf("correction_range_step must be positive, got %g", *p.RangeStep)
	}
	if p.AzimuthStep != nil && *p.AzimuthStep <= 0 {
		return fmt.Errorf("correction_azimuth_step must be positive, got %g", *p.AzimuthStep)
	}
	if p.TideGridSpacing != nil && *p.TideGridSpacing <= 0 {
		return fmt.Errorf("tide_grid_spacing must be positive, got %g", *p.TideGridSpacing)
	}
	if p.TideGridMargin != nil && *p.TideGridMargin < 0 {
		return fmt.Errorf("tide_grid_margin must be non-negative, got %g", *p.TideGridMargin)
	}
	if p.ConvergenceThreshold != nil && *p.ConvergenceThreshold <= 0 {
		return fmt.Errorf("rdr2geo_threshold must be positive, got %g", *p.ConvergenceThreshold)
	}
	return nil
}

func checkFilePath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s not found", path)
	}
	return nil
}

// checkWriteDir creates the directory if missing and verifies it is
// writable by probing a temp file; os.Access semantics differ across
// platforms, a probe does not.
func checkWriteDir(path string) error {
	if path == "" {
		path = "."
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	probe, err := os.CreateTemp(path, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("%s lacks write permission", path)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// GetPolarization returns the polarization mode or the default.
func (p ProcessingGroup) GetPolarization() string {
	if p.Polarization == nil {
		return CoPol
	}
	return *p.Polarization
}

// GetRangeStep returns the range LUT spacing in meters or the default.
func (p ProcessingGroup) GetRangeStep() float64 {
	if p.RangeStep == nil {
		return 200
	}
	return *p.RangeStep
}

// GetAzimuthStep returns the azimuth LUT spacing in seconds or the default.
func (p ProcessingGroup) GetAzimuthStep() float64 {
	if p.AzimuthStep == nil {
		return 0.25
	}
	return *p.AzimuthStep
}

// GetSolidEarthTides reports whether tide correction is enabled.
func (p ProcessingGroup) GetSolidEarthTides() bool {
	if p.SolidEarthTides == nil {
		return true
	}
	return *p.SolidEarthTides
}

// GetAzimuthSETInLUT reports whether the along-track tide term is folded
// into the azimuth LUT. Off by default to match the reference products.
func (p ProcessingGroup) GetAzimuthSETInLUT() bool {
	if p.AzimuthSETInLUT == nil {
		return false
	}
	return *p.AzimuthSETInLUT
}

// GetTideGridWidth returns the tide grid width in cells or the default.
func (p ProcessingGroup) GetTideGridWidth() int {
	if p.TideGridWidth == nil {
		return 100
	}
	return *p.TideGridWidth
}

// GetTideGridHeight returns the tide grid height in cells or the default.
func (p ProcessingGroup) GetTideGridHeight() int {
	if p.TideGridHeight == nil {
		return 25
	}
	return *p.TideGridHeight
}

// GetTideGridSpacing returns the tide grid spacing in degrees or the default.
func (p ProcessingGroup) GetTideGridSpacing() float64 {
	if p.TideGridSpacing == nil {
		return 0.023
	}
	return *p.TideGridSpacing
}

// GetTideGridMargin returns the tide grid margin in degrees or the default.
func (p ProcessingGroup) GetTideGridMargin() float64 {
	if p.TideGridMargin == nil {
		return 0.1
	}
	return *p.TideGridMargin
}

// GetConvergenceThreshold returns the rdr2geo convergence threshold or
// the default.
func (p ProcessingGroup) GetConvergenceThreshold() float64 {
	if p.ConvergenceThreshold == nil {
		return 1e8
	}
	return *p.ConvergenceThreshold
}
