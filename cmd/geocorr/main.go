package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/banshee-data/geocorr/internal/burstdb"
	"github.com/banshee-data/geocorr/internal/config"
	"github.com/banshee-data/geocorr/internal/corrections"
	"github.com/banshee-data/geocorr/internal/grid"
	"github.com/banshee-data/geocorr/internal/monitor"
	"github.com/banshee-data/geocorr/internal/raster"
)

const version = "0.2.0"

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "validate":
		handleValidate(args)
	case "bbox":
		handleBBox(args)
	case "plot":
		handlePlot(args)
	case "version":
		fmt.Printf("geocorr version %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`geocorr - burst geocoding correction tools

Usage: geocorr <command> [options]

Commands:
  validate   Load and validate a correction runconfig
  bbox       Look up burst bounding boxes in the burst map database
  plot       Render a persisted correction raster to PNG
  version    Show geocorr version
  help       Show this help message`)
}

func handleValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to runconfig YAML (required)")
	fs.Parse(args)

	if *configPath == "" {
		log.Fatal("validate: -config is required")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("validate: %v", err)
	}

	p := cfg.Processing
	log.Printf("runconfig OK: %d burst(s), polarization %s, steps %gm x %gs, tides=%v",
		len(cfg.InputFile.BurstIDs), p.GetPolarization(),
		p.GetRangeStep(), p.GetAzimuthStep(), p.GetSolidEarthTides())
}

func handleBBox(args []string) {
	fs := flag.NewFlagSet("bbox", flag.ExitOnError)
	dbPath := fs.String("db", "", "Path to burst map sqlite database (required)")
	bursts := fs.String("burst", "", "Comma-separated JPL burst IDs (required)")
	fs.Parse(args)

	if *dbPath == "" || *bursts == "" {
		log.Fatal("bbox: -db and -burst are required")
	}

	db, err := burstdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("bbox: %v", err)
	}
	defer db.Close()

	ids := strings.Split(*bursts, ",")
	boxes, err := db.BurstBBoxes(ids)
	if err != nil {
		log.Fatalf("bbox: %v", err)
	}
	for _, id := range ids {
		b := boxes[id]
		fmt.Printf("%s\tepsg=%d\t(%g, %g) - (%g, %g)\n", id, b.EPSG, b.XMin, b.YMin, b.XMax, b.YMax)
	}
}

func handlePlot(args []string) {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	rasterPath := fs.String("raster", "", "Path to a correction raster (required)")
	outDir := fs.String("out", ".", "Output directory for the PNG")
	unit := fs.String("unit", string(corrections.Seconds), "LUT unit label (seconds or meters)")
	fs.Parse(args)

	if *rasterPath == "" {
		log.Fatal("plot: -raster is required")
	}

	data, hdr, err := raster.Read(*rasterPath)
	if err != nil {
		log.Fatalf("plot: %v", err)
	}
	desc := grid.Desc{X0: 0, Y0: 0, DX: 1, DY: 1, Width: hdr.Width, Height: hdr.Height}
	field, err := grid.FieldFromData(desc, data)
	if err != nil {
		log.Fatalf("plot: %v", err)
	}

	lp := &monitor.LUTPlotter{OutputDir: *outDir}
	name := strings.TrimSuffix(strings.ReplaceAll(*rasterPath, "/", "_"), ".rdr")
	path, err := lp.Plot(corrections.LUT{Field: field, Unit: corrections.Unit(*unit)}, name)
	if err != nil {
		log.Fatalf("plot: %v", err)
	}
	log.Printf("wrote %s (%dx%d)", path, hdr.Height, hdr.Width)
}
