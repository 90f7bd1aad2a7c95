package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vco-icon-geom/internal/batch"
	"vco-icon-geom/internal/config"
	"vco-icon-geom/internal/reference"
	"vco-icon-geom/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	sceneFile := flag.String("scene", "", "Scene document (.json, .yaml, .msgpack); may also be given as the first argument")
	outputDir := flag.String("output-dir", "", "Output directory (default: current directory)")
	group := flag.String("group", "", "Export only objects in this collection")
	size := flag.Int("size", 0, "Default icon size in pixels, 1-254 (default: 254)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	preview := flag.Bool("preview", false, "Also write a rendered preview per icon")
	previewFormat := flag.String("preview-format", "", "Preview format: webp or png (default: webp)")
	refDir := flag.String("ref", "", "Compare previews against NAME.{png,tga,webp} in this directory")

	flag.Parse()

	if *sceneFile == "" && flag.NArg() > 0 {
		*sceneFile = flag.Arg(0)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		SceneFile:     *sceneFile,
		OutputDir:     *outputDir,
		ReferenceDir:  *refDir,
		Group:         *group,
		Size:          *size,
		Workers:       *workers,
		Preview:       *preview,
		PreviewFormat: *previewFormat,
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	sc, err := scene.Load(cfg.SceneFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	jobs, skipped, err := batch.Plan(sc, cfg.Group)
	if errors.Is(err, scene.ErrGroupNotFound) {
		fmt.Printf("Group %q not found!\n", cfg.Group)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Printf("Skipping: %s (%s)\n", s.Name, s.Reason)
	}

	if len(jobs) == 0 {
		fmt.Println("No icons to export.")
		os.Exit(0)
	}

	var refs reference.Resolver
	if cfg.ReferenceDir != "" {
		refIndex := reference.BuildIndex(cfg.ReferenceDir)
		refs = reference.NewCache(refIndex)
		fmt.Printf("References: %d indexed\n", refIndex.Len())
	}

	// Print summary
	mode := ""
	if cfg.Group != "" {
		mode = fmt.Sprintf(" (Group %s)", cfg.Group)
	}

	fmt.Printf("VCO geometry icon export%s\n", mode)
	fmt.Printf("Scene: %s\n", cfg.SceneFile)
	fmt.Printf("Icons: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	scratch := scene.NewScratch()
	batchCfg := batch.Config{
		OutputDir:     cfg.OutputDir,
		SizeX:         cfg.SizeX,
		SizeY:         cfg.SizeY,
		Workers:       cfg.Workers,
		Scratch:       scratch,
		Preview:       cfg.Preview,
		PreviewFormat: cfg.PreviewFormat,
		PreviewSize:   cfg.PreviewSize,
		Supersample:   cfg.Supersample,
		References:    refs,
		MaxDiff:       cfg.MaxDiff,
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed, compared := 0, 0, 0
	var failures []batch.Result
	for _, r := range results {
		if r.Compared {
			compared++
		}
		if r.Success {
			success++
		} else {
			failed++
			failures = append(failures, r)
		}
	}

	fmt.Printf("Exported: %d/%d\n", success, len(jobs))
	if refs != nil {
		fmt.Printf("Compared with reference: %d\n", compared)
	}
	fmt.Printf("Scratch copies: peak %d, leaked %d\n", scratch.Peak(), scratch.Len())

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(20, len(failures))
		for _, e := range failures[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
