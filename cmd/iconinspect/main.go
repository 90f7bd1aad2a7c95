package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"vco-icon-geom/internal/icon"
	"vco-icon-geom/internal/raster"
	"vco-icon-geom/internal/reference"

	"github.com/HugoSmits86/nativewebp"
)

func main() {
	verbose := flag.Bool("v", false, "Print every triangle")
	render := flag.String("render", "", "Render the icon to this .png or .webp path")
	size := flag.Int("size", 128, "Render size in pixels")
	ss := flag.Int("ss", 2, "Supersample factor for -render")
	ref := flag.String("ref", "", "Reference image to compare the rendering with")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: iconinspect [flags] FILE.dat ...")
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := inspect(path, *verbose, *render, *size, *ss, *ref); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string, verbose bool, render string, size, ss int, ref string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := icon.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	sx, sy := doc.Size()
	fmt.Printf("%s: %d bytes\n", path, len(data))
	fmt.Printf("  Range: %d x %d (icon %d x %d), start %d,%d\n", doc.RangeX, doc.RangeY, sx, sy, doc.StartX, doc.StartY)
	fmt.Printf("  Triangles: %d\n", len(doc.Triangles))

	if len(doc.Triangles) > 0 {
		minX, minY := uint8(255), uint8(255)
		var maxX, maxY uint8
		for _, tri := range doc.Triangles {
			for _, c := range tri.Coords {
				minX, maxX = min(minX, c[0]), max(maxX, c[0])
				minY, maxY = min(minY, c[1]), max(maxY, c[1])
			}
		}
		fmt.Printf("  BBox: X[%d, %d] Y[%d, %d]\n", minX, maxX, minY, maxY)
	}

	if verbose {
		for i, tri := range doc.Triangles {
			fmt.Printf("    [%d]", i)
			for k := range tri.Coords {
				c, col := tri.Coords[k], tri.Colors[k]
				fmt.Printf(" (%d,%d #%02x%02x%02x%02x)", c[0], c[1], col[0], col[1], col[2], col[3])
			}
			fmt.Println()
		}
	}

	if render == "" && ref == "" {
		return nil
	}
	img := raster.RenderIcon(doc, size, ss)

	if render != "" {
		var buf bytes.Buffer
		switch strings.ToLower(filepath.Ext(render)) {
		case ".webp":
			err = nativewebp.Encode(&buf, img, nil)
		default:
			err = png.Encode(&buf, img)
		}
		if err != nil {
			return fmt.Errorf("encode %s: %w", render, err)
		}
		if err := os.WriteFile(render, buf.Bytes(), 0644); err != nil {
			return err
		}
		fmt.Printf("  Rendered: %s (%dx%d)\n", render, size, size)
	}

	if ref != "" {
		refImg, err := reference.Load(ref)
		if err != nil {
			return err
		}
		diff, err := reference.MeanAbsDiff(img, refImg)
		if err != nil {
			return err
		}
		fmt.Printf("  Reference diff: %.3f (%s)\n", diff, ref)
	}
	return nil
}
