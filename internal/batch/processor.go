package batch

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"vco-icon-geom/internal/geom"
	"vco-icon-geom/internal/icon"
	"vco-icon-geom/internal/raster"
	"vco-icon-geom/internal/reference"
	"vco-icon-geom/internal/scene"

	"github.com/HugoSmits86/nativewebp"
)

// Preview formats.
const (
	PreviewWebP = "webp"
	PreviewPNG  = "png"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	SizeX     int
	SizeY     int
	Workers   int

	// Scratch is shared by all workers; nil gives each job its own.
	Scratch *scene.Scratch

	Preview       bool
	PreviewFormat string
	PreviewSize   int
	Supersample   int

	// References, when set, is consulted for every previewed icon.
	References reference.Resolver
	MaxDiff    float64

	// Out receives progress and per-object diagnostics. Nil means stdout.
	Out io.Writer
}

// Result holds the outcome of exporting one icon.
type Result struct {
	Name      string
	File      string
	Preview   string
	SizeX     int
	SizeY     int
	Triangles int
	Children  int
	Skipped   []string
	Diff      float64
	Compared  bool
	Success   bool
	Error     string
}

// console serializes diagnostic lines from concurrent workers.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

// Run exports all jobs using a worker pool. Results keep the job order.
func Run(cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Scratch == nil {
		cfg.Scratch = scene.NewScratch()
	}
	out := &console{w: cfg.Out}
	if out.w == nil {
		out.w = os.Stdout
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		for i, job := range jobs {
			results[i] = Result{Name: job.Root.Name, Error: err.Error()}
		}
		return results
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					out.Printf("  [%d/%d] %.1f icons/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, out, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, out *console, job Job) Result {
	root := job.Root
	res := Result{
		Name:     root.Name,
		SizeX:    cfg.SizeX,
		SizeY:    cfg.SizeY,
		Children: len(job.Children),
	}
	if root.Properties.SizeX > 0 {
		res.SizeX = root.Properties.SizeX
	}
	if root.Properties.SizeY > 0 {
		res.SizeY = root.Properties.SizeY
	}

	ex := geom.Extractor{
		Scratch: cfg.Scratch,
		OnSkip: func(pe *geom.PreconditionError) {
			res.Skipped = append(res.Skipped, pe.Object)
			out.Printf("Skipping: %s (%v)\n", pe.Object, pe.Err)
		},
	}
	tris, err := ex.Extract(root, job.Children)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Triangles = len(tris)

	data, err := icon.Marshal(tris, res.SizeX, res.SizeY)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	stem := fileStem(root.Name)
	res.File = stem + icon.FileExt
	path := filepath.Join(cfg.OutputDir, res.File)
	out.Printf("Writing: %s (%d, %d)\n", path, data[4], data[5])
	if err := writeFileAtomic(path, data); err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.Preview {
		if err := preview(cfg, &res, stem, data); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	res.Success = true
	return res
}

// preview renders the written document back from its bytes, saves it and
// checks it against the reference when one is configured.
func preview(cfg Config, res *Result, stem string, data []byte) error {
	doc, err := icon.Unmarshal(data)
	if err != nil {
		return err
	}
	img := raster.RenderIcon(doc, cfg.PreviewSize, cfg.Supersample)

	format := cfg.PreviewFormat
	if format == "" {
		format = PreviewWebP
	}
	buf, err := encodePreview(img, format)
	if err != nil {
		return err
	}
	res.Preview = stem + "." + format
	if err := writeFileAtomic(filepath.Join(cfg.OutputDir, res.Preview), buf); err != nil {
		return err
	}

	if cfg.References == nil {
		return nil
	}
	ref, err := cfg.References.Resolve(res.Name)
	if err != nil {
		return err
	}
	if ref == nil {
		return nil
	}
	diff, err := reference.MeanAbsDiff(img, ref)
	if err != nil {
		return err
	}
	res.Diff = diff
	res.Compared = true
	if diff > cfg.MaxDiff {
		return fmt.Errorf("reference mismatch: diff %.2f > %.2f", diff, cfg.MaxDiff)
	}
	return nil
}

func encodePreview(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case PreviewWebP:
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("WebP encode: %w", err)
		}
	case PreviewPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("PNG encode: %w", err)
		}
	default:
		return nil, fmt.Errorf("batch: unknown preview format %q", format)
	}
	return buf.Bytes(), nil
}
