// Command parsedemo deduplicates sampled stroke parses and reports stats.
//
// Input is NDJSON: one candidate parse per line, encoded as a nested
// array of strokes of [x, y] points, e.g.
//
//	[[[0,0],[10,0],[20,5]],[[0,10],[20,10]]]
//
// Files ending in .gz are decompressed transparently.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/motorlab/parseset"
	"github.com/motorlab/parseset/render"
)

func main() {
	var (
		input   = flag.String("input", "", "NDJSON parse dump (use - for stdin, .gz is detected)")
		outDir  = flag.String("render", "", "directory to render retained parses into (optional)")
		size    = flag.Int("size", 105, "image side length in pixels")
		motor   = flag.Bool("motor", false, "transform the stroke library to motor coordinates on finish")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		parseset.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	in, err := openInput(*input)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer in.Close()

	cfg := parseset.DefaultConfig()
	if *motor {
		cfg.Transform = parseset.ImageToMotor(*size)
	}
	reg := parseset.NewRegistryWithConfig(cfg)

	candidates, err := readParses(in, reg)
	if err != nil {
		log.Fatalf("Failed to read parses: %v", err)
	}
	if err := reg.Finish(); err != nil {
		log.Fatalf("Failed to finish registry: %v", err)
	}

	fmt.Printf("candidates: %d\n", candidates)
	fmt.Printf("unique parses: %d\n", reg.ParseCount())
	fmt.Printf("unique strokes: %d\n", reg.StrokeCount())

	if *outDir != "" {
		if err := renderAll(reg, *outDir, *size); err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
	}
}

// openInput opens the parse dump, unwrapping gzip when the name ends
// in .gz. "-" reads stdin.
func openInput(name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, fmt.Errorf("missing -input")
	}
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipFile{zr: zr, f: f}, nil
}

// gzipFile closes both the gzip reader and the underlying file.
type gzipFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipFile) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// readParses feeds every line of the dump into the registry and
// returns the number of candidates read.
func readParses(in io.Reader, reg *parseset.Registry) (int, error) {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<24)

	count := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var raw [][][2]float64
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return count, fmt.Errorf("line %d: %w", count+1, err)
		}
		p := make(parseset.Parse, len(raw))
		for i, stroke := range raw {
			s := make(parseset.Stroke, len(stroke))
			for j, pt := range stroke {
				s[j] = parseset.Pt(pt[0], pt[1])
			}
			p[i] = s
		}
		if err := reg.Add(p); err != nil {
			return count, err
		}
		count++
	}
	return count, sc.Err()
}

// renderAll writes one PNG per retained parse into dir.
func renderAll(reg *parseset.Registry, dir string, size int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	parses, err := reg.Get()
	if err != nil {
		return err
	}
	opts := render.DefaultOptions()
	opts.Width = size
	opts.Height = size
	for i, strokes := range parses {
		img := render.Parse(parseset.Parse(strokes), opts)
		name := filepath.Join(dir, fmt.Sprintf("parse_%03d.png", i))
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := render.WritePNG(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	log.Printf("Rendered %d parses to %s\n", len(parses), dir)
	return nil
}
