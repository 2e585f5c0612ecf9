// Command regiondump captures one frame (or loads a screenshot) and
// writes the crop of every configured region to disk. Used to calibrate
// region rectangles after a game UI change or a resolution switch.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/RKleminski/Scrapless/internal/config"
	"github.com/RKleminski/Scrapless/internal/vision"
)

func main() {
	configPath := flag.String("config", "./data/config.json", "Path to the configuration file")
	imagePath := flag.String("image", "", "Screenshot to dump instead of a live capture")
	outDir := flag.String("out", "./regiondump", "Output directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	assets, err := cfg.LoadAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load assets: %v\n", err)
		os.Exit(1)
	}
	defer assets.Close()

	rgba, err := grabFrame(cfg, *imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to acquire frame: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Frame: %dx%d pixels\n", rgba.Bounds().Dx(), rgba.Bounds().Dy())

	frame, err := vision.NewFrame(rgba, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to convert frame: %v\n", err)
		os.Exit(1)
	}
	defer frame.Close()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	dumped := 0
	for _, name := range config.RequiredRegions {
		region := assets.Region(name)
		if err := dumpRegion(rgba, region, *outDir, name); err != nil {
			fmt.Fprintf(os.Stderr, "  %-24s FAILED: %v\n", name, err)
			continue
		}
		fmt.Printf("  %-24s %4dx%-4d ok\n", name, region.Right-region.Left, region.Bottom-region.Top)
		dumped++
	}
	fmt.Printf("Dumped %d of %d regions to %s\n", dumped, len(config.RequiredRegions), *outDir)
}

// grabFrame captures the configured screen rectangle, or decodes the
// given screenshot file when one is provided.
func grabFrame(cfg *config.Config, imagePath string) (*image.RGBA, error) {
	if imagePath == "" {
		bounds := image.Rect(cfg.ScreenX, cfg.ScreenY,
			cfg.ScreenX+cfg.ScreenWidth, cfg.ScreenY+cfg.ScreenHeight)
		return screenshot.CaptureRect(bounds)
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

func dumpRegion(frame *image.RGBA, r vision.Region, outDir, name string) error {
	if err := r.Validate(); err != nil {
		return err
	}

	rect := image.Rect(r.Left, r.Top, r.Right, r.Bottom)
	if !rect.In(frame.Bounds()) {
		return fmt.Errorf("region %+v exceeds frame %v", r, frame.Bounds())
	}

	crop := frame.SubImage(rect)
	path := filepath.Join(outDir, filepath.FromSlash(name)+".png")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, crop)
}
