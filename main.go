// Command scrapless watches the game screen and submits anonymized hunt
// telemetry. One capture, one controller step, one sleep, forever.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog"
	exprand "golang.org/x/exp/rand"

	"github.com/RKleminski/Scrapless/internal/catalog"
	"github.com/RKleminski/Scrapless/internal/config"
	"github.com/RKleminski/Scrapless/internal/hunt"
	"github.com/RKleminski/Scrapless/internal/loot"
	"github.com/RKleminski/Scrapless/internal/ocr"
	"github.com/RKleminski/Scrapless/internal/overlay"
	"github.com/RKleminski/Scrapless/internal/screens"
	"github.com/RKleminski/Scrapless/internal/submit"
	"github.com/RKleminski/Scrapless/internal/version"
	"github.com/RKleminski/Scrapless/internal/vision"
)

func main() {
	configPath := flag.String("config", "./data/config.json", "Path to the configuration file")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	logger.Info().Str("version", version.Version).Msg("starting scrapless")

	if err := run(*configPath, logger); err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
}

func run(configPath string, logger zerolog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	patch, err := version.GamePatch(cfg.GamePath)
	if err != nil {
		return err
	}
	logger.Info().Str("patch", patch).Str("user", cfg.User).Msg("configuration loaded")

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	assets, err := cfg.LoadAssets()
	if err != nil {
		return err
	}
	defer assets.Close()

	engine, err := ocr.NewEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	forms, err := submit.LoadForms(filepath.Join(cfg.DataDir, "forms.json"))
	if err != nil {
		return err
	}

	sink := overlay.NewLogSink(logger)
	reconciler := loot.NewEngine(cat, exprand.NewSource(uint64(time.Now().UnixNano())))

	ctrl, err := hunt.NewController(hunt.Deps{
		Lobby:      screens.NewLobby(engine, cat, assets),
		Loot:       screens.NewLoot(engine, cat, assets),
		Bounty:     screens.NewBounty(engine, assets),
		Escalation: screens.NewEscalation(engine, assets),
		Reconciler: reconciler,
		Catalog:    cat,
		Gateway:    submit.NewFormsGateway(forms),
		Sink:       sink,
		Patch:      patch,
		User:       cfg.User,
		SaveFrame:  frameSaver(logger, filepath.Join(cfg.DataDir, "debug")),
	})
	if err != nil {
		return err
	}

	bounds := image.Rect(cfg.ScreenX, cfg.ScreenY,
		cfg.ScreenX+cfg.ScreenWidth, cfg.ScreenY+cfg.ScreenHeight)
	interval := time.Duration(cfg.PollIntervalMS) * time.Millisecond
	logger.Info().
		Str("capture", bounds.String()).
		Dur("interval", interval).
		Msg("entering capture loop")

	for {
		time.Sleep(interval)
		step(ctrl, bounds, logger)
	}
}

// step processes one frame. A panic from any component is logged and
// the loop moves on; a single bad frame must never end the session.
func step(ctrl *hunt.Controller, bounds image.Rectangle, logger zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("frame processing panicked")
		}
	}()

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		logger.Warn().Err(err).Msg("screen capture failed")
		return
	}

	frame, err := vision.NewFrame(img, time.Now())
	if err != nil {
		logger.Warn().Err(err).Msg("frame conversion failed")
		return
	}
	defer frame.Close()

	ctrl.Step(frame)
}

// frameSaver persists a frame for manual inspection when loot data looks
// corrupt. Failures are logged and swallowed; diagnostics never break
// the loop.
func frameSaver(logger zerolog.Logger, dir string) func(f *vision.Frame) {
	return func(f *vision.Frame) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Warn().Err(err).Msg("could not create debug directory")
			return
		}

		img, err := f.Mat.ToImage()
		if err != nil {
			logger.Warn().Err(err).Msg("could not convert debug frame")
			return
		}

		name := fmt.Sprintf("frame-%s.png", f.CapturedAt.Format("20060102-150405"))
		path := filepath.Join(dir, name)
		out, err := os.Create(path)
		if err != nil {
			logger.Warn().Err(err).Msg("could not write debug frame")
			return
		}
		defer out.Close()

		if err := png.Encode(out, img); err != nil {
			logger.Warn().Err(err).Msg("could not encode debug frame")
			return
		}
		logger.Info().Str("path", path).Msg("saved debug frame")
	}
}
