package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine"
	"github.com/Carmen-Shannon/hyperspeed/engine/camera"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/hyperspeed/engine/scene"
	"github.com/Carmen-Shannon/hyperspeed/engine/soundtrack"
	"github.com/Carmen-Shannon/hyperspeed/engine/window"
	"github.com/spf13/viper"
)

func run(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadEffectConfig(v)
	if err != nil {
		return err
	}
	s, err := readSettings(v)
	if err != nil {
		return err
	}
	if s.Seed == 0 {
		s.Seed = uint64(time.Now().UnixNano())
	}
	log.Printf("[Hyperspeed] distortion %s, seed %d, smaa %s", cfg.Distortion, s.Seed, s.SMAA.Name)

	sc, err := scene.NewScene(cfg, scene.WithSeed(s.Seed))
	if err != nil {
		return err
	}
	ctrl, err := camera.NewSpeedController(sc.Camera(), cfg,
		camera.WithOnSpeedUp(func(ev common.InputEvent) { log.Printf("[Hyperspeed] speed up (%s)", ev.Kind) }),
		camera.WithOnSlowDown(func(ev common.InputEvent) { log.Printf("[Hyperspeed] slow down (%s)", ev.Kind) }),
	)
	if err != nil {
		return err
	}

	win := window.NewWindow(
		window.WithTitle(s.Title),
		window.WithWidth(s.Width),
		window.WithHeight(s.Height),
	)
	defer func() {
		if err := win.Close(); err != nil {
			log.Printf("[Hyperspeed] close window: %v", err)
		}
	}()

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(s.PresentMode),
		renderer.WithMSAA(s.MSAA),
		renderer.WithForceSoftwareRenderer(s.Software),
	)

	chain := postprocess.NewChain(r, chainOptions(s)...)
	e, err := engine.NewEngine(win, r, sc,
		engine.WithChain(chain),
		engine.WithController(ctrl),
		engine.WithProfiling(s.Profile),
		engine.WithRenderFrameLimit(s.FrameLimit),
	)
	if err != nil {
		r.Release()
		return err
	}

	if s.MusicDir != "" {
		player, err := startSoundtrack(s)
		if err != nil {
			log.Printf("[Hyperspeed] soundtrack disabled: %v", err)
		} else {
			defer player.Close()
			e.AddInputListener(player.HandleInput)
		}
	}

	if err := e.Init(ctx); err != nil {
		e.Dispose()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		e.Dispose()
	}()

	return e.Run()
}

func chainOptions(s settings) []postprocess.ChainBuilderOption {
	opts := []postprocess.ChainBuilderOption{
		postprocess.WithBloom(s.Bloom),
		postprocess.WithSMAA(s.SMAA),
		postprocess.WithAssetTimeout(s.AssetTimeout),
	}
	if s.SMAADir != "" {
		opts = append(opts, postprocess.WithAssetSources(
			postprocess.FileAsset{Path: filepath.Join(s.SMAADir, postprocess.AreaFileName)},
			postprocess.FileAsset{Path: filepath.Join(s.SMAADir, postprocess.SearchFileName), Search: true},
		))
	}
	return opts
}

func startSoundtrack(s settings) (soundtrack.Player, error) {
	tracks, err := soundtrack.ScanDir(s.MusicDir)
	if err != nil {
		return nil, err
	}
	p := soundtrack.NewPlayer(tracks,
		soundtrack.WithVolume(s.Volume),
		soundtrack.WithMuted(s.Mute),
	)
	if err := p.Start(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}
