// Package main provides the CLI entry point for framereel.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framereel/pkg/adapters/ffmpeg"
	"github.com/user/framereel/pkg/adapters/ggrenderer"
	"github.com/user/framereel/pkg/adapters/htmlsurface"
	"github.com/user/framereel/pkg/adapters/logger"
	"github.com/user/framereel/pkg/adapters/osfilesystem"
	"github.com/user/framereel/pkg/adapters/screensurface"
	"github.com/user/framereel/pkg/adapters/storageaccess"
	"github.com/user/framereel/pkg/adapters/widgetsurface"
	"github.com/user/framereel/pkg/config"
	"github.com/user/framereel/pkg/dirs"
	"github.com/user/framereel/pkg/frames"
	"github.com/user/framereel/pkg/orchestrator"
	"github.com/user/framereel/pkg/pipeline"
	"github.com/user/framereel/pkg/ports"
	"github.com/user/framereel/pkg/stages/encode"
	"github.com/user/framereel/pkg/summarizer"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "framereel",
		Usage:   l10n.T("Capture an animated widget to PNG frames and encode them into MP4"),
		Version: version,
		Commands: []*cli.Command{
			{
				Name:      "record",
				Usage:     l10n.T("Capture frames for a duration, then encode them"),
				ArgsUsage: " ",
				Flags:     append(commonFlags(), append(recordFlags(), encodeFlags()...)...),
				Action:    runRecord,
			},
			{
				Name:   "encode",
				Usage:  l10n.T("Encode the frames already on disk into the output video"),
				Flags:  append(commonFlags(), encodeFlags()...),
				Action: runEncode,
			},
			{
				Name:   "probe",
				Usage:  l10n.T("Show which encoder would be selected"),
				Flags:  append(commonFlags(), encoderChoiceFlags()...),
				Action: runProbe,
			},
			{
				Name:   "dirs",
				Usage:  l10n.T("Resolve and create the output directories"),
				Flags:  commonFlags(),
				Action: runDirs,
			},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T("Configuration")},
		&cli.StringFlag{Name: "dir", Usage: l10n.T("Preferred base directory"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "fallback-dir", Usage: l10n.T("Base directory used when the preferred one is unavailable"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "ffmpeg-path", Usage: l10n.T("Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)"), Category: l10n.T("Encoder")},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
	}
}

func recordFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "surface", Aliases: []string{"s"}, Usage: l10n.T("Surface to capture (widget, html, screen)"), Category: l10n.T("Surface")},
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Surface width in pixels"), Category: l10n.T("Surface")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: l10n.T("Surface height in pixels"), Category: l10n.T("Surface")},
		&cli.StringFlag{Name: "caption", Usage: l10n.T("Caption shown in the widget"), Category: l10n.T("Surface")},
		&cli.StringFlag{Name: "html-file", Usage: l10n.T("HTML page to render instead of the built-in widget"), Category: l10n.T("Surface")},
		&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable (falls back to CHROME_PATH env, then system default)"), Category: l10n.T("Surface")},
		&cli.BoolFlag{Name: "no-headless", Usage: l10n.T("Show the browser window"), Category: l10n.T("Surface")},
		&cli.StringFlag{Name: "region", Usage: l10n.T("Screen region x,y,w,h for the screen surface (default: whole screen)"), Category: l10n.T("Surface")},
		&cli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Usage: l10n.T("Recording duration (0: until interrupted or frame limit)"), Category: l10n.T("Capture")},
		&cli.DurationFlag{Name: "interval", Usage: l10n.T("Time between capture ticks"), Category: l10n.T("Capture")},
		&cli.DurationFlag{Name: "settle-delay", Usage: l10n.T("Wait applied when the surface is repainting"), Category: l10n.T("Capture")},
		&cli.IntFlag{Name: "max-frames", Aliases: []string{"n"}, Usage: l10n.T("Stop after this many frames (0: unlimited)"), Category: l10n.T("Capture")},
		&cli.IntFlag{Name: "frame-width", Usage: l10n.T("Scale frames to this width"), Category: l10n.T("Capture")},
		&cli.IntFlag{Name: "frame-height", Usage: l10n.T("Scale frames to this height"), Category: l10n.T("Capture")},
		&cli.BoolFlag{Name: "clean", Usage: l10n.T("Remove existing frames before recording"), Category: l10n.T("Capture")},
		&cli.BoolFlag{Name: "no-encode", Usage: l10n.T("Capture frames only"), Category: l10n.T("Capture")},
	}
}

func encoderChoiceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "encoder", Usage: l10n.T("Preferred encoder (default: libx264)"), Category: l10n.T("Encoder")},
		&cli.StringFlag{Name: "fallback-encoder", Usage: l10n.T("Encoder used when the preferred one is missing (default: mpeg4)"), Category: l10n.T("Encoder")},
	}
}

func encodeFlags() []cli.Flag {
	return append(encoderChoiceFlags(),
		&cli.IntFlag{Name: "frame-rate", Aliases: []string{"r"}, Usage: l10n.T("Input frame rate (default: 30)"), Category: l10n.T("Encoder")},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Write a Markdown summary to this path"), Category: l10n.T("Output")},
	)
}

// buildConfig loads the optional config file and applies flag overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	setMs := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = int(c.Duration(name) / time.Millisecond)
		}
	}

	setString("dir", &cfg.Dir)
	setString("fallback-dir", &cfg.FallbackDir)
	setString("ffmpeg-path", &cfg.FFmpegPath)
	setString("log-level", &cfg.LogLevel)

	setString("surface", &cfg.Surface)
	setInt("width", &cfg.Width)
	setInt("height", &cfg.Height)
	setString("caption", &cfg.Caption)
	setString("html-file", &cfg.HTMLFile)
	setString("region", &cfg.Region)
	setString("chrome-path", &cfg.ChromePath)
	if c.IsSet("no-headless") {
		cfg.Headless = !c.Bool("no-headless")
	}
	if cfg.HTMLFile != "" && !c.IsSet("surface") {
		cfg.Surface = config.SurfaceHTML
	}

	setMs("duration", &cfg.DurationMs)
	setMs("interval", &cfg.IntervalMs)
	setMs("settle-delay", &cfg.SettleDelayMs)
	setInt("max-frames", &cfg.MaxFrames)
	setInt("frame-width", &cfg.FrameWidth)
	setInt("frame-height", &cfg.FrameHeight)
	if c.IsSet("clean") {
		cfg.Clean = c.Bool("clean")
	}

	setString("encoder", &cfg.PreferredEncoder)
	setString("fallback-encoder", &cfg.FallbackEncoder)
	setInt("frame-rate", &cfg.FrameRate)
	setString("summary", &cfg.Summary)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") || cfg.LogLevel == "quiet" {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// app bundles the adapters shared by every command.
type app struct {
	cfg      config.Config
	log      ports.Logger
	fs       ports.FileSystem
	renderer ports.Renderer
	resolver *dirs.Resolver
}

func newAppContext(c *cli.Context) (*app, error) {
	cfg, err := buildConfig(c)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	log := newLogger(c, cfg)
	fs := osfilesystem.New()
	return &app{
		cfg:      cfg,
		log:      log,
		fs:       fs,
		renderer: ggrenderer.New(),
		resolver: dirs.New(storageaccess.New(), fs, log, cfg.Dir, cfg.FallbackDir),
	}, nil
}

func (a *app) encodeStage() (*encode.Stage, error) {
	runner, err := ffmpeg.New(a.cfg.FFmpegPath)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("%v: install ffmpeg, set FFMPEG_PATH, or use --ffmpeg-path", err), 2)
	}
	return encode.NewStage(runner, a.fs, a.log), nil
}

// openSurface creates the configured surface and starts its animation.
// The returned function releases it.
func (a *app) openSurface(ctx context.Context) (ports.Surface, func(), error) {
	if a.cfg.Surface == config.SurfaceHTML {
		opts, err := a.cfg.ToHTMLOptions()
		if err != nil {
			return nil, nil, err
		}
		s := htmlsurface.New(opts)
		if err := s.Launch(ctx); err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}

	if a.cfg.Surface == config.SurfaceScreen {
		rect, err := a.cfg.ScreenRegion()
		if err != nil {
			return nil, nil, err
		}
		s, err := screensurface.New(rect)
		if err != nil {
			return nil, nil, err
		}
		a.cfg.Width, a.cfg.Height = s.Size()
		return s, func() {}, nil
	}

	s := widgetsurface.New(a.renderer, a.widgetOptions())
	animCtx, stop := context.WithCancel(ctx)
	go s.Animate(animCtx)
	return s, stop, nil
}

// widgetOptions converts the config, dropping a font that cannot be loaded
// after one warning.
func (a *app) widgetOptions() widgetsurface.Options {
	opts := a.cfg.ToWidgetOptions()
	if opts.FontPath != "" {
		if err := ggrenderer.CheckFont(opts.FontPath); err != nil {
			a.log.Warn("Using the built-in font: %s", err)
			opts.FontPath = ""
		}
	}
	return opts
}

func runRecord(c *cli.Context) error {
	a, err := newAppContext(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(a.log)
	defer cancel()

	var stage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	if !c.Bool("no-encode") {
		s, err := a.encodeStage()
		if err != nil {
			return err
		}
		stage = s
	}

	surface, release, err := a.openSurface(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer release()

	orch := orchestrator.New(a.resolver, surface, a.renderer, a.fs, stage, a.log, a.cfg.ToOrchestratorConfig())
	orch.Init(ctx)
	if !orch.Ready() {
		return cli.Exit(l10n.T("Output directories could not be prepared"), 1)
	}

	stats, err := orch.Record(ctx, a.cfg.Duration())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if c.Bool("no-encode") {
		return nil
	}

	// Encode even after an interrupt so captured frames are not lost.
	return a.generate(context.WithoutCancel(ctx), orch, &stats)
}

func runEncode(c *cli.Context) error {
	a, err := newAppContext(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(a.log)
	defer cancel()

	stage, err := a.encodeStage()
	if err != nil {
		return err
	}

	orch := orchestrator.New(a.resolver, nil, a.renderer, a.fs, stage, a.log, a.cfg.ToOrchestratorConfig())
	orch.Init(ctx)
	if !orch.Ready() {
		return cli.Exit(l10n.T("Output directories could not be prepared"), 1)
	}
	return a.generate(ctx, orch, nil)
}

func (a *app) generate(ctx context.Context, orch *orchestrator.Orchestrator, stats *pipeline.CaptureStats) error {
	res := orch.Generate(ctx)

	if a.cfg.Summary != "" {
		a.writeSummary(orch, res, stats)
	}
	if !res.Success {
		return cli.Exit(l10n.F("Video generation failed: %v", res.Err), 1)
	}
	return nil
}

func (a *app) writeSummary(orch *orchestrator.Orchestrator, res orchestrator.GenerateResult, stats *pipeline.CaptureStats) {
	b := summarizer.NewBuilder().WithVideo(summarizer.VideoInfo{
		Path:       res.OutputPath,
		Encoder:    res.Encoder,
		FrameRate:  a.cfg.FrameRate,
		Success:    res.Success,
		ExitCode:   res.ExitCode,
		FileSize:   res.FileSize,
		Codec:      string(res.Info.Codec),
		Samples:    res.Info.Samples,
		DurationMs: res.Info.DurationMs,
		ElapsedMs:  int(res.Elapsed / time.Millisecond),
	})

	capture := summarizer.CaptureInfo{Directory: orch.Layout().Frames}
	if stats != nil {
		capture.Surface = a.cfg.Surface
		capture.Width, capture.Height = a.cfg.Width, a.cfg.Height
		capture.IntervalMs = a.cfg.IntervalMs
	}
	b.WithCapture(capture)
	if stats != nil {
		b.WithFrames(stats.Frames, stats.Dropped, res.Frames)
	} else {
		b.WithFrames(0, 0, res.Frames)
	}

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(func(s string) string { return l10n.T(s) }),
		summarizer.WithVersion(version),
	)
	if err := summarizer.NewWriter(formatter, a.fs).Write(a.cfg.Summary, b.Build()); err != nil {
		a.log.Warn("Could not write summary: %s", err)
		return
	}
	a.log.Info("Summary written to %s", a.cfg.Summary)
}

func runProbe(c *cli.Context) error {
	a, err := newAppContext(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(a.log)
	defer cancel()

	stage, err := a.encodeStage()
	if err != nil {
		return err
	}
	listing, err := stage.Probe(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	selected := encode.SelectEncoder(listing, a.cfg.PreferredEncoder, a.cfg.FallbackEncoder)
	fmt.Println(l10n.F("Selected encoder: %s", selected))
	if selected != a.cfg.PreferredEncoder {
		fmt.Println(l10n.F("%s is not available in this ffmpeg build", a.cfg.PreferredEncoder))
	}
	return nil
}

func runDirs(c *cli.Context) error {
	a, err := newAppContext(c)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(a.log)
	defer cancel()

	layout, err := a.resolver.Resolve(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	names, err := frames.List(a.fs, layout.Frames)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Println(l10n.F("Base:   %s", layout.Base))
	fmt.Println(l10n.F("Frames: %s (%d files)", layout.Frames, len(names)))
	fmt.Println(l10n.F("Output: %s", layout.OutputPath()))
	return nil
}
