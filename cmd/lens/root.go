package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phanxgames/lens"
	"github.com/phanxgames/lens/config"
	"github.com/phanxgames/lens/source"
)

// Version is the application version.
const Version = "0.1.0"

// app holds state shared by the subcommands.
type app struct {
	cfgPath string
	cfg     *config.Config
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer

	// flag values, applied over the config file when set
	filter    string
	src       string
	inputs    []string
	width     int
	height    int
	fps       int
	logLevel  string
	logFormat string
	debug     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:     "lens",
		Short:   "Real-time video filters over a live frame stream",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "lens.json", "Path to the JSON config file")
	pf.StringVarP(&a.filter, "filter", "f", "", "Initial filter key or name (see 'lens filters')")
	pf.StringVar(&a.src, "source", "", "Frame source: pattern or images")
	pf.StringSliceVarP(&a.inputs, "input", "i", nil, "Image files for the images source")
	pf.IntVar(&a.width, "width", 0, "Source frame width")
	pf.IntVar(&a.height, "height", 0, "Source frame height")
	pf.IntVar(&a.fps, "fps", 0, "Ticks per second")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	pf.BoolVar(&a.debug, "debug", false, "Log per-tick timing")

	root.AddCommand(a.newRunCmd(), a.newRenderCmd(), a.newFiltersCmd())
	return root
}

// loadConfig reads the config file, applies explicitly set flags and builds
// the logger.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("filter") {
		cfg.Filter = a.filter
	}
	if flags.Changed("source") {
		cfg.Source = a.src
	}
	if flags.Changed("input") {
		cfg.Inputs = a.inputs
		if !flags.Changed("source") {
			cfg.Source = config.SourceImages
		}
	}
	if flags.Changed("width") {
		cfg.Width = a.width
	}
	if flags.Changed("height") {
		cfg.Height = a.height
	}
	if flags.Changed("fps") {
		cfg.FPS = a.fps
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(a.stderr)
	return nil
}

// newSource builds the configured frame source.
func (a *app) newSource() lens.FrameSource {
	if a.cfg.Source == config.SourceImages {
		return &source.Images{
			Paths:  a.cfg.Inputs,
			Width:  a.cfg.Width,
			Height: a.cfg.Height,
			Hold:   a.cfg.Hold,
		}
	}
	return source.NewPattern(a.cfg.Width, a.cfg.Height)
}

// newLoop builds a render loop over the configured source.
func (a *app) newLoop(p lens.Presenter) (*lens.RenderLoop, error) {
	id, err := a.cfg.FilterID()
	if err != nil {
		return nil, err
	}
	return lens.NewRenderLoop(a.newSource(), p, lens.LoopConfig{
		Filter: id,
		Logger: a.logger,
		Debug:  a.cfg.Debug,
	})
}

// Execute runs the CLI until completion or Ctrl+C.
func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
