package main

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/phanxgames/lens"
)

type renderOptions struct {
	frames     int
	outDir     string
	scriptPath string
	all        bool
	progress   bool
}

func (a *app) newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render filtered frames headless to PNG files",
		Long: `Render filtered frames headless to PNG files.

Ticks run back to back with a simulated clock at the configured fps, so the
output is identical between runs. With --script, only the script's snapshots
are written unless --all is also given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if !cmd.Flags().Changed("all") {
				opts.all = opts.scriptPath == ""
			}
			return a.render(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 120, "Number of ticks to render")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "frames", "Output directory")
	cmd.Flags().StringVar(&opts.scriptPath, "script", "", "JSON render script to drive filter switches and snapshots")
	cmd.Flags().BoolVar(&opts.all, "all", true, "Write every frame")
	cmd.Flags().BoolVar(&opts.progress, "progress", true, "Show a progress bar")
	return cmd
}

func (a *app) render(ctx context.Context, opts renderOptions) error {
	if opts.frames <= 0 {
		return fmt.Errorf("render: --frames must be positive")
	}
	script, err := loadScriptFile(opts.scriptPath)
	if err != nil {
		return err
	}

	pres := lens.NewPNGPresenter(opts.outDir, opts.all)
	loop, err := a.newLoop(pres)
	if err != nil {
		return err
	}
	if err := loop.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := loop.Dispose(); err != nil {
			a.logger.Warn("dispose render loop", "error", err)
		}
	}()

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = progressbar.NewOptions(opts.frames,
			progressbar.OptionSetDescription("Rendering"),
			progressbar.OptionSetWriter(a.stderr), // Write bar to Stderr
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionShowIts(),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(a.stderr) }),
		)
	}

	step := time.Second / time.Duration(a.cfg.FPS)
	for i := 0; i < opts.frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if script != nil {
			if err := script.Step(loop, pres); err != nil {
				return err
			}
		}
		if err := loop.Tick(time.Duration(i) * step); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		if script != nil && script.Done() {
			break
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	s := loop.Stats()
	a.logger.Info("render finished",
		"presented", s.Presented, "skipped", s.Skipped, "files", len(pres.Files()), "dir", opts.outDir)
	for _, f := range pres.Files() {
		fmt.Fprintln(a.stdout, f)
	}
	return nil
}
