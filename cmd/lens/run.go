package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/lens"
	"github.com/phanxgames/lens/display"
)

func (a *app) newRunCmd() *cobra.Command {
	var (
		scriptPath string
		shotDir    string
		scale      float64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and filter the stream live",
		Long: `Open a window and filter the stream live.

Keys: 1-6 select a filter, Left/Right cycle filters, F12 saves a snapshot,
Esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if cmd.Flags().Changed("scale") {
				a.cfg.Scale = scale
			}
			script, err := loadScriptFile(scriptPath)
			if err != nil {
				return err
			}

			win := display.NewWindow(display.Config{
				Title:         "lens",
				Width:         a.cfg.Width,
				Height:        a.cfg.Height,
				Scale:         a.cfg.Scale,
				TPS:           a.cfg.FPS,
				ShowFPS:       a.cfg.ShowFPS,
				ScreenshotDir: shotDir,
				Script:        script,
				Logger:        a.logger,
			})
			loop, err := a.newLoop(win)
			if err != nil {
				return err
			}
			win.Bind(loop)

			ctx := cmd.Context()
			if err := loop.Start(ctx); err != nil {
				return err
			}
			a.logger.Info("render loop started",
				"source", a.cfg.Source, "filter", loop.ActiveFilter().String(), "fps", a.cfg.FPS)

			err = win.Run(ctx)
			s := loop.Stats()
			a.logger.Info("render loop stopped",
				"ticks", s.Ticks, "presented", s.Presented, "skipped", s.Skipped, "resizes", s.Resizes)
			for _, f := range win.Snapshots() {
				fmt.Fprintln(a.stdout, f)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "JSON render script to drive filter switches and snapshots")
	cmd.Flags().StringVar(&shotDir, "screenshots", "screenshots", "Directory for snapshots")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Window scale factor")
	return cmd
}

// loadScriptFile reads a render script. An empty path returns nil.
func loadScriptFile(path string) (*lens.Script, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return lens.LoadScript(data)
}
