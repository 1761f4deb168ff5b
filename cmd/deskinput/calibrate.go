package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Show the calibration of the monitor under the cursor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sys := openSystem(cfg)
		defer sys.Close()

		out := cmd.OutOrStdout()
		w, h := sys.DisplaySize()
		fmt.Fprintf(out, "backend: %s (ready=%v)\n", sys.Backend().Kind(), sys.Ready())
		fmt.Fprintf(out, "display: %dx%d logical\n", w, h)

		c := sys.Calibrate()
		x, y := sys.Cursor()
		fmt.Fprintf(out, "cursor: %d,%d logical\n", x, y)
		fmt.Fprintf(out, "origin: %d,%d\n", c.Origin.X, c.Origin.Y)
		fmt.Fprintf(out, "scale: %.3f x %.3f\n", c.ScaleX, c.ScaleY)
		fmt.Fprintf(out, "pixels: %dx%d (fallback=%v)\n", c.PixelWidth, c.PixelHeight, c.Fallback)

		if px, py, err := sys.GetCursorPixel(); err == nil {
			fmt.Fprintf(out, "cursor pixel: %d,%d\n", px, py)
		}
		pw, ph := sys.GetPrimaryDisplayPixelSize()
		fmt.Fprintf(out, "primary pixels: %dx%d\n", pw, ph)
		return nil
	},
}
