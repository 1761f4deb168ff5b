package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/frudas24/deskinput/internal/capture"
	"github.com/frudas24/deskinput/internal/monitor"
	"github.com/spf13/cobra"
)

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List monitors and capturable displays",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, _, err := loadConfig(cmd); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		list, err := monitor.ListMonitors()
		if err != nil {
			fmt.Fprintf(out, "monitors: %v\n", err)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tNAME\tLOGICAL\tPIXELS\tPRIMARY")
		for _, m := range list {
			fmt.Fprintf(tw, "%d\t%s\t%dx%d at %d,%d\t%dx%d\t%v\n", m.Index, m.Name, m.W, m.H, m.X, m.Y, m.PixelW, m.PixelH, m.Primary)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		n := capture.DisplayCount()
		fmt.Fprintf(out, "\ncapture displays: %d\n", n)
		for i := 0; i < n; i++ {
			fmt.Fprintf(out, "  %s\n", capture.DisplayInfo(i))
		}
		return nil
	},
}
