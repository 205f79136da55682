package main

import (
	"fmt"

	"github.com/milk9111/worldmap/config"
	"github.com/milk9111/worldmap/mapfiles"
	"github.com/milk9111/worldmap/object"
	"github.com/milk9111/worldmap/worldmap"
	"github.com/spf13/cobra"
)

// newSamplesCmd lists the bundled map files. Any of them can be passed to
// the world or object command by name.
func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "List the bundled sample maps and objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range mapfiles.Samples(worldmap.FileExt) {
				m := worldmap.New()
				if _, err := mapfiles.LoadWorld(name, m); err != nil {
					return err
				}
				fmt.Fprintf(out, "%-16s %d locations, %d paths\n", name, len(m.Locations()), len(m.Paths()))
			}
			cell := config.Default().Object.CellSize
			for _, name := range mapfiles.Samples(object.FileExt) {
				o := object.New(cell[0], cell[1])
				if _, err := mapfiles.LoadObject(name, o); err != nil {
					return err
				}
				fmt.Fprintf(out, "%-16s %d layers, %d primitives\n", name, len(o.Layers()), len(o.Primitives()))
			}
			return nil
		},
	}
}
