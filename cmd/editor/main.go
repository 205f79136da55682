// Command editor runs the world-map and object editors.
package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/worldmap/config"
	"github.com/milk9111/worldmap/editor"
	"github.com/milk9111/worldmap/logging"
	"github.com/milk9111/worldmap/object"
	"github.com/milk9111/worldmap/watch"
	"github.com/milk9111/worldmap/worldmap"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.design/x/clipboard"
)

type rootFlags struct {
	config    string
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "editor",
		Short:        "Edit world maps and objects",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.config, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (auto, console, json)")
	root.AddCommand(newWorldCmd(flags), newObjectCmd(flags), newSamplesCmd())
	return root
}

func (f *rootFlags) load() (config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFile(f.config)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, logging.New(cfg.Log, nil), nil
}

func newWorldCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "world [file" + worldmap.FileExt + "]",
		Short: "Edit a world map of locations and paths",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := flags.load()
			if err != nil {
				return err
			}

			var e *editor.WorldMapEditor
			u, err := newEditorUI(worldTools, func(name string) {
				if err := e.SelectTool(name); err != nil {
					log.Warn().Err(err).Str("tool", name).Msg("select tool")
				}
			})
			if err != nil {
				return err
			}
			panel := newPropertiesPanel(u.theme, u.fontFace)
			u.addRight(panel.container)

			e, err = editor.NewWorldMapEditor(cfg, editor.WithLogger(log), editor.WithPanel(panel))
			if err != nil {
				return err
			}
			defer e.Close()
			panel.OnChange(e.Edit.SetProperty)
			panel.OnDelete(e.Edit.DeleteProperty)

			path, err := openArg(e.Open, args)
			if err != nil {
				return err
			}
			g := newGame(e, u, log, cfg.World.Width, cfg.World.Height)
			g.sys, g.cam, g.host = e.Graphics, e.Camera, e.Host
			g.copySelection = e.CopySelection
			u.addFileSection(path, g.save)
			addBackgroundSection(u, e, log)
			return run(g, "World map editor", worldmap.FileExt)
		},
	}
}

func newObjectCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "object [file" + object.FileExt + "]",
		Short: "Edit an object of image layers and grid primitives",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := flags.load()
			if err != nil {
				return err
			}

			var e *editor.ObjectEditor
			u, err := newEditorUI(objectTools, func(name string) {
				if err := e.SelectTool(name); err != nil {
					log.Warn().Err(err).Str("tool", name).Msg("select tool")
				}
			})
			if err != nil {
				return err
			}

			e, err = editor.NewObjectEditor(cfg, editor.WithLogger(log))
			if err != nil {
				return err
			}
			defer e.Close()

			path, err := openArg(e.Open, args)
			if err != nil {
				return err
			}
			g := newGame(e, u, log, cfg.Object.Width, cfg.Object.Height)
			g.sys, g.cam, g.host = e.Graphics, e.Camera, e.Host
			u.addFileSection(path, g.save)
			addObjectSection(u, e, log)
			return run(g, "Object editor", object.FileExt)
		},
	}
}

// openArg opens the file named on the command line. A missing file is
// created on the first save.
func openArg(open func(string) (map[string]string, error), args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	path := args[0]
	if _, err := open(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	return path, nil
}

func newGame(ses session, u *editorUI, log zerolog.Logger, width, height int) *EditorGame {
	return &EditorGame{
		ses:    ses,
		ui:     u,
		log:    log,
		images: newImageCache(),
		width:  width,
		height: height,
	}
}

func run(g *EditorGame, title, ext string) error {
	if err := clipboard.Init(); err != nil {
		g.log.Warn().Err(err).Msg("clipboard unavailable")
	} else {
		g.clipboardOK = true
	}

	if path := g.ses.Path(); path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			w, err := watch.New([]string{ext}, filepath.Dir(abs))
			if err != nil {
				g.log.Warn().Err(err).Msg("watch disabled")
			} else {
				g.watcher = w
				defer w.Close()
			}
		}
	}

	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	g.log.Info().Str("editor", title).Msg("editor starting")
	return ebiten.RunGame(g)
}
