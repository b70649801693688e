package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"projectable/internal/app"
	"projectable/internal/config"
	"projectable/internal/log"
	"projectable/internal/marks"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	var debug bool

	rootCmd := &cobra.Command{
		Use:     "projectable [directory]",
		Short:   "A terminal file tree for working on projects",
		Long:    `Projectable shows your project as a foldable file tree and lets you create, delete, preview, and run commands on files without leaving the terminal.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			var cfg *config.Config
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadFile(cfgFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}

			if debug {
				cfg.Log.Enabled = true
				cfg.Log.Debug = true
			}
			if cfg.Log.Enabled {
				path := cfg.Log.Path
				if path == "" {
					path = filepath.Join(filepath.Dir(marks.File()), "projectable.log")
				}
				if err := log.SetFile(path); err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				log.SetDebug(cfg.Log.Debug)
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("opening terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing terminal: %w", err)
			}
			defer screen.Fini()

			a, err := app.New(cfg, root, screen)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is "+filepath.Join("$XDG_CONFIG_HOME", "projectable", "config.yaml")+")")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log debug messages")
	return rootCmd
}
