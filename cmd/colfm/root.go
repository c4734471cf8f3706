package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"colfm/internal/commands"
	"colfm/internal/config"
	"colfm/internal/keymap"
	"colfm/internal/log"
	"colfm/internal/state"
	"colfm/internal/tui"
	"colfm/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	nameStyle = lipgloss.NewStyle().Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type options struct {
	configFile string
	logFile    string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "colfm [path]",
		Short:         "A three-column terminal file manager",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser(cmd, opts, args)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.config/colfm/config.yaml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "write debug lines to the log")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "log file, overrides logging.file")

	root.AddCommand(newCommandsCmd(), newKeymapCmd(opts), newSetupCmd(opts))
	return root
}

// loadConfig falls back to defaults when the file is unreadable, after
// saying so on w.
func loadConfig(w io.Writer, opts *options) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadConfigFile(opts.configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("warning: %v, using defaults", err)))
		cfg = config.New()
	}
	return cfg
}

func setupLogging(cfg *config.Config, opts *options) {
	file := cfg.Logging.File
	if opts.logFile != "" {
		file = opts.logFile
	}
	if file == "" {
		return
	}
	logOpts := []log.Option{log.WithFile(file)}
	if cfg.Logging.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	log.Configure(logOpts...)
	log.SetDebug(cfg.Logging.Debug || opts.debug)
}

// loadKeymap layers the configured bindings over the defaults. A bad entry
// leaves the defaults in place.
func loadKeymap(w io.Writer, cfg *config.Config) *keymap.Keymap {
	keys, err := keymap.Load(cfg.Keymap)
	if err != nil {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("warning: %v, using default keymap", err)))
		return keymap.Default()
	}
	return keys
}

func startDir(cfg *config.Config, args []string) (string, error) {
	dir := cfg.Directories.Start
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

func runBrowser(cmd *cobra.Command, opts *options, args []string) error {
	cfg := loadConfig(cmd.ErrOrStderr(), opts)
	setupLogging(cfg, opts)
	defer log.Close()

	dir, err := startDir(cfg, args)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	ctx := state.NewContext(cfg, fs)
	tab, err := state.NewTab(fs, dir, cfg.SortOption())
	if err != nil {
		return err
	}
	ctx.PushTab(tab)

	var watcher *watch.Watcher
	if cfg.Watch.Enabled {
		watcher, err = watch.New()
		if err == nil {
			err = watcher.Start()
		}
		if err != nil {
			log.LogWithError(err).Warn("file watching disabled")
			watcher = nil
		}
	}

	log.LogWithFields(log.F("dir", dir), log.F("version", version)).Info("starting")
	p := tea.NewProgram(tui.New(ctx, loadKeymap(cmd.ErrOrStderr(), cfg), watcher), tea.WithAltScreen())
	_, err = p.Run()
	if watcher != nil {
		watcher.Stop()
	}
	if err != nil {
		log.LogError(err, "program exited with an error")
	}
	return err
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands accepted by the command line and the keymap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, b := range commands.Builtins() {
				fmt.Fprintf(out, "%s  %s\n", nameStyle.Render(fmt.Sprintf("%-20s", b.Name)), b.Usage)
			}
			return nil
		},
	}
}

func newKeymapCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keymap",
		Short: "Print the effective keymap as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd.ErrOrStderr(), opts)
			keys, err := keymap.Load(cfg.Keymap)
			if err != nil {
				return err
			}
			return keys.Print(cmd.OutOrStdout())
		},
	}
}

func newSetupCmd(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to replace it", path)
			}
			if err := config.SaveConfig(config.New(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing file")
	return cmd
}
