package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/glance/internal/app"
	"github.com/zjrosen/glance/internal/config"
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// logPathEnv overrides the debug log location.
const logPathEnv = "GLANCE_LOG"

const (
	localConfigPath     = ".glance/config.yaml"
	tracingShutdownWait = 5 * time.Second
)

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	asciiFlag  bool
	cfg        config.Config
	configUsed string
)

var rootCmd = &cobra.Command{
	Use:   "glance [dir]",
	Short: "A terminal browser for markdown and text documents",
	Long: `glance lists the markdown and text files under a directory and shows
the selected one in a scrollable pane, rendered or as plain text.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .glance/config.yaml, then ~/.config/glance/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log and enable the log pane (ctrl+x)")
	rootCmd.PersistentFlags().BoolVar(&asciiFlag, "ascii", false,
		"disable colors")
	rootCmd.Flags().StringP("path", "p", "",
		"directory to browse (default: current directory)")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"do not rescan when files change")

	// Bind flags to viper
	_ = viper.BindPFlag("path", rootCmd.Flags().Lookup("path"))
}

func initConfig() {
	home, _ := os.UserHomeDir()
	loaded, used, err := loadConfig(viper.GetViper(), cfgFile, home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	cfg, configUsed = loaded, used
}

// userConfigPath returns ~/.config/glance/config.yaml, or "" without a home
// directory.
func userConfigPath(home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "glance", "config.yaml")
}

// loadConfig reads the configuration into v and returns it with the path of
// the file in use. Lookup order is the explicit file, .glance/config.yaml,
// then the user config, which is created with defaults when nothing exists.
// Without any readable file the defaults are returned.
func loadConfig(v *viper.Viper, explicit, home string) (config.Config, string, error) {
	setDefaults(v)

	switch {
	case explicit != "":
		if !fileExists(explicit) {
			return config.Defaults(), explicit, fmt.Errorf("config file %s not found", explicit)
		}
		v.SetConfigFile(explicit)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		userPath := userConfigPath(home)
		if userPath == "" {
			break
		}
		if !fileExists(userPath) {
			if err := config.WriteDefaultConfig(userPath); err != nil {
				log.ErrorErr(log.CatConfig, "Failed to write default config", err, "path", userPath)
				break
			}
		}
		v.SetConfigFile(userPath)
	}

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			readErr = fmt.Errorf("reading config: %w", err)
		}
	}

	loaded := config.Defaults()
	if err := v.Unmarshal(&loaded); err != nil {
		return config.Defaults(), "", fmt.Errorf("decoding config: %w", err)
	}
	return loaded, v.ConfigFileUsed(), readErr
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("auto_refresh", defaults.AutoRefresh)
	v.SetDefault("extensions", defaults.Extensions)
	v.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	v.SetDefault("ui.markdown_rendering", defaults.UI.MarkdownRendering)
	v.SetDefault("ui.ambiguous_wide", defaults.UI.AmbiguousWide)
	v.SetDefault("ui.list_width", defaults.UI.ListWidth)
	v.SetDefault("ui.list_scrollbar", defaults.UI.ListScrollbar)
	v.SetDefault("ui.stick_to_bottom", defaults.UI.StickToBottom)
	v.SetDefault("scrollbar.track_char", defaults.Scrollbar.TrackChar)
	v.SetDefault("scrollbar.thumb_char", defaults.Scrollbar.ThumbChar)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// resolveRoot picks the directory to browse: the argument, then the config,
// then the working directory.
func resolveRoot(args []string, configured string) (string, error) {
	root := configured
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		root = wd
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}
	return filepath.Abs(root)
}

// initLogging starts the debug log when requested by flag or environment.
// The returned cleanup is never nil.
func initLogging(prefix string) (bool, func(), error) {
	if !log.DebugEnabled(debugFlag) {
		return false, func() {}, nil
	}
	logPath := os.Getenv(logPathEnv)
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return false, func() {}, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "Starting", "program", prefix, "version", version, "logPath", logPath)
	return true, cleanup, nil
}

func newTracingProvider(tc config.TracingConfig) (*tracing.Provider, error) {
	filePath := tc.FilePath
	if filePath == "" && tc.Exporter == "file" {
		filePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      tc.Enabled,
		Exporter:     tc.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: tc.OTLPEndpoint,
		SampleRate:   tc.SampleRate,
		ServiceName:  "glance",
	})
	if err != nil {
		return nil, fmt.Errorf("creating tracing provider: %w", err)
	}
	if tc.Enabled {
		log.Debug(log.CatTrace, "Tracing provider created", "exporter", tc.Exporter)
	}
	return provider, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if asciiFlag {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	debug, cleanup, err := initLogging("glance")
	if err != nil {
		return err
	}
	defer cleanup()

	root, err := resolveRoot(args, cfg.Path)
	if err != nil {
		return err
	}
	cfg.Path = root

	// Handle --no-auto-refresh flag (negated logic)
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	provider, err := newTracingProvider(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownWait)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}()

	zone.NewGlobal()
	model := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configUsed,
		Tracer:     provider.Tracer(),
		Debug:      debug,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
