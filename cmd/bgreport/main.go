package main

import (
	"fmt"
	"os"

	"github.com/agence-consultoria/bgreport/internal/config"
	"github.com/agence-consultoria/bgreport/internal/logging"
	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"github.com/spf13/cobra"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Flags shared by every command; empty means "use the environment".
var (
	dataDir     string
	logLevel    string
	logFormat   string
	profileName string
	profileFile string
	logoLarge   string
	logoSmall   string
	noHistory   bool
)

var rootCmd = &cobra.Command{
	Use:   "bgreport",
	Short: "bgreport - background-check PDF report generator",
	Long: `bgreport turns candidate background-check data (JSON, CSV or XLSX) into
paginated PDF reports with a cover, an about page and numbered content pages.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data-dir", "", "directory for history, inbox and reports (BGREPORT_DATA_DIR)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (BGREPORT_LOG_LEVEL)")
	pf.StringVar(&logFormat, "log-format", "", "log format: json, console, auto (BGREPORT_LOG_FORMAT)")
	pf.StringVar(&profileName, "profile", "", "report profile: consolidated or individual (BGREPORT_PROFILE)")
	pf.StringVar(&profileFile, "profile-file", "", "YAML file overriding profile values (BGREPORT_PROFILE_FILE)")
	pf.StringVar(&logoLarge, "logo-large", "", "cover logo image (BGREPORT_LOGO_LARGE)")
	pf.StringVar(&logoSmall, "logo-small", "", "footer logo image (BGREPORT_LOGO_SMALL)")
	pf.BoolVar(&noHistory, "no-history", false, "do not record runs in the history database")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bgreport %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Printf("Built: %s\n", BuildTime)
		}
		if GitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", GitCommit)
		}
	},
}

func main() {
	err := rootCmd.Execute()
	logging.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and initialises logging
// for the named command.
func setup(component string) (*config.Config, reporting.Profile, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, reporting.Profile{}, err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, reporting.Profile{}, err
	}

	if _, err := logging.Init(logging.Config{
		Format:    cfg.LogFormat,
		Level:     cfg.LogLevel,
		Component: component,
		FilePath:  cfg.LogFile,
		Output:    rootCmd.ErrOrStderr(),
	}); err != nil {
		return nil, reporting.Profile{}, fmt.Errorf("configure logging: %w", err)
	}

	profile, err := cfg.ReportProfile()
	if err != nil {
		return nil, reporting.Profile{}, fmt.Errorf("load report profile: %w", err)
	}
	return cfg, profile, nil
}

func applyFlags(cfg *config.Config) {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.DataDir, dataDir)
	override(&cfg.LogLevel, logLevel)
	override(&cfg.LogFormat, logFormat)
	override(&cfg.Profile, profileName)
	override(&cfg.ProfileFile, profileFile)
	override(&cfg.LogoLarge, logoLarge)
	override(&cfg.LogoSmall, logoSmall)
	if noHistory {
		cfg.History = false
	}
}
