package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/agripath/agripath/internal/api"
	"github.com/agripath/agripath/internal/config"
	"github.com/agripath/agripath/internal/content"
	"github.com/agripath/agripath/internal/shortlist"
	"github.com/agripath/agripath/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Used for flags.
	configFile  string
	catalogPath string
	storageFile string
	verbose     bool
	jsonOutput  bool
	offline     bool
	anonymous   bool

	// settings is the settings file merged with the flags above.
	settings *config.Config

	rootCmd = &cobra.Command{
		Use:   "agripath",
		Short: "Browse careers in agriculture from your terminal.",
		Long: `AgriPath shows the latest announcements and career cards in two endlessly looping carousels. ` +
			`Explore a career to read what the work involves and which course leads there, shortlist the ones you like ` +
			`and share your referral code with friends.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := loadSettings(cmd)
			if err != nil {
				logrus.Fatal(err)
			}
			settings = cfg
			setupLogging(cfg)
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format instead of rich text")
	rootCmd.PersistentFlags().
		BoolVar(&offline, "offline", false, "Do not contact the content feed; browse the local catalog only")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "Settings file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().
		StringVar(&catalogPath, "catalog", "", "Catalog file or directory (default: the bundled catalog)")
	rootCmd.PersistentFlags().
		StringVar(&storageFile, "storage-file", "", "Profile file (default ~/.agripath/profile.json)")
	rootCmd.PersistentFlags().
		BoolVar(&anonymous, "anonymous", false, "Do not send the device id or referral code to the feed")

	browseCmd.Flags().Bool("watch", false, "Reload the catalog when its files change")
	browseCmd.Flags().String("feed-url", "", "Content feed base URL")
	browseCmd.Flags().String("log-file", "", "Write logs to this file while browsing")
	rootCmd.AddCommand(browseCmd)

	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)

	shortlistCmd.AddCommand(shortlistAddCmd)
	shortlistCmd.AddCommand(shortlistRemoveCmd)
	shortlistCmd.AddCommand(shortlistResetCmd)
	rootCmd.AddCommand(shortlistCmd)

	profileReferralCmd.Flags().Bool("copy", false, "Copy the code to the clipboard")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileReferralCmd)
	rootCmd.AddCommand(profileCmd)

	snapshotCmd.Flags().String("carousel", "banners", "Carousel to draw: banners or careers")
	snapshotCmd.Flags().Int("index", 0, "Active item")
	snapshotCmd.Flags().Int("width", snapshotWidth, "Viewport width in cells")
	snapshotCmd.Flags().String("out", "", "PNG file to write")
	_ = snapshotCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(snapshotCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = api.BuildVersion
	rootCmd.Annotations = map[string]string{"commit": api.BuildCommit, "date": api.BuildDate}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

func settingsPath() string {
	if configFile != "" {
		return configFile
	}
	return config.DefaultPath()
}

// loadSettings reads the settings file and applies the flags the user set.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(settingsPath())
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog = catalogPath
	}
	if flags.Changed("storage-file") {
		cfg.StorageFile = storageFile
	}
	if offline {
		cfg.Feed.Offline = true
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	switch {
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case jsonOutput:
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetLevel(cfg.LogLevel())
	}
}

// loadCatalog resolves the configured catalog.
func loadCatalog(ctx context.Context) *content.Catalog {
	c, err := content.Resolve(ctx, settings.Catalog)
	if err != nil {
		logrus.Fatalf("Unable to load catalog: %v", err)
	}
	return c
}

func openShortlist(c *content.Catalog) *shortlist.Manager {
	m, err := shortlist.NewManager(settings.StorageFile, c)
	if err != nil {
		logrus.Fatalf("Unable to open or create profile: %v", err)
	}
	return m
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the home screen with the banner and career carousels",
	Long: "Open the interactive home screen. The catalog is refreshed from the content feed unless " +
		"--offline is given; with --watch a local catalog is reloaded whenever it changes.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if u, _ := cmd.Flags().GetString("feed-url"); u != "" {
			settings.Feed.URL = u
		}
		if f, _ := cmd.Flags().GetString("log-file"); f != "" {
			settings.Log.File = f
		}

		catalog := loadCatalog(ctx)
		sl := openShortlist(catalog)
		profile := sl.Storage.Data

		id := api.ProfileIdentity(profile, anonymous)
		ctx = api.WithIdentity(ctx, id)

		var feed api.FeedClient
		feedOffline := settings.Feed.Offline
		if !feedOffline {
			cl, err := newFeedClient(id)
			switch {
			case err == nil:
				feed = cl
			case errors.Is(err, api.ErrOffline):
				logrus.Debug("content feed unavailable; continuing in offline mode")
				feedOffline = true
			default:
				logrus.Debugf("feed client init failed: %v", err)
				feedOffline = true
			}
		}

		run := tui.RunOptions{}
		if w, _ := cmd.Flags().GetBool("watch"); w && settings.Catalog != "" {
			run.WatchPath = settings.Catalog
		}
		if settings.Log.File != "" {
			logPath, err := homedir.Expand(settings.Log.File)
			if err != nil {
				logrus.Fatalf("Unable to open log file: %v", err)
			}
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				logrus.Fatalf("Unable to open log file: %v", err)
			}
			defer f.Close()
			run.LogOutput = f
		}

		opts := tui.Options{
			Catalog:   catalog,
			Banners:   settings.Carousels.Banners.Settings(),
			Careers:   settings.Carousels.Careers.Settings(),
			Shortlist: sl,
			Feed:      feed,
			Offline:   feedOffline,
			OnExplore: func(c content.Career) { logrus.Infof("explore %s", c.ID) },
		}
		if err := tui.Run(ctx, opts, run); err != nil && !errors.Is(err, context.Canceled) {
			logrus.Fatalf("TUI failed: %v", err)
		}
	},
}

func newFeedClient(id api.Identity) (*api.Client, error) {
	opts := []api.ClientOption{
		api.WithHTTPClient(&http.Client{Timeout: settings.Feed.Timeout.Duration}),
		api.WithDefaultIdentity(id),
	}
	if settings.Feed.URL != "" {
		opts = append(opts, api.WithBaseURL(settings.Feed.URL))
	}
	if settings.Feed.Locale != "" {
		opts = append(opts, api.WithLocale(settings.Feed.Locale))
	}
	return api.NewClient(opts...)
}
