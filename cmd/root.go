package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/jeopardy/apps/go-server/assets"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/catalog"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/config"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/httpserver"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/upstream"
)

var (
	configPath string
	flagPort   string
	flagURL    string
	flagDB     string
	flagLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "jeopardy",
	Short: "Serve a six-category trivia board",
	Long: `jeopardy serves a browser trivia board. Each game pulls six random
categories from the upstream quiz API and lays out five clues per category.
Clicking a cell shows the question, clicking again shows the answer.

Run with no arguments to start the server
	jeopardy

Generate a hash for ADMIN_PASSWORD_HASH
	jeopardy hash-password
`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

var hashCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw := ""
		if len(args) == 1 {
			pw = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			pw = strings.TrimRight(line, "\r\n")
		}
		if pw == "" {
			return fmt.Errorf("empty password")
		}
		h, err := httpserver.HashPassword(pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_FILE"), "YAML config file")
	pf.StringVarP(&flagPort, "port", "p", "", "Port to listen on (overrides PORT)")
	pf.StringVar(&flagURL, "upstream", "", "Trivia API base URL (overrides UPSTREAM_URL)")
	pf.StringVar(&flagDB, "db", "", `Category cache database, or "off" (overrides DB_PATH)`)
	pf.StringVar(&flagLevel, "log-level", "", "zerolog level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd, hashCmd)
}

// loadConfig merges .env, config file, environment and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("port") {
		cfg.Port = flagPort
	}
	if changed("upstream") {
		cfg.UpstreamURL = flagURL
	}
	if changed("db") {
		cfg.DBPath = flagDB
	}
	if changed("log-level") {
		cfg.LogLevel = flagLevel
	}
	return cfg, cfg.Validate()
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	client := upstream.New(cfg.UpstreamURL, cfg.UpstreamTimeout)
	deps := httpserver.Deps{Config: cfg, Fetcher: client}

	if cfg.CacheEnabled() {
		db, err := catalog.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer db.Close()
		if err := catalog.Migrate(db, assets.Migrations()); err != nil {
			return fmt.Errorf("migrate cache: %w", err)
		}
		cached := catalog.NewCached(client, catalog.NewStore(db), cfg.CacheTTL)
		deps.Fetcher, deps.Cache = cached, cached
		log.Info().Str("db", cfg.DBPath).Dur("ttl", cfg.CacheTTL).Msg("category cache enabled")
	}

	srv, err := httpserver.New(deps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("port", cfg.Port).Str("upstream", cfg.UpstreamURL).Msg("starting jeopardy server")
	return srv.Run(ctx, ":"+cfg.Port)
}
