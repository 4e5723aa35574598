package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/scythe504/tabu-backend/internal"
)

const ReleaseVersion = "1.0.0"

type Config struct {
	Bind        string
	Port        int
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	RoundTime   int
	Words       string
	Seed        bool
	PublicURL   string
	Verbose     bool
	LogFormat   string
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("--database-url is required (env: TABU_DATABASE_URL)")
	}
	if c.JWTSecret == "" {
		return errors.New("--jwt-secret is required (env: TABU_JWT_SECRET)")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.RoundTime < 1 {
		return fmt.Errorf("invalid round time (must be at least 1 second): %d", c.RoundTime)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token ttl: %s", c.TokenTTL)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format (must be text or json): %q", c.LogFormat)
	}
	return nil
}

// ConfigureLogging applies the verbosity and output format to the global logger.
func (c *Config) ConfigureLogging() {
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if c.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// NewCommand builds the root command. Flags fall back to TABU_* environment
// variables, which may come from a .env file in the working directory.
func NewCommand(cfg *Config, run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	if err := godotenv.Load(); err != nil {
		log.Debugf("[Config] no .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TABU")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "tabu",
		Short:   "Real-time multiplayer Tabu game server.",
		Args:    cobra.ExactArgs(0),
		Version: ReleaseVersion,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: TABU_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: TABU_PORT)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "postgres connection string (env: TABU_DATABASE_URL)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "secret used to sign session tokens (env: TABU_JWT_SECRET)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", time.Hour, "lifetime of issued session tokens (env: TABU_TOKEN_TTL)")
	fs.IntVar(&cfg.RoundTime, "round-time", internal.DefaultRoundTime, "length of a game in seconds (env: TABU_ROUND_TIME)")
	fs.StringVar(&cfg.Words, "words", "", "csv file of cards, embedded deck when empty (env: TABU_WORDS)")
	fs.BoolVar(&cfg.Seed, "seed", false, "insert demo accounts into an empty database (env: TABU_SEED)")
	fs.StringVar(&cfg.PublicURL, "public-url", "", "frontend base url used in room invite links (env: TABU_PUBLIC_URL)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "display debug output (env: TABU_VERBOSE)")
	fs.StringVar(&cfg.LogFormat, "log-format", "text", "log output format, text or json (env: TABU_LOG_FORMAT)")
	fs.BoolP("version", "V", false, "display version and exit")

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "version" {
			return
		}
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("tabu v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
