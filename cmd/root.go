package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/app"
	"github.com/spigell/hirematch/internal/logger"
	"github.com/spigell/hirematch/internal/render"
)

const (
	appName = "hirematch"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "hirematch is a cli for the recruitment marketplace: jobs, applications and AI matches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command. Errors already shown by a command are
// not printed again.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errNotified) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	for key, name := range map[string]string{
		"api-base-url":    "VITE_API_BASE_URL",
		"token-file":      "HIREMATCH_TOKEN_FILE",
		"store-path":      "HIREMATCH_STORE_PATH",
		"cache.redis-url": "HIREMATCH_REDIS_URL",
	} {
		if err := viper.BindEnv(key, name); err != nil {
			log.Fatalf("binding %s environment variable: %v", name, err)
		}
	}

	viper.SetDefault("api-base-url", api.DefaultBaseURL)
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("color", true)
	viper.SetDefault("cache.backend", app.CacheMemory)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 400)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hirematch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored scores")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (app.Config, error) {
	var config app.Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}
	if noColor, _ := rootCmd.PersistentFlags().GetBool("no-color"); noColor {
		config.Color = false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		config.Color = false
	}
	return config, nil
}

// env is what every command body receives.
type env struct {
	cmd    *cobra.Command
	app    *app.App
	logger *zap.Logger
	out    *render.Printer
}

// action wraps a command body: it builds the logger and the application
// context, runs fn and converts any error into a notification.
func action(fn func(ctx context.Context, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			return fmt.Errorf("creating a logger: %w", err)
		}

		config, err := getConfig()
		if err != nil {
			return notify(logger, fmt.Errorf("getting a config: %w", err))
		}
		logger.Debug("starting", zap.String("version", buildVersion()), zap.String("api", config.APIBaseURL))

		a, err := app.New(ctx, config, logger)
		if err != nil {
			return notify(logger, err)
		}
		defer func() {
			if err := a.Close(); err != nil {
				logger.Warn("closing", zap.Error(err))
			}
		}()

		e := &env{cmd: cmd, app: a, logger: logger, out: render.NewPrinter(cmd.OutOrStdout(), a.Style())}
		return notify(logger, fn(ctx, e, args))
	}
}
