package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rsilvagit/cyjobs/internal/cache"
	"github.com/rsilvagit/cyjobs/internal/config"
	"github.com/rsilvagit/cyjobs/internal/crawler"
	"github.com/rsilvagit/cyjobs/internal/httpclient"
	"github.com/rsilvagit/cyjobs/internal/logger"
	"github.com/rsilvagit/cyjobs/internal/output"
)

const envPrefix = "CYJOBS"

func newRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "cyjobs keyword [keyword...]",
		Short: "Crawl cyprusjobs.com for postings mentioning the given keywords",
		Long: `Crawl the job listing, scan every posting for the given keywords and
write the matches to a spreadsheet.

Example: cyjobs python javascript -o result.xlsx`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, args)
			if err != nil {
				_ = cmd.Usage()
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	flags.StringP("output", "o", config.DefaultOutputPath, "output spreadsheet path")
	flags.String("host", config.DefaultHost, "job board base URL")
	flags.Int("page-size", 10, "listings per page, also the pagination stride")
	flags.Int("page-count", 10, "listing offset bound")
	flags.String("proxy", "", "proxy URL for all fetches")
	flags.Duration("timeout", config.DefaultRequestTimeout, "per-request timeout, 0 disables it")
	flags.String("redis-url", "", "cache fetched pages in Redis (redis://host:6379)")
	flags.Duration("cache-ttl", config.DefaultCacheTTL, "lifetime of cached pages")
	flags.Bool("print", false, "also print the matches as a table")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")

	return cmd
}

// initConfig layers flags over env (CYJOBS_*), .env and an optional config
// file.
func initConfig(v *viper.Viper, cmd *cobra.Command, cfgFile string) error {
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	// Notification credentials keep the names used in .env files.
	for key, env := range map[string]string{
		"telegram.token":   "TELEGRAM_TOKEN",
		"telegram.chat_id": "TELEGRAM_CHAT_ID",
		"discord.webhook":  "DISCORD_WEBHOOK_URL",
	} {
		if err := v.BindEnv(key, envPrefix+"_"+env, env); err != nil {
			return fmt.Errorf("binding %s: %w", env, err)
		}
	}
	return nil
}

func loadConfig(v *viper.Viper, keywords []string) (config.Config, error) {
	return config.New(
		config.WithHost(v.GetString("host")),
		config.WithKeywords(keywords...),
		config.WithPages(v.GetInt("page-size"), v.GetInt("page-count")),
		config.WithOutputPath(v.GetString("output")),
		config.WithRequestTimeout(v.GetDuration("timeout")),
		config.WithProxy(v.GetString("proxy")),
		config.WithCache(v.GetString("redis-url"), v.GetDuration("cache-ttl")),
		config.WithTelegram(v.GetString("telegram.token"), v.GetString("telegram.chat_id")),
		config.WithDiscord(v.GetString("discord.webhook")),
		config.WithPrint(v.GetBool("print")),
		config.WithLogLevel(v.GetString("log-level")),
		config.WithLogFormat(v.GetString("log-format")),
	)
}

func run(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := httpclient.New(httpclient.Options{
		ProxyURL: cfg.ProxyURL,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		return err
	}

	var fetcher crawler.Fetcher = client
	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Warn("page cache disabled", logger.Error(err))
		} else {
			defer c.Close()
			fetcher = cache.NewFetcher(c, client, log)
		}
	}

	_, err = crawler.New(cfg, fetcher, log, writers(cfg, stdout)...).Run(ctx)
	return err
}

func writers(cfg config.Config, stdout io.Writer) []output.ResultWriter {
	ws := []output.ResultWriter{output.NewXLSXWriter(cfg.OutputPath)}
	if cfg.Print {
		ws = append(ws, output.NewConsolePrinter(stdout))
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		ws = append(ws, output.NewTelegramWriter(cfg.TelegramToken, cfg.TelegramChatID))
	}
	if cfg.DiscordWebhook != "" {
		ws = append(ws, output.NewDiscordWriter(cfg.DiscordWebhook))
	}
	return ws
}
