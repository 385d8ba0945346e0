package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/gerby-reader/internal/api"
	"github.com/gravitrone/gerby-reader/internal/config"
	"github.com/gravitrone/gerby-reader/internal/logging"
)

// Globals holds the persistent flags shared by every command.
type Globals struct {
	APIURL  string
	JSONP   bool
	Verbose bool
	LogFile string
}

// Bind registers the persistent flags on root.
func (g *Globals) Bind(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&g.APIURL, "api", "", "API origin (default from config, then "+api.DefaultBaseURL+")")
	flags.BoolVar(&g.JSONP, "jsonp", false, "use the legacy JSONP transport")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "debug logging")
	flags.StringVar(&g.LogFile, "log-file", "", "write logs to this file instead of stderr")
}

// Config loads the config file and applies flag overrides on top.
func (g *Globals) Config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.APIURL != "" {
		cfg.APIURL = g.APIURL
	}
	if g.JSONP {
		cfg.JSONP = true
	}
	return cfg, nil
}

// Logger builds the command logger from cfg and the flags.
func (g *Globals) Logger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(g.logOptions(cfg))
}

// TUILogger is Logger for commands that own the terminal.
func (g *Globals) TUILogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.ForTUI(g.logOptions(cfg))
}

func (g *Globals) logOptions(cfg *config.Config) logging.Options {
	return logging.Options{Level: cfg.LogLevel, Verbose: g.Verbose, File: g.LogFile}
}

// Client builds an API client for cfg.
func (g *Globals) Client(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.APIURL, cfg.ClientOptions()...)
}

// setup is the common prologue of the non-interactive commands.
func (g *Globals) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := g.Config()
	if err != nil {
		return nil, nil, err
	}
	logger, err := g.Logger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
