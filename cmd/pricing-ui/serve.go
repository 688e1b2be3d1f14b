package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/pricing-protocol/internal/config"
	"github.com/Its-donkey/pricing-protocol/internal/ui/model"
	uiserver "github.com/Its-donkey/pricing-protocol/internal/ui/server"
	"github.com/Its-donkey/pricing-protocol/logging"
)

type serveOptions struct {
	listen    string
	templates string
	assets    string
	logs      string
	logLevel  string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the UI HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "address to serve the UI (defaults to server.addr+port)")
	cmd.Flags().StringVar(&opts.templates, "templates", "", "directory of html/template overrides (defaults to the embedded templates)")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "directory of static asset overrides (defaults to the embedded assets)")
	cmd.Flags().StringVar(&opts.logs, "logs", "", "directory for the rotating log file (defaults to app.logs)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "minimum log level: debug, info, warn or error")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, opts *serveOptions) error {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyServeFlags(&cfg, opts); err != nil {
		return err
	}

	logger, closeLogs, err := newLogger(cfg.App.Logs, opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLogs()

	source, closeSource, err := openSource(ctx, cfg.Source)
	if err != nil {
		logger.Error("general", "open session source", err, map[string]any{"kind": cfg.Source.Kind})
		return err
	}
	defer closeSource()

	err = uiserver.Run(ctx, uiserver.Options{
		Listen:        cfg.Listen(),
		TemplatesDir:  cfg.App.Templates,
		AssetsDir:     cfg.App.Assets,
		SiteName:      cfg.App.Name,
		Logger:        logger,
		Source:        source,
		Landing:       landingContent(cfg.Landing),
		ViewTTL:       cfg.ViewTTL(),
		Capacity:      cfg.Views.Capacity,
		SweepInterval: cfg.SweepInterval(),
		TokenKey:      []byte(cfg.Security.ViewTokenKey),
		CSRFKey:       []byte(cfg.Security.CSRFKey),
		SecureCookies: cfg.Security.SecureCookies,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("general", "server stopped", err, nil)
		return err
	}
	logger.Info("general", "server stopped", nil)
	return nil
}

func applyServeFlags(cfg *config.Config, opts *serveOptions) error {
	if listen := strings.TrimSpace(opts.listen); listen != "" {
		if err := cfg.SetListen(listen); err != nil {
			return fmt.Errorf("--listen: %w", err)
		}
	}
	if opts.templates != "" {
		cfg.App.Templates = opts.templates
	}
	if opts.assets != "" {
		cfg.App.Assets = opts.assets
	}
	if opts.logs != "" {
		cfg.App.Logs = opts.logs
	}
	return nil
}

// newLogger logs to stdout and, when dir is set, to a rotating file in dir.
func newLogger(dir, level string) (*logging.Logger, func(), error) {
	logger := logging.New(logging.ParseLevel(level))
	if strings.TrimSpace(dir) == "" {
		return logger, func() {}, nil
	}
	fw, err := logging.NewFileWriter(dir, logging.FileName, logging.FileOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.AddWriter(fw)
	return logger, func() { _ = fw.Close() }, nil
}

func landingContent(cfg config.LandingConfig) model.LandingContent {
	social := make([]model.SocialLink, 0, len(cfg.Social))
	for _, link := range cfg.Social {
		social = append(social, model.SocialLink{Name: link.Name, URL: link.URL})
	}
	return model.LandingContent{
		Tagline:       cfg.Tagline,
		WhitepaperURL: cfg.WhitepaperURL,
		DiscordURL:    cfg.DiscordURL,
		Social:        social,
	}
}
