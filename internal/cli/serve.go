package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Tafitantsu/Transport-cost/internal/config"
	"github.com/Tafitantsu/Transport-cost/internal/server"
)

type serveOpts struct {
	config string
	addr   string
	store  string
	cache  string
}

// serveCommand creates the serve command, which runs the HTTP API until the
// command's context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve runs the HTTP API used by the web front end. Settings come from the
TOML file given with --config, then TRANSPORT_* environment variables, then
flags.`,
		Example: `  transport serve
  transport serve --addr :9000 --store file
  TRANSPORT_MONGO_URI=mongodb://localhost:27017 transport serve --store mongo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML configuration file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8000)")
	cmd.Flags().StringVar(&opts.store, "store", "", "task store: memory, file, mongo")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "result cache: none, file, redis")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadServeConfig(opts)
	if err != nil {
		return err
	}
	// --verbose wins over the configured level.
	if logger.GetLevel() != log.DebugLevel {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			logger.SetLevel(level)
		}
	}

	svc, closeBackends, err := server.OpenService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackends()

	metrics := server.NewMetrics()
	metrics.Install()

	srv := server.New(svc, server.Options{
		Config:    cfg.Server,
		StoreName: cfg.Store.Backend,
		Metrics:   metrics,
		Logger:    logger,
	})
	return srv.Run(ctx)
}

// loadServeConfig loads the configuration and applies flag overrides.
func loadServeConfig(opts serveOpts) (config.Config, error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return config.Config{}, err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.store != "" {
		cfg.Store.Backend = opts.store
	}
	if opts.cache != "" {
		cfg.Cache.Backend = opts.cache
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
