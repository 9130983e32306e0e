/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/smbreplay/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the smbreplay REST API server. It converts uploaded replays,
keeps a replay library under the data directory and exposes Prometheus
metrics on /metrics.

Requests under /api/v1 need the X-API-Key header when an API key is set
in the config or with --api-key.

Examples:
  smbreplay serve
  smbreplay serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)
		logger := loggerFromContext(cmd)

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}

		c, err := requireContainer()
		if err != nil {
			return err
		}

		lib, err := c.GetLibraryFactory().OpenLibrary(cfg.DataDir)
		if err != nil {
			return err
		}
		defer lib.Close()

		if cfg.Security.APIKey == "" {
			logger.Warn("no API key configured, the API is open to anyone who can reach it")
		}

		server := c.GetServerFactory().CreateServer(lib, api.ServerConfig{
			Bind:   cfg.Bind,
			Port:   cfg.Port,
			APIKey: cfg.Security.APIKey,
		}, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("Metrics available at: http://%s:%d/metrics\n", cfg.Bind, cfg.Port)
		return server.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key required in the X-API-Key header")
}
