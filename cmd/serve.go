/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/Guestflow/internal/registry"
	"github.com/josephgoksu/Guestflow/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validation and compose API",
	Long: `Start the HTTP API used by the authoring UI:

  GET  /api/health
  GET  /api/types
  GET  /api/types/{type}
  POST /api/validate   (JSON, or YAML with Content-Type: application/yaml)
  POST /api/compose

Origins allowed for CORS come from server.allowedOrigins.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from server.port)")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Version:        version,
		Service:        svc,
		Registry:       registry.Default(),
		Logger:         appLogger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	srv.Start(&wg, errChan)
	if !isQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), "Guestflow API listening on http://localhost%s\n", srv.Addr())
	}

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	wg.Wait()
	return nil
}
