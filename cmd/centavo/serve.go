package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"centavo/internal/offline"
	"centavo/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web app",
		Long: `Serve the web interface and JSON API on a local address. An offline
controller pre-caches the app shell so pages keep loading when the
server request fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if addr == "" {
				addr = a.cfg.ListenAddr
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(a.repos, a.auth, a.eng, slog.Default()).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			shell := make([]string, 0, len(a.cfg.ShellPaths))
			for _, p := range a.cfg.ShellPaths {
				shell = append(shell, fmt.Sprintf("http://%s%s", addr, p))
			}
			controller, err := offline.NewController(offline.Options{
				Version:     a.cfg.CacheVersion,
				Shell:       shell,
				OfflinePath: a.cfg.OfflinePath,
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("serving", "addr", addr)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			// Give the listener a moment before the install fetches the shell.
			go func() {
				time.Sleep(200 * time.Millisecond)
				controller.Start(ctx)
			}()
			go func() {
				for update := range controller.Updates() {
					slog.Info("offline cache update", "type", update.Type, "version", update.Version)
				}
			}()

			select {
			case err := <-errCh:
				controller.Stop()
				return err
			case <-ctx.Done():
			}

			controller.Stop()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
