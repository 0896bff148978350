package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/photo-faces/internal/config"
	"github.com/kozaktomas/photo-faces/internal/objecturl"
	"github.com/kozaktomas/photo-faces/internal/uploadstate"
	"github.com/kozaktomas/photo-faces/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Photo Faces web server.
The server keeps uploaded files in memory, serves them under /blob/{id}
and exposes the face naming API under /api/v1.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default from WEB_PORT or 8080)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from WEB_HOST or 0.0.0.0)")
}

// applyServeFlags lets explicit flags override the environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Server.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Server.Host = host
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyServeFlags(cmd, cfg)

	urls := objecturl.NewRegistry(cfg.Server.BlobOrigin)
	store := uploadstate.New(urls)
	server := web.NewServer(cfg, store, urls)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	fmt.Printf("Starting Photo Faces on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		teardown(store, urls)
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-sigChan:
	}

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := shutdown(shutdownCtx, server, store, urls); err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
	}
	return <-errChan
}

// shutdown drains in-flight requests, then tears down the upload state.
func shutdown(ctx context.Context, server *web.Server, store *uploadstate.Store, urls *objecturl.Registry) error {
	err := server.Shutdown(ctx)
	teardown(store, urls)
	return err
}

// teardown revokes every handle the store owns, then closes the registry.
// It returns the number of handles that were live without a store entry.
func teardown(store *uploadstate.Store, urls *objecturl.Registry) int {
	store.Close()
	n := urls.Close()
	if n > 0 {
		fmt.Printf("Warning: %d object URL(s) were still live at exit\n", n)
	}
	return n
}
