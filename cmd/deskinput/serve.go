package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/frudas24/deskinput/internal/app"
	"github.com/frudas24/deskinput/internal/config"
	"github.com/frudas24/deskinput/internal/logging"
	"github.com/frudas24/deskinput/internal/rtc"
	"github.com/frudas24/deskinput/internal/session"
	"github.com/frudas24/deskinput/internal/signaling"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the remote input server",
	Long:  `Serve the browser console, the control websocket, WebRTC signaling and the MJPEG preview.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, debug, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		staticDir, _ := cmd.Flags().GetString("static")
		return runServe(cfg, debug, staticDir)
	},
}

func init() {
	serveCmd.Flags().String("static", "", "Serve UI assets from this directory instead of the embedded copy")
}

// runServe wires the application and blocks until shutdown.
func runServe(cfg config.Config, debug bool, staticDir string) error {
	log := logging.L("serve")
	if err := cfg.RequirePassword(); err != nil {
		return err
	}
	rtc.SetDebugLogging(debug)
	logStartup(log, cfg)

	sys := openSystem(cfg)
	defer func() {
		if err := sys.Close(); err != nil {
			log.Warn("input close failed", zap.Error(err))
		}
	}()
	log.Info("input backend", zap.String("kind", string(sys.Backend().Kind())), zap.Bool("ready", sys.Ready()))

	sess := session.New(cfg.UIPassword, !cfg.PasswordMode)
	appInstance, err := app.New(cfg, sess, sys, nil, signaling.ViewerReplace)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer func() {
		if err := appInstance.Stop(); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, staticDir)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logStartup prints startup checks and connection info.
func logStartup(log *zap.Logger, cfg config.Config) {
	log.Info("deskinput starting", zap.String("version", version))
	if cfg.Source != "" {
		log.Info("config check: ok", zap.String("path", cfg.Source))
	} else {
		log.Info("config check: defaults")
	}
	logEnvStatus(log, cfg)
	log.Info("preview", zap.Bool("enabled", cfg.MJPEGEnabled), zap.Int("intervalMs", cfg.MJPEGIntervalMs), zap.Int("quality", cfg.MJPEGQuality))
	log.Info("listen addr", zap.String("addr", cfg.ListenAddr))
	if url, ok := localURL(cfg.ListenAddr); ok {
		log.Info("local url", zap.String("url", url))
	}
}

// logEnvStatus reports whether a .env file was found and required values are set.
func logEnvStatus(log *zap.Logger, cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Info("env check: ok", zap.String("path", envPath))
	} else {
		log.Info("env check: missing", zap.String("path", envPath))
	}
	if !cfg.PasswordMode {
		log.Warn("env PASSWORD_MODE: disabled (dev mode)")
		return
	}
	if cfg.UIPassword == "" {
		log.Warn("env UI_PASSWORD: missing")
	} else {
		log.Info("env UI_PASSWORD: set")
	}
}

// localURL turns a listen address into a browsable local URL.
func localURL(addr string) (string, bool) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", false
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port), true
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
