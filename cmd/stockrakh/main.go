// Command stockrakh runs the inventory API.
//
//	stockrakh [serve]                 start the HTTP server (default)
//	stockrakh hash-password [pw]      print a bcrypt hash for ADMIN_PASSWORD_HASH
//
// Configuration comes from the environment; a .env file in the working
// directory is loaded first when present.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/stockrakh/stockrakh/internal/config"
	httpapi "github.com/stockrakh/stockrakh/internal/http"
	"github.com/stockrakh/stockrakh/internal/imagestore"
	"github.com/stockrakh/stockrakh/internal/observability"
	"github.com/stockrakh/stockrakh/internal/repo"
	"github.com/stockrakh/stockrakh/internal/services"
	"github.com/stockrakh/stockrakh/internal/sysutil"
)

const shutdownTimeout = 15 * time.Second

const usage = `Usage:
  stockrakh [serve]              start the HTTP server
  stockrakh hash-password [pw]   print a bcrypt hash (reads stdin when pw is omitted)
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "stockrakh:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "serve":
		return serve()
	case "hash-password":
		return hashPassword(args, stdin, stdout)
	case "help", "-h", "--help":
		_, err := io.WriteString(stdout, usage)
		return err
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func hashPassword(args []string, stdin io.Reader, stdout io.Writer) error {
	var pw string
	if len(args) > 0 {
		pw = args[0]
	} else {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	h, err := services.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("hash-password: %w", err)
	}
	_, err = fmt.Fprintln(stdout, h)
	return err
}

func newImageStore(cfg config.ImageConfig) (imagestore.Store, error) {
	if cfg.Store == "cloudinary" {
		return imagestore.NewCloudinary(cfg.Cloudinary)
	}
	return imagestore.NewLocal(cfg.Dir, cfg.BaseURL)
}

func serve() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	gin.SetMode(cfg.GinMode)
	version := sysutil.Version()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, observability.BuildInfo{
		Version:     version,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}

	db, err := repo.Init(cfg.DB, cfg.OTEL.Enabled)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()

	images, err := newImageStore(cfg.Images)
	if err != nil {
		return fmt.Errorf("image store: %w", err)
	}

	if cfg.Auth.AdminUsername == "" || cfg.Auth.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_USERNAME or ADMIN_PASSWORD_HASH unset; login will fail until configured")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, images, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("db", cfg.DB.Driver).
			Str("images", cfg.Images.Store).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(sctx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
	return nil
}
