package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jjh9707/Cerberus/pkg/config"
	"github.com/jjh9707/Cerberus/pkg/convert"
	"github.com/jjh9707/Cerberus/pkg/feedback"
	"github.com/jjh9707/Cerberus/pkg/server"
	"github.com/jjh9707/Cerberus/pkg/trace"
	"github.com/jjh9707/Cerberus/pkg/transcode"
	"github.com/jjh9707/Cerberus/pkg/voice"
)

func main() {
	godotenv.Load()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := trace.Initialize(ctx, trace.DefaultConfig()); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := trace.Shutdown(shutdownCtx); err != nil {
			log.Printf("trace shutdown: %v", err)
		}
	}()

	ffmpeg := transcode.NewFFmpegWithPath(cfg.FFmpegPath)
	if err := ffmpeg.CheckInstalled(); err != nil {
		// The quiz and feedback still work without the deepvoice demo.
		log.Printf("warning: %v; voice conversion will fail until ffmpeg is available", err)
	}

	voices, err := voice.NewClient(voice.Config{APIKey: cfg.ElevenLabsAPIKey})
	if err != nil {
		return err
	}

	converter, err := convert.New(ffmpeg, voices, cfg.TempDir)
	if err != nil {
		return err
	}

	relay := feedback.NewRelay(cfg.GoogleSheetsScriptURL)

	srv := server.New(server.Config{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		StaticDir:      cfg.StaticDir,
		StageDir:       cfg.TempDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		ConvertRate:    cfg.ConvertRate,
		ConvertBurst:   cfg.ConvertBurst,
	}, converter, relay)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
