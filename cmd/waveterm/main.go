// Command waveterm is the player core's entry point: it constructs one
// engine.Engine, scans the music paths given on the command line into the
// library, starts the supervision tree, and blocks until SIGINT/SIGTERM.
//
// # Initialization order
//
// main loads flags, initializes structured logging, constructs the engine
// (wiring the decoder/output plugins registered by this build's
// plugins_*.go file), walks every path argument into the cache and library
// views, then starts the producer/consumer pipeline in the background.
//
// # Configuration
//
// Configuration loading (env files, remote config, flag precedence rules)
// is out of scope for the player core itself; this command accepts the
// handful of settings the core actually needs as flags:
//
//	-config-dir string   directory holding the on-disk track cache (required)
//	-buffer-chunks int   ring buffer size in chunks (default 8)
//	-log-level string    trace, debug, info, warn, error (default "info")
//	-log-format string   json or console (default "console")
//
// Remaining non-flag arguments are paths scanned into the library at
// startup; directories are walked recursively.
//
// # Decoder and output plugins
//
// The core itself never depends on a concrete codec or audio backend (only
// the plugin.Decoder/plugin.Output contracts, see internal/plugin). A build
// registers its plugins by setting decoderFactory and outputFactory from a
// plugins_*.go file selected by build tag; the default build
// (plugins_stub.go) registers none and logs a warning, which is enough to
// exercise the cache, library, and next-track policy without any audio
// actually playing.
//
// # Shutdown
//
// SIGINT and SIGTERM cancel the root context, which stops the supervision
// tree; main waits for it to drain before calling Engine.Exit, which closes
// the output device and persists the cache to disk.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/waveterm/core/internal/engine"
	"github.com/waveterm/core/internal/logging"
)

func main() {
	configDir := flag.String("config-dir", "", "directory holding the on-disk track cache (required)")
	bufferChunks := flag.Int("buffer-chunks", 8, "ring buffer size in chunks")
	logLevel := flag.String("log-level", "info", "trace, debug, info, warn, error")
	logFormat := flag.String("log-format", "console", "json or console")
	flag.Parse()

	logging.Init(logging.Config{Level: *logLevel, Format: *logFormat, Timestamp: true})

	if *configDir == "" {
		logging.Fatal().Msg("-config-dir is required")
	}

	logging.Info().Str("config_dir", *configDir).Int("buffer_chunks", *bufferChunks).Msg("starting player core")

	eng := engine.New(engine.Config{
		ConfigDir:      *configDir,
		DecoderFactory: decoderFactory,
		PluginName:     pluginName,
		Output:         outputFactory(),
		BufferChunks:   *bufferChunks,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slogLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := eng.Init(ctx, slogLogger); err != nil {
		logging.Fatal().Err(err).Msg("engine init failed")
	}

	for _, path := range flag.Args() {
		if err := scanPath(ctx, eng, path); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("library scan failed")
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	errCh := eng.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logging.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	if err := eng.Exit(ctx); err != nil {
		logging.Error().Err(err).Msg("engine exit failed")
	}
	logging.Info().Msg("player core stopped")
}

// scanPath adds path to the engine's library, walking directories
// recursively. A single file is added directly.
func scanPath(ctx context.Context, eng *engine.Engine, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return eng.AddPath(ctx, path)
	}
	return filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if addErr := eng.AddPath(ctx, p); addErr != nil {
			logging.Warn().Err(addErr).Str("path", p).Msg("track load failed, skipping")
		}
		return nil
	})
}
