package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/paywall"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
)

var (
	serveConfigPath string
	servePort       int
	serveJSONLogs   bool
	serveDebug      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the resume editing session: document mutations with debounced autosave, AI assist, preview, and paywalled export.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "Encode logs as JSON")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if serveConfigPath != "" {
		fileCfg, err := config.Load(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if servePort != 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(serveJSONLogs || cfg.JSONLogs, serveDebug || cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	var slot store.Snapshot
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.Slot)
		if err != nil {
			return fmt.Errorf("failed to open database snapshot: %w", err)
		}
		defer pg.Close()
		slot = pg
		log.Info("using database snapshot", zap.String("slot", cfg.Slot))
	} else {
		fs, err := store.NewFileStore(cfg.DataDir, cfg.Slot)
		if err != nil {
			return fmt.Errorf("failed to open file snapshot: %w", err)
		}
		slot = fs
		log.Info("using file snapshot", zap.String("path", fs.Path()))
	}

	var gen assist.ContentGenerator
	if cfg.APIKey != "" {
		gemini, err := assist.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer func() { _ = gemini.Close() }()
		gen = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, AI features disabled")
	}

	saver := store.NewSaver(slot, log, store.WithDebounce(cfg.Debounce()))
	gateway := assist.NewGateway(gen, log)
	gate := paywall.NewGate(paywall.NewReceiptIssuer(cfg.ReceiptSecret, 24*time.Hour), log)
	printer := export.NewPDFPrinter(log)

	sess := session.New(ctx, slot, saver, gateway, gate, printer, log)

	return server.New(server.Config{Port: cfg.Port}, sess, log).Start()
}
