// Command panelgen reads one panel-generation request as JSON on stdin and
// writes the resulting panel payload as JSON on stdout. A development
// harness for the pipeline, not a delivery transport.
package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/feedui/panelgen/internal/adapter"
	"github.com/feedui/panelgen/internal/catalog"
	"github.com/feedui/panelgen/internal/config"
	"github.com/feedui/panelgen/internal/contract"
	"github.com/feedui/panelgen/internal/logging"
	"github.com/feedui/panelgen/internal/panel"
	"github.com/feedui/panelgen/pkg/types"
)

func main() {
	cfg := config.Load()

	cleanup, err := logging.Setup(logging.Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	// Registries are populated once here, before the first request.
	registry := adapter.NewRegistry()
	adapter.RegisterAll(registry)

	validator, err := contract.NewValidator(cfg.ContractCacheSize)
	if err != nil {
		slog.Error("failed to create contract validator", "error", err)
		os.Exit(1)
	}

	generator := panel.New(registry, catalog.Default(), validator, panel.Options{
		MaxRecords:     cfg.MaxRecords,
		MaxSamples:     cfg.MaxSamples,
		MaxSuggestions: cfg.MaxSuggestions,
		GridColumns:    cfg.GridColumns,
		BaseRowHeight:  cfg.BaseRowHeight,
	})

	var req types.GenerateRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		slog.Error("invalid request JSON", "error", err)
		os.Exit(1)
	}

	result, err := generator.Generate(&req)
	if err != nil {
		slog.Error("panel generation failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Payload); err != nil {
		slog.Error("encoding payload", "error", err)
		os.Exit(1)
	}
}
