// Command analyzer ingests a wardriving capture file, runs the analysis
// engines and exports the artifacts: clean dataset, discard log and the
// combined analysis result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"wardrivecli/internal/config"
	"wardrivecli/internal/exporter"
	"wardrivecli/internal/infrastructure"
	"wardrivecli/internal/services"
	"wardrivecli/pkg/contracts"
)

func main() {
	inPath := flag.String("in", "", "capture file to analyze (.csv or .xlsx)")
	outDir := flag.String("out", "out", "output directory for exported artifacts")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -in <capture file> [-out <dir>]")
		os.Exit(2)
	}

	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()
	service := services.NewAnalysisService(logger, nil, cfg)

	ds, result, err := service.Analyze(ctx, *inPath)
	if err != nil {
		logger.Error("analysis failed",
			slog.String("path", *inPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	writer := exporter.NewWriter(logger, *outDir)
	paths, err := writer.ExportAll(ds, result)
	if err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("run %s: %d records, %d discarded\n", ds.RunID, len(ds.Records), len(ds.Discards))
	if ds.EmptyInput {
		fmt.Println("warning: input yielded zero usable rows")
	}
	for _, p := range paths {
		fmt.Println("wrote", p)
	}
}
