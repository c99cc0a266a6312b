package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/limaJavier/invigilation/internal/config"
	"github.com/limaJavier/invigilation/internal/logging"
	"github.com/limaJavier/invigilation/pkg/engine"
	"github.com/limaJavier/invigilation/pkg/export"
	"github.com/limaJavier/invigilation/pkg/model"
	"github.com/limaJavier/invigilation/pkg/report"

	"github.com/rs/zerolog/log"
)

var validEnforcements = []string{"", string(model.Lenient), string(model.Strict)}

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before the process ends
func run() int {
	// Define arguments
	configPathPtr := flag.String("config", "", "Path to a YAML config file; defaults and INVIGILATION_* environment variables apply otherwise")
	filePathPtr := flag.String("file", "", "Path to the input file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the result will be written; if empty, it'll be written into the Standard Output")
	exportDirPtr := flag.String("export", "", "Directory where one CSV per slot and an overview CSV will be written; overrides export.directory")
	backToBackPtr := flag.String("back-to-back", "", `Back-to-back policy: "lenient" (place a back-to-back faculty member when nobody else can fill the duty) or "strict" (leave the duty unfilled); overrides policy.backToBack`)
	quotaPtr := flag.String("quota", "", `Quota policy: "lenient" (allow exceeding a designation's target) or "strict" (never exceed it); overrides policy.quotaOverrun`)
	flag.Parse()
	filePath := *filePathPtr
	backToBack := strings.ToLower(*backToBackPtr)
	quota := strings.ToLower(*quotaPtr)

	// Validate arguments
	if filePath == "" {
		fmt.Fprintln(os.Stderr, "an input file must be specified")
		return 2
	} else if !slices.Contains(validEnforcements, backToBack) {
		fmt.Fprintf(os.Stderr, "%v is not a valid back-to-back policy\n", backToBack)
		return 2
	} else if !slices.Contains(validEnforcements, quota) {
		fmt.Fprintf(os.Stderr, "%v is not a valid quota policy\n", quota)
		return 2
	}

	// Load configuration
	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load config: %v\n", err)
		return 2
	}
	if backToBack != "" {
		cfg.Policy.BackToBack = model.Enforcement(backToBack)
	}
	if quota != "" {
		cfg.Policy.QuotaOverrun = model.Enforcement(quota)
	}
	if *exportDirPtr != "" {
		cfg.Export.Directory = *exportDirPtr
	}
	logger := logging.Setup(cfg.Log)

	// Extract input
	input, warnings, err := model.InputFromJson(filePath)
	if err != nil {
		log.Error().Err(err).Msg("cannot parse input file")
		return 1
	}
	for _, warning := range warnings {
		log.Warn().Msg(warning)
	}

	// Build schedule
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := engine.New(engine.WithPolicy(cfg.Policy), engine.WithLogger(logger)).Run(ctx, input)
	if err != nil {
		log.Error().Err(err).Msg("an error occurred during duty allocation")
		return 1
	}
	result.Warnings = append(warnings, result.Warnings...)

	// Verify schedule correctness
	problems := report.Problems(result.Assignments, input)
	for _, problem := range problems {
		log.Error().Msg(problem)
	}

	// Write result
	if *outFilePathPtr == "" {
		if err := export.WriteResultJSON(os.Stdout, result); err != nil {
			log.Error().Err(err).Msg("an error occurred while writing the result")
			return 1
		}
	} else {
		file, err := os.Create(*outFilePathPtr)
		if err != nil {
			log.Error().Err(err).Msg("cannot create output file")
			return 1
		}
		if err := export.WriteResultJSON(file, result); err != nil {
			file.Close()
			log.Error().Err(err).Msg("an error occurred while writing to the output file")
			return 1
		}
		if err := file.Close(); err != nil {
			log.Error().Err(err).Msg("an error occurred while closing the output file")
			return 1
		}
	}

	if cfg.Export.Directory != "" {
		if err := export.WriteDirectory(cfg.Export.Directory, input, result); err != nil {
			log.Error().Err(err).Msg("an error occurred while exporting CSV files")
			return 1
		}
		log.Info().Str("directory", cfg.Export.Directory).Msg("CSV export written")
	}

	log.Info().
		Bool("success", result.Success).
		Int("assignments", len(result.Assignments)).
		Int("incomplete", len(result.IncompleteSlots)).
		Int("violations", len(result.Violations)).
		Msg("done")

	// Exit-code of 10 stands for a complete schedule, 15 for a schedule failing verification and 20 for an incomplete one
	if len(problems) > 0 {
		return 15
	} else if result.Success {
		return 10
	}
	return 20
}
