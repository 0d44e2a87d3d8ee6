package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/verifyit/verifyit/internal/core"
	"github.com/verifyit/verifyit/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run reads the content, analyzes it and prints the verdict
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	service *core.AnalysisService,
	aiClient core.AIClient,
) error {
	defer logger.Sync()

	// Read content from file or stdin
	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
		}
		defer file.Close()
		reader = file
		logger.Info("Reading content from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading content from stdin")
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		logger.Fatal("Failed to read content", zap.Error(err))
	}
	text := string(raw)

	// Print content summary
	fmt.Printf("\n=== Content Summary ===\n")
	fmt.Printf("Length: %d bytes\n", len(text))
	fmt.Printf("Provider: %s\n", flags.Provider)
	fmt.Printf("\n")

	startTime := time.Now()
	result, err := service.Analyze(context.Background(), text)
	if err != nil {
		logger.Fatal("Failed to analyze content", zap.Error(err))
	}
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("=== Results ===\n")
	fmt.Printf("Score: %d/100\n", result.Score)
	fmt.Printf("Verdict: %s\n", result.Verdict)
	fmt.Printf("Content type: %s\n", result.ContentType)
	fmt.Printf("Credibility: %d  Suspicion: %d  Emotion: %d  Structure: %d  Source: %d\n",
		result.CredibilityScore, result.SuspiciousScore, result.EmotionalScore,
		result.StructureScore, result.SourceScore)
	fmt.Printf("Analysis: %s\n", result.Analysis)
	if len(result.Indicators) > 0 {
		fmt.Printf("Indicators:\n")
		for _, indicator := range result.Indicators {
			fmt.Printf("  %s\n", indicator)
		}
	}
	if len(result.Recommendations) > 0 {
		fmt.Printf("Recommendations:\n")
		for _, recommendation := range result.Recommendations {
			fmt.Printf("  - %s\n", recommendation)
		}
	}
	fmt.Printf("Engine: %s (%s)\n", result.AIProvider, result.AIModel)
	fmt.Printf("Processing time: %v\n", duration)

	// Close any resources that need closing
	if closer, ok := aiClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close AI client", zap.Error(err))
		}
	}

	return nil
}
