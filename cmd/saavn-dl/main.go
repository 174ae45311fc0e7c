package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"saavndl/internal/config"
	"saavndl/internal/download"
	"saavndl/internal/model"
)

func main() {
	// Command line flags
	var (
		urlsFlag    = flag.String("url", "", "JioSaavn song/album URL(s) to download (comma-separated)")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
		formatFlag  = flag.String("format", "", "Output format: mp3, flac, m4a, opus, wav (overrides config)")
		bitrateFlag = flag.Int("bitrate", 0, "Bitrate in kbps for lossy formats (default 320)")
		configFlag  = flag.String("config", "", "Path to config file")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag  = flag.Bool("dry-run", false, "Extract and match without downloading")
	)

	flag.Parse()

	urls := collectURLs(*urlsFlag, flag.Args())
	if len(urls) == 0 {
		fmt.Println("Saavn Downloader - Download songs from JioSaavn")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  saavn-dl -url <URL> [options]")
		fmt.Println("  saavn-dl <URL> [<URL> ...] [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: saavn-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag + "/{artist}/{album}"
	}
	if *formatFlag != "" {
		format, err := model.ParseFormat(*formatFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		settings.Format = string(format)
	}
	spec, err := buildSpec(settings, *bitrateFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	pipeline := download.NewPipeline(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case download.LevelError:
			prefix = " ✗ "
		case download.LevelWarning:
			prefix = " ! "
		case download.LevelSuccess:
			prefix = " ✓ "
		case download.LevelInfo:
			prefix = " › "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("♫ Saavn Downloader")
	fmt.Println(strings.Repeat("━", 40))
	fmt.Println()

	if *dryRunFlag {
		os.Exit(dryRun(ctx, pipeline, urls))
	}

	results, err := pipeline.RunAll(ctx, urls, spec)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	completed, failed, total := pipeline.GetProgress()
	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("Complete! %d/%d tracks downloaded\n", completed, total)

	for _, r := range results {
		if r.Err == nil {
			continue
		}
		name := r.URL
		if r.Metadata != nil {
			name = r.Metadata.String()
		}
		var stageErr *download.StageError
		if errors.As(r.Err, &stageErr) {
			fmt.Fprintf(os.Stderr, "  failed (%s): %s: %v\n", stageErr.Stage, name, stageErr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "  failed: %s: %v\n", name, r.Err)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// buildSpec resolves the effective download spec from settings and the
// -bitrate flag. A stored config bitrate is dropped when the format is
// lossless, but an explicit flag contradicting the format is an error
// rather than being silently ignored.
func buildSpec(settings *config.Settings, explicitBitrate int) (model.DownloadSpec, error) {
	spec := settings.Spec()
	if explicitBitrate != 0 {
		spec.BitrateKbps = explicitBitrate
	}
	if err := spec.Validate(); err != nil {
		return model.DownloadSpec{}, err
	}
	return spec, nil
}

// dryRun extracts and matches every track without fetching anything.
func dryRun(ctx context.Context, pipeline *download.Pipeline, urls []string) int {
	exitCode := 0
	for _, url := range urls {
		meta, winner, err := pipeline.Probe(ctx, url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  failed: %s: %v\n", url, err)
			exitCode = 1
			continue
		}
		fmt.Printf("  %s\n    -> %s (score %.2f)\n", meta, winner.WatchURL(), winner.Score)
	}
	fmt.Println("\n[Dry run - nothing downloaded]")
	return exitCode
}

// collectURLs merges the -url flag value with positional arguments.
func collectURLs(flagValue string, args []string) []string {
	var urls []string
	for _, part := range strings.Split(flagValue, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			urls = append(urls, part)
		}
	}
	return append(urls, args...)
}
