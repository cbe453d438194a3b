package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/phuslu/log"

	"github.com/mimircode/mimircode/internal/archive"
	"github.com/mimircode/mimircode/internal/config"
	"github.com/mimircode/mimircode/internal/docgen"
	"github.com/mimircode/mimircode/internal/llm"
	"github.com/mimircode/mimircode/internal/mcp"
	"github.com/mimircode/mimircode/internal/store"
	"github.com/mimircode/mimircode/internal/web"
	"github.com/mimircode/mimircode/pkg/types"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const usage = `mimircode - LLM-backed documentation and analysis generator

Usage:
  mimircode run -source DIR [-task TASK] [-output DIR] [flags]
  mimircode serve [flags]
  mimircode mcp [flags]
  mimircode --version

Commands:
  run     Generate documents for a source tree and exit
  serve   Start the HTTP server (upload, generate, download)
  mcp     Start the MCP server on stdio

Run flags:
  -source DIR    source tree root (or -zip FILE for an archive)
  -zip FILE      zip archive to extract and process instead of -source
  -task TASK     documentation | deep_documentation | analysis (default documentation)
  -output DIR    output directory (default <source>_docs)
  -config FILE   YAML config file
`

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-version") {
		fmt.Printf("mimircode\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", store.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", store.DriverName)
		os.Exit(0)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	case "mcp":
		err = cmdMCP(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// loadConfig reads the YAML file when given and applies env overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the run history database. Failures are not fatal; the
// pipeline works without history.
func openStore(cfg *config.Config) store.Store {
	if cfg.DBPath == "" {
		return nil
	}
	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Warn().Str("path", cfg.DBPath).Err(err).Msg("run history disabled")
		return nil
	}
	return db
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	source := fs.String("source", "", "source tree root")
	zipFile := fs.String("zip", "", "zip archive to process instead of -source")
	taskName := fs.String("task", string(types.TaskDocumentation), "generation task")
	output := fs.String("output", "", "output directory")
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	task, err := types.ParseTask(*taskName)
	if err != nil {
		return err
	}

	sourceRoot := *source
	if *zipFile != "" {
		extractDir, err := os.MkdirTemp(cfg.TempDir, "extract-*")
		if err != nil {
			extractDir, err = os.MkdirTemp("", "extract-*")
			if err != nil {
				return err
			}
		}
		defer func() { _ = os.RemoveAll(extractDir) }()

		n, err := archive.Extract(*zipFile, extractDir)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", *zipFile, err)
		}
		log.Info().Str("archive", *zipFile).Int("files", n).Msg("archive extracted")
		sourceRoot = extractDir
	}
	if sourceRoot == "" {
		return fmt.Errorf("either -source or -zip is required")
	}

	outputDir := *output
	if outputDir == "" {
		if *zipFile != "" {
			// Extraction happens in a temp dir; anchor the default output
			// on the archive name instead.
			outputDir = strings.TrimSuffix(filepath.Base(*zipFile), filepath.Ext(*zipFile)) + "_docs"
		} else {
			outputDir = filepath.Base(filepath.Clean(sourceRoot)) + "_docs"
		}
	}

	db := openStore(cfg)
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	client := llm.NewOllama(cfg.Endpoint, cfg.Model, llm.NewCache(cfg.CacheSize))
	defer func() { _ = client.Close() }()

	var recorder docgen.RunRecorder
	if db != nil {
		recorder = db
	}
	gen, err := docgen.New(cfg, client, recorder)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stats, err := gen.Run(ctx, task, sourceRoot, outputDir)
	if err != nil {
		return err
	}

	fmt.Printf("Task:            %s\n", task)
	fmt.Printf("Output:          %s\n", outputDir)
	fmt.Printf("Files found:     %d\n", stats.FilesFound)
	fmt.Printf("Files processed: %d\n", stats.FilesProcessed)
	fmt.Printf("Files skipped:   %d\n", stats.FilesSkipped)
	fmt.Printf("Calls failed:    %d\n", stats.CallsFailed)
	fmt.Printf("Duration:        %s\n", stats.Duration.Round(10*time.Millisecond))
	return nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	db := openStore(cfg)
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	client := llm.NewOllama(cfg.Endpoint, cfg.Model, llm.NewCache(cfg.CacheSize))

	srv, err := web.NewServer(cfg, client, db)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return srv.Serve(ctx)
}

func cmdMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log.DefaultLogger.Writer = &log.IOWriter{Writer: os.Stderr}
	log.Info().Str("version", version).Str("build_mode", store.BuildMode).Msg("starting MCP server")

	db := openStore(cfg)
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	client := llm.NewOllama(cfg.Endpoint, cfg.Model, llm.NewCache(cfg.CacheSize))

	srv, err := mcp.NewServer(cfg, client, db)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return srv.Serve(ctx)
}
