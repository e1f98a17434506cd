// cmd/main.go - Program entry
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"databinding-hunter/internal/config"
	"databinding-hunter/internal/database"
	"databinding-hunter/internal/journal"
	"databinding-hunter/internal/repository"
	"databinding-hunter/internal/scanner"
	"databinding-hunter/internal/service"
	"databinding-hunter/internal/utils"
	"databinding-hunter/pkg/logger"
)

var (
	// set by the linker during build
	osName   string
	archName string
	version  string
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line arguments
	appName := flag.String("appname", "databinding-hunter", "app name")
	projectDir := flag.String("project", ".", "Android project directory")
	configPath := flag.String("config", "", "TOML config file")
	logLevel := flag.String("loglevel", "", "log level (debug, info, warn, error)")
	dryRun := flag.Bool("dry-run", false, "print unified diffs instead of writing files")
	unwrapLayouts := flag.Bool("unwrap-layouts", false, "strip the <layout> wrapper from layout files")
	undoRun := flag.String("undo", "", "restore the files changed by a run (run id or \"latest\")")
	force := flag.Bool("force", false, "with -undo, overwrite files changed since the run")
	history := flag.Bool("history", false, "list recorded runs")
	flag.Parse()

	if version != "" {
		fmt.Printf("%s %s (%s/%s)\n", *appName, version, osName, archName)
	}

	// Initialize directories
	if err := initDir(*appName); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize directory: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	// 命令行参数覆盖配置文件
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dry-run":
			cfg.Run.DryRun = *dryRun
		case "unwrap-layouts":
			cfg.Run.UnwrapLayouts = *unwrapLayouts
		case "loglevel":
			cfg.Log.Level = *logLevel
		}
	})
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = utils.LogsDir
	}
	if cfg.Storage.JournalDir == "" {
		cfg.Storage.JournalDir = utils.JournalDir
	}
	if cfg.Storage.DatabaseDir != "" {
		cfg.Database.DataDir = cfg.Storage.DatabaseDir
	}

	// Initialize logging system
	appLogger, err := logger.NewLogger(cfg.Log.Dir, cfg.Log.Level, *appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging system: %v\n", err)
		return 1
	}
	appLogger.Info("OS: %s, Arch: %s, App: %s, Version: %s, Starting...", osName, archName, *appName, version)

	// Initialize infrastructure layer
	undoJournal, err := journal.Open(cfg.Storage.JournalDir, appLogger)
	if err != nil {
		appLogger.Error("failed to open undo journal: %v", err)
		return 1
	}
	defer func() {
		if err := undoJournal.Close(); err != nil {
			appLogger.Error("failed to close undo journal: %v", err)
		}
	}()

	dbManager := database.NewSQLiteManager(&cfg.Database, appLogger)
	if err := dbManager.Initialize(); err != nil {
		appLogger.Error("failed to initialize database manager: %v", err)
		return 1
	}
	defer dbManager.Close()
	runRepo := repository.NewRunRepository(dbManager, appLogger)

	// Initialize service layer
	hunter := service.NewHunter(cfg, scanner.NewFileScanner(cfg.Scan, appLogger), undoJournal, runRepo, appLogger)

	// Handle system signals, 中断时不再处理剩余文件
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *history:
		return printHistory(ctx, hunter)
	case *undoRun != "":
		return undo(ctx, hunter, *undoRun, *force)
	default:
		return hunt(ctx, hunter, *projectDir)
	}
}

func hunt(ctx context.Context, hunter service.HunterService, projectDir string) int {
	report, err := hunter.Run(ctx, projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		return 1
	}
	if report.DryRun {
		fmt.Print(report.DiffText())
	}
	fmt.Print(report.Summary())
	if len(report.Failures) > 0 {
		return 2
	}
	return 0
}

func undo(ctx context.Context, hunter service.HunterService, runID string, force bool) int {
	result, err := hunter.Undo(ctx, runID, force)
	if errors.Is(err, service.ErrNothingToUndo) {
		fmt.Println("nothing to undo")
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "undo failed: %v\n", err)
		return 1
	}
	for _, path := range result.Restored {
		fmt.Printf("restored %s\n", path)
	}
	if len(result.Conflicts) > 0 {
		fmt.Fprintf(os.Stderr, "%d files changed since the run, use -force to overwrite:\n", len(result.Conflicts))
		for _, path := range result.Conflicts {
			fmt.Fprintf(os.Stderr, "  %s\n", path)
		}
		return 2
	}
	return 0
}

func printHistory(ctx context.Context, hunter service.HunterService) int {
	runs, err := hunter.History(ctx, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list runs: %v\n", err)
		return 1
	}
	for _, r := range runs {
		state := ""
		switch {
		case r.DryRun:
			state = " (dry run)"
		case r.Undone:
			state = " (undone)"
		}
		fmt.Printf("%s  %s  %s  changed %d, rewritten %d/%d, took %v%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ProjectPath,
			r.Changed, r.Rewritten, r.Sites, r.Duration(), state)
	}
	return 0
}

// initDir initializes directories
func initDir(appName string) error {
	// Initialize root directory
	rootPath, err := utils.GetRootDir(appName)
	if err != nil {
		return fmt.Errorf("failed to get root directory: %v", err)
	}

	// Initialize log directory
	if _, err := utils.GetLogDir(rootPath); err != nil {
		return fmt.Errorf("failed to get log directory: %v", err)
	}

	// Initialize journal directory
	if _, err := utils.GetJournalDir(rootPath); err != nil {
		return fmt.Errorf("failed to get journal directory: %v", err)
	}

	// Initialize db directory
	if _, err := utils.GetDbDir(rootPath); err != nil {
		return fmt.Errorf("failed to get db directory: %v", err)
	}
	return nil
}
