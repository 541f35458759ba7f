// cmd/tidecore/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/tidecore/internal/autosave"
	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/core"
	"github.com/bethropolis/tidecore/internal/document"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/tui"
	"github.com/bethropolis/tidecore/internal/wordindex"
)

var version = "dev"

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	args, err := flags.ParseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}

	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	cfg, cfgErr := config.Load(*flags.ConfigFilePath, &flags)

	// The terminal belongs to the editor, so interactive runs log to a file
	// unless told otherwise.
	if cfg.Logger.LogFilePath == "" && !*flags.Stats {
		cfg.Logger.LogFilePath = config.DefaultLogFileName
	}
	logger.SetFilterDebug(*flags.DebugLog)
	if err := logger.Setup(cfg.Logger); err != nil {
		stlog.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Close()

	if cfgErr != nil {
		logger.Warnf("Config: %v (using defaults)", cfgErr)
	}
	for _, k := range cfg.UnknownKeys() {
		logger.Warnf("Config: unknown key '%s'", k)
	}
	logger.Debugf("Config: buffer %+v, editor %+v", cfg.Buffer, cfg.Editor)

	doc, err := openDocument(filePath, cfg.Buffer)
	if err != nil {
		logger.Errorf("Error opening '%s': %v", filePath, err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}

	if *flags.Stats {
		s := wordindex.Count(doc.Buffer().String())
		fmt.Printf("%d lines, %d words, %d characters\n", s.Lines, s.Words, s.Runes)
		return
	}

	if err := run(doc, cfg); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		_ = logger.Close()
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}

func openDocument(filePath string, cfg config.BufferConfig) (*document.Document, error) {
	if filePath == "" {
		logger.Debugf("No file specified, starting empty.")
		return document.New(cfg), nil
	}
	logger.Debugf("File path specified: %s", filePath)
	return document.Open(filePath, cfg)
}

func run(doc *document.Document, cfg *config.Config) error {
	t, err := tui.New()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	editor := core.NewEditor(doc, cfg.Editor)
	index := wordindex.New(doc, cfg.Editor.IndexDelay)
	defer index.Close()

	app := tui.NewApp(t, editor, index)
	if cfg.Editor.Theme != "" {
		theme, err := tui.LoadThemeFromFile(cfg.Editor.Theme)
		if err != nil {
			logger.Warnf("Theme: %v (using %s)", err, tui.DefaultTheme.Name)
			app.StatusBar().SetTemporaryMessage("Theme not loaded: %v", err)
		} else {
			app.SetTheme(theme)
		}
	}

	if cfg.Editor.AutoSave {
		saver := autosave.New(doc, cfg.Editor.AutoSaveEvery)
		saver.Start()
		defer saver.Stop()
	}

	return app.Run()
}
