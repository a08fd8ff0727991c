// Package main provides the tunebox entry point.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/yuteki/tunebox/internal/app/importer"
	"github.com/yuteki/tunebox/internal/app/library"
	"github.com/yuteki/tunebox/internal/app/playlists"
	"github.com/yuteki/tunebox/internal/app/queue"
	"github.com/yuteki/tunebox/internal/infra/config"
	"github.com/yuteki/tunebox/internal/infra/logger"
	"github.com/yuteki/tunebox/internal/infra/state"
	"github.com/yuteki/tunebox/internal/ui/menu"
)

var (
	app        = kingpin.New("tunebox", "Personal media catalog and playback queue")
	configPath = app.Flag("config", "Path to config file").Default("config.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	// import command
	importCmd      = app.Command("import", "Import tracks or playlists from a file and exit")
	importFile     = importCmd.Arg("file", "Path to a .json or .csv file").Required().String()
	importPlaylist = importCmd.Flag("playlists", "Treat the file as a playlist export").Bool()
)

func init() {
	// menu command (default) - no need to store the command
	app.Command("menu", "Run the interactive menu (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags win over the config file
	loggerConfig := logger.Config{
		Output: cfg.Logger.Output,
		Level:  cfg.Logger.Level,
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	store := state.New(cfg.Storage.Dir)
	lib := library.Open(store)
	pls := playlists.Open(store)

	q := queue.New(store, nil)
	if saved, err := store.LoadQueue(); err != nil {
		zlog.Warn().Err(err).Msg("no saved queue state, starting empty")
	} else {
		q.Restore(saved)
	}

	imp := importer.New(lib, pls)

	if command == importCmd.FullCommand() {
		runImport(imp, *importFile, *importPlaylist)
		return
	}

	menu.New(os.Stdin, os.Stdout, lib, pls, q, imp).Run()
}

func runImport(imp *importer.Importer, path string, asPlaylists bool) {
	var (
		rep importer.Report
		err error
	)
	if asPlaylists {
		rep, err = imp.Playlists(path)
	} else {
		rep, err = imp.Tracks(path)
	}
	if err != nil {
		zlog.Error().Msgf("Import error: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Imported: %d, duplicates: %d, skipped: %d\n", rep.Imported, rep.Duplicates, rep.Skipped)
	for _, msg := range rep.Errors {
		fmt.Printf("  - %s\n", msg)
	}
}
