package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lotas/fenster/internal/applog"
	"github.com/lotas/fenster/internal/bookmarks"
	"github.com/lotas/fenster/internal/export"
	"github.com/lotas/fenster/internal/history"
	"github.com/lotas/fenster/internal/host"
	"github.com/lotas/fenster/internal/session"
	"github.com/lotas/fenster/internal/storage"
	"github.com/lotas/fenster/internal/tui"
	"github.com/lotas/fenster/internal/types"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "export":
			runExport(os.Args[2:])
			return
		case "bookmarks":
			runBookmarks(os.Args[2:])
			return
		case "history":
			runHistory(os.Args[2:])
			return
		case "help", "--help", "-h":
			printHelp()
			return
		}
	}

	fs := flag.NewFlagSet("fenster", flag.ExitOnError)
	port := fs.Int("port", 0, "WebSocket port the host process connects to (default: 19192)")
	dbPath := fs.String("db", "", "Database file path (default: ~/.local/share/fenster/fenster.db)")
	noRestore := fs.Bool("no-restore", false, "Start with a fresh session instead of restoring the last one")
	fs.Parse(os.Args[1:])

	db, err := resolveDBPath(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dataDir := filepath.Dir(db)

	if err := applog.Init(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer applog.Close()

	kv, err := storage.Open(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	marks := bookmarks.NewStore(kv)
	visits := history.NewLog(kv, history.DefaultMax)

	bridge := host.NewBridge(resolvePort(*port))
	store := session.NewStore(bridge)

	// Every mutation rewrites the session file, so a crash loses nothing.
	store.OnChange(func() {
		if err := storage.SaveSession(dataDir, store.Snapshot()); err != nil {
			applog.Error("session.autosave", err)
		}
	})

	var restore *types.SessionSnapshot
	if !*noRestore {
		snap, err := storage.LoadSession(dataDir)
		if err != nil {
			applog.Error("session.load", err)
		}
		restore = snap
	}

	applog.Info("start", "port", bridge.Port(), "db", db)

	model := tui.NewModel(store, bridge, marks, visits, restore)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The store is quiet on exit, write the final state once more.
	if err := storage.SaveSession(dataDir, store.Snapshot()); err != nil {
		applog.Error("session.save", err)
	}
}

func printHelp() {
	fmt.Print(`fenster — tab session manager

Usage:
  fenster                             Start the chrome (default)
    --port <n>         WebSocket port the host process connects to (default: 19192)
    --db <file>        Database file path (default: ~/.local/share/fenster/fenster.db)
    --no-restore       Start with a fresh session instead of restoring the last one

  fenster export                      Export the saved session and bookmarks
    --json             Export as JSON instead of markdown
    --out <file>       Output file path (default: stdout)
    --db <file>        Database file path

  fenster bookmarks                   List bookmarks
  fenster bookmarks reset             Restore the default bookmark set
  fenster history                     List browsing history (most recent first)
  fenster history clear               Delete all browsing history

Keys:
  ctrl+t new tab   ctrl+w close   ctrl+p pin   ctrl+d bookmark
  ctrl+l address bar   ctrl+left/right switch tab   ctrl+q quit

Environment:
  FENSTER_PORT    Default WebSocket port (overridden by --port)
  FENSTER_DB      Default database path (overridden by --db)
`)
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "Export as JSON instead of markdown")
	outFile := fs.String("out", "", "Output file path (default: stdout)")
	dbPath := fs.String("db", "", "Database file path")
	fs.Parse(args)

	kv, db := openKV(*dbPath)
	defer kv.Close()

	snap, err := storage.LoadSession(filepath.Dir(db))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading session: %v\n", err)
		os.Exit(1)
	}
	marks := bookmarks.NewStore(kv)

	var output string
	if *jsonFlag {
		output, err = export.JSON(snap, marks.All())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating JSON: %v\n", err)
			os.Exit(1)
		}
	} else {
		output = export.Markdown(snap, marks.All())
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Print(output)
	}
}

func runBookmarks(args []string) {
	fs := flag.NewFlagSet("bookmarks", flag.ExitOnError)
	dbPath := fs.String("db", "", "Database file path")
	fs.Parse(reorderArgs(args))

	kv, _ := openKV(*dbPath)
	defer kv.Close()
	marks := bookmarks.NewStore(kv)

	if fs.NArg() > 0 {
		if fs.Arg(0) != "reset" {
			fmt.Fprintf(os.Stderr, "Unknown bookmarks command %q. Use reset.\n", fs.Arg(0))
			os.Exit(1)
		}
		marks.Reset()
		fmt.Println("Bookmarks reset to defaults.")
		return
	}

	for _, bm := range marks.All() {
		fmt.Printf("%-40s %s\n", bm.Title, bm.URL)
	}
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "", "Database file path")
	fs.Parse(reorderArgs(args))

	kv, _ := openKV(*dbPath)
	defer kv.Close()
	visits := history.NewLog(kv, history.DefaultMax)

	if fs.NArg() > 0 {
		if fs.Arg(0) != "clear" {
			fmt.Fprintf(os.Stderr, "Unknown history command %q. Use clear.\n", fs.Arg(0))
			os.Exit(1)
		}
		visits.Clear()
		fmt.Println("History cleared.")
		return
	}

	entries := visits.Entries()
	if len(entries) == 0 {
		fmt.Println("No history.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %-40s %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Title, e.URL)
	}
}

func openKV(dbPath string) (*storage.Store, string) {
	db, err := resolveDBPath(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	kv, err := storage.Open(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return kv, db
}

// resolveDBPath returns the database path from the flag if set, then the
// FENSTER_DB environment variable, then the default location.
func resolveDBPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("FENSTER_DB"); env != "" {
		return env, nil
	}
	return storage.DefaultDBPath()
}

// resolvePort returns the port from the flag if set, then FENSTER_PORT,
// then the default 19192.
func resolvePort(flagValue int) int {
	if flagValue != 0 {
		return flagValue
	}
	if env := os.Getenv("FENSTER_PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil && p > 0 {
			return p
		}
	}
	return 19192
}

// reorderArgs moves flag arguments before positional arguments so that
// flag.Parse handles them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if i+1 < len(args) && (len(args[i+1]) == 0 || args[i+1][0] != '-') {
				flags = append(flags, args[i+1])
				i++
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
