package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smeier/announce/internal/announce"
	"github.com/smeier/announce/internal/fetch"
	"github.com/smeier/announce/internal/ledger"
	"github.com/smeier/announce/internal/model"
	"github.com/smeier/announce/internal/present"
	"github.com/smeier/announce/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "announce: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	urlTemplate := flag.String("url", "", "announcement URL template (overrides config)")
	history := flag.Bool("history", false, "print shown-message history and exit")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *urlTemplate != "" {
		cfg.URLTemplate = *urlTemplate
	}

	log := newLogger(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	st, err := store.NewSQLiteStore(filepath.Join(cfg.DataDir, "announce.db"))
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()

	if *history {
		return printHistory(ctx, st)
	}

	led := ledger.New(st)
	if id, err := led.InstallID(ctx); err == nil {
		log.Debug("announcement client starting", "install_id", id)
	}

	engine := announce.New(
		announce.Config{
			URLTemplate:       cfg.URLTemplate,
			ShowOnFirstLaunch: cfg.ShowOnFirstLaunch,
			Runtime: announce.RuntimeContext{
				Version:  cfg.Version,
				Language: preferredLanguage(cfg),
			},
		},
		fetch.NewClient(time.Duration(cfg.HTTPTimeoutSec)*time.Second),
		&present.TerminalPresenter{},
		present.BrowserOpener{},
		led,
		log,
	)

	engine.OnMessageShown(func(id int) {
		log.Info("announcement shown", "message_id", id)
	})
	engine.OnButtonTouched(func(id int, action model.Action) {
		log.Info("announcement action chosen",
			"message_id", id, "label", action.Label, "kind", action.Kind)
	})

	return engine.Show(ctx)
}

// preferredLanguage returns the configured language override, falling
// back to the first tag of the host environment's locale preference.
func preferredLanguage(cfg *model.AppConfig) string {
	if cfg.Language != "" {
		return cfg.Language
	}
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE may hold a colon-separated preference list; values
		// look like "de_CH.UTF-8". Keep only the leading language tag.
		val = strings.Split(val, ":")[0]
		val = strings.Split(val, ".")[0]
		val = strings.Split(val, "_")[0]
		if val != "" && val != "C" && val != "POSIX" {
			return val
		}
	}
	return "en"
}

func printHistory(ctx context.Context, st store.Store) error {
	records, err := st.ShownHistory(ctx, 50)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no announcements shown yet")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  #%d  %s\n",
			rec.ShownAt.Local().Format("2006-01-02 15:04"), rec.MessageID, rec.Title)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
