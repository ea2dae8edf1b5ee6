// Command gramwalk composes text from whitespace-separated readings read on
// stdin, one composition per line.
//
// Inside a line, a token starting with '!' selects that candidate at the
// cursor, '<' and '>' move the cursor by one word. The override cache learns
// from selections and is persisted between runs when a store is configured.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/gramwalk/compositor"
	"github.com/katalvlaran/gramwalk/config"
	"github.com/katalvlaran/gramwalk/gram"
	"github.com/katalvlaran/gramwalk/lm"
	"github.com/katalvlaran/gramwalk/logging"
	"github.com/katalvlaran/gramwalk/metrics"
	"github.com/katalvlaran/gramwalk/override"
	"github.com/katalvlaran/gramwalk/overridestore"
	"github.com/katalvlaran/gramwalk/session"
)

func main() {
	configPath := flag.String("config", "", "path to a .yaml or .toml config file")
	dicts := flag.String("dict", "", "comma-separated dictionary files (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	storePath := flag.String("store", "", "SQLite file for the override cache (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dicts != "" {
		cfg.Model.Dictionaries = strings.Split(*dicts, ",")
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled, cfg.Metrics.Addr = true, *metricsAddr
	}
	if *storePath != "" {
		cfg.Override.Store.Driver, cfg.Override.Store.Path = config.StoreSQLite, *storePath
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		slog.Error("gramwalk failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	// 1) Language model.
	model, err := loadModel(ctx, cfg)
	if err != nil {
		return err
	}

	// 2) Override model and its store.
	overrides := override.New(
		override.WithCapacity(cfg.Override.Capacity),
		override.WithHalfLife(cfg.Override.HalfLife),
		override.WithLogger(logging.WithComponent("override")),
	)
	store, err := openStore(ctx, cfg.Override.Store)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		if err := overridestore.Sync(ctx, store, overrides); err != nil {
			return err
		}
		slog.Info("override cache loaded", "driver", cfg.Override.Store.Driver, "entries", overrides.Len())
	}

	// 3) Metrics.
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		shutdown := serveMetrics(cfg.Metrics.Addr, reg)
		defer shutdown()
	}

	// 4) Compose.
	opts := []session.Option{
		session.WithMaxBufferLength(cfg.Compositor.MaxBufferLength),
		session.WithSeparator(cfg.Compositor.Separator),
		session.WithMetrics(m),
		session.WithLogger(logging.WithComponent("session")),
	}
	if cfg.Compositor.LenientInsert {
		opts = append(opts, session.WithLenientInsert())
	}
	s := session.New(model, overrides, opts...)
	if err := compose(s, in, out); err != nil {
		return err
	}

	if store != nil {
		if err := overridestore.Flush(ctx, store, overrides); err != nil {
			return err
		}
		slog.Info("override cache saved", "entries", overrides.Len())
	}

	return nil
}

func loadModel(ctx context.Context, cfg *config.Config) (gram.Model, error) {
	if len(cfg.Model.Dictionaries) == 0 {
		return nil, errors.New("no dictionaries configured (use -dict or model.dictionaries)")
	}
	base, err := lm.LoadFiles(ctx, cfg.Model.Dictionaries...)
	if err != nil {
		return nil, err
	}
	slog.Info("dictionaries loaded", "files", len(cfg.Model.Dictionaries), "keys", base.Len())

	reloadable := lm.NewReloadable(base)
	if cfg.Model.Watch {
		w, err := lm.NewWatcher(reloadable, logging.WithComponent("lm"), cfg.Model.Dictionaries...)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Error("dictionary watcher stopped", "error", err)
			}
		}()
	}

	var model gram.Model = reloadable
	if cfg.Model.UserPhrases != "" {
		user, err := lm.LoadFile(cfg.Model.UserPhrases)
		if err != nil {
			return nil, err
		}
		model = lm.NewMerged(reloadable, user, cfg.Model.UserBoost)
	}

	return model, nil
}

func openStore(ctx context.Context, sc config.StoreConfig) (overridestore.Store, error) {
	switch sc.Driver {
	case config.StoreSQLite:
		return overridestore.OpenSQLite(sc.Path)
	case config.StoreRedis:
		return overridestore.DialRedis(ctx, sc.RedisAddr, sc.RedisDB, sc.RedisKey)
	default:
		return nil, nil
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HandlerFor(reg))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// compose treats each input line as one composition and prints the result.
// A line whose readings cannot be walked end to end is reported and dropped;
// the session is cleared and the next line starts fresh.
func compose(s *session.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
lines:
	for sc.Scan() {
		var committed strings.Builder
		for _, tok := range strings.Fields(sc.Text()) {
			switch {
			case tok == "<":
				s.JumpBackward()
			case tok == ">":
				s.JumpForward()
			case strings.HasPrefix(tok, "!"):
				if err := s.SelectCandidate(tok[1:]); err != nil {
					fmt.Fprintf(out, "! %v\n", err)
				}
			default:
				head, err := s.InsertReading(tok)
				committed.WriteString(head)
				if errors.Is(err, session.ErrReadingRejected) {
					fmt.Fprintf(out, "! %v\n", err)
					continue
				}
				if errors.Is(err, compositor.ErrUnreachable) {
					fmt.Fprintf(out, "! %v\n", err)
					if committed.Len() > 0 {
						fmt.Fprintf(out, "%s\t\n", committed.String())
					}
					s.Clear()
					continue lines
				}
				if err != nil {
					return err
				}
			}
		}
		fmt.Fprintf(out, "%s\t%s\n", committed.String()+s.Path().Text(), segmentation(s.Path()))
		s.Commit()
	}

	return sc.Err()
}

func segmentation(path compositor.WalkedPath) string {
	parts := make([]string, len(path))
	for i, e := range path {
		parts[i] = fmt.Sprintf("%s:%s", e.Key(), e.Value())
	}

	return strings.Join(parts, " ")
}
