package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmikkelson/wikiheaders/internal/api"
	"github.com/jmikkelson/wikiheaders/internal/config"
	"github.com/jmikkelson/wikiheaders/internal/dump"
	"github.com/jmikkelson/wikiheaders/internal/namespace"
	"github.com/jmikkelson/wikiheaders/internal/output"
	"github.com/jmikkelson/wikiheaders/internal/pipeline"
	"github.com/jmikkelson/wikiheaders/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	namespaces, err := namespace.ParseList(cfg.Namespaces)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	reader, closer, err := dump.Open(cfg.DumpPath)
	if err != nil {
		log.Error("open dump", "path", cfg.DumpPath, "error", err)
		os.Exit(1)
	}
	defer closer.Close()

	st := stats.New()
	start := time.Now()
	summary, err := pipeline.Run(reader, st, pipeline.Options{
		Namespaces: namespaces,
		PageLimit:  cfg.PageLimit,
		Verbose:    cfg.Verbose,
	}, log)
	if err != nil {
		log.Error("run aborted", "error", err)
		os.Exit(1)
	}
	log.Info("run complete",
		"pages_scanned", summary.PagesScanned,
		"pages_selected", summary.PagesSelected,
		"headings", summary.Headings,
		"headers", st.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	records := st.Records()
	if err := writeOutput(cfg, records); err != nil {
		log.Error("write output", "error", err)
		os.Exit(1)
	}

	if cfg.Listen != "" {
		serve(cfg.Listen, records, log)
	}
}

func writeOutput(cfg config.Config, records []stats.HeaderRecord) error {
	if cfg.Format == "sqlite" {
		return output.WriteSQLite(cfg.OutPath, records)
	}

	var w io.Writer = os.Stdout
	if cfg.OutPath != "" {
		f, err := os.Create(cfg.OutPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch cfg.Format {
	case "csv":
		return output.WriteCSV(w, records)
	case "markdown":
		_, err := w.Write(output.Markdown(records))
		return err
	default:
		return output.WriteJSON(w, records)
	}
}

func serve(addr string, records []stats.HeaderRecord, log *slog.Logger) {
	srv := api.NewServer(records, log)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("serving results", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
