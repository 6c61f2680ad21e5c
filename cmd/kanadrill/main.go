package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/conorfennell/kanadrill/internal/config"
	"github.com/conorfennell/kanadrill/internal/session"
	"github.com/conorfennell/kanadrill/internal/sets"
	"github.com/conorfennell/kanadrill/internal/storage"
	"github.com/conorfennell/kanadrill/internal/sync"
	"github.com/spf13/cobra"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		slog.Error("kanadrill failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, diag io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kanadrill",
		Short: "Drill kana with adaptive weighted sampling",
		Long: `kanadrill shows a prompt from the selected vocabulary sets and checks the
typed answer. Items you miss come up more often; items you get right recede.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(diag, &slog.HandlerOptions{Level: cfg.Level()})))
			return run(cmd.Context(), cfg, in, out, diag)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg config.Config, in io.Reader, out, diag io.Writer) error {
	reg := sets.NewRegistry()

	var progress io.Writer
	if cfg.Level() <= slog.LevelInfo {
		progress = diag
	}
	sync.RunSync(ctx, reg, sync.Sources{
		Dir:      cfg.SetsDir,
		GitURL:   cfg.SetsGit,
		CacheDir: cfg.CacheDir,
	}, progress)

	if cfg.List {
		fmt.Fprintf(out, "Available sets: %s\n", strings.Join(reg.Names(), ", "))
		return nil
	}

	opts := []session.Option{session.WithDiagnostics(diag)}
	if cfg.History != "" {
		db, err := storage.Open(cfg.History)
		if err != nil {
			return err
		}
		defer db.Close()
		slog.Info("history log opened", "path", cfg.History)

		if cfg.Stats {
			return printStats(out, db)
		}
		opts = append(opts, session.WithRecorder(db))
	}

	store, err := reg.Build(sets.SplitNames(cfg.Sets))
	if err != nil {
		return err
	}

	s, err := session.New(store, out, opts...)
	if err != nil {
		return err
	}
	slog.Debug("session started", "session_id", s.ID(), "items", store.Len())

	s.PrintBanner()
	return s.Run(ctx, in)
}

func printStats(out io.Writer, db *storage.DB) error {
	stats, err := db.ItemStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "No answers recorded yet.")
		return nil
	}
	for _, s := range stats {
		fmt.Fprintf(out, "%s / %s / %d/%d (%.0f%%)\n", s.Front, s.Back, s.Correct, s.Attempts, s.Accuracy()*100)
	}
	return nil
}
