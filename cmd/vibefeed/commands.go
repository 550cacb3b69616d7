package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"vibefeed/internal/config"
	"vibefeed/internal/feed"
	"vibefeed/internal/models"
	"vibefeed/internal/observability"
	"vibefeed/internal/postview"
	"vibefeed/internal/seed"
	"vibefeed/internal/session"
	"vibefeed/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vibefeed",
		Short:         "Interactive social feed demo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newSeedCmd(), newPlayCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the feed in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			// The screen belongs to the UI, so logs go to a file.
			logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			ctx := withCorrelationID(cmd.Context())
			rt, err := newApp(ctx, cfg, logFile)
			if err != nil {
				return err
			}
			defer rt.shutdown()

			p := tea.NewProgram(tui.NewModel(rt.feed, time.Now), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return err
			}
			return rt.flushMetrics()
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		count  int
		random int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print a generated feed as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			return seed.Encode(cmd.OutOrStdout(), seed.Generate(count, random))
		},
	}
	cmd.Flags().IntVar(&count, "count", 10, "number of posts")
	cmd.Flags().Int64Var(&random, "random", 0, "random seed; 0 picks one")
	return cmd
}

func newPlayCmd() *cobra.Command {
	var printMetrics bool
	cmd := &cobra.Command{
		Use:   "play <script.yml>",
		Short: "Replay scripted events against the feed without a UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			steps, err := session.LoadScript(f)
			f.Close()
			if err != nil {
				return err
			}

			ctx := withCorrelationID(cmd.Context())
			rt, err := newApp(ctx, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.shutdown()

			sess := session.New(rt.feed, session.Options{Name: "play", Metrics: rt.metrics})
			out := cmd.OutOrStdout()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				defer sess.Stop()
				return sess.Play(ctx, steps, func(st session.Step, snap feed.Snapshot, err error) {
					printStep(out, st, snap, err)
				})
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if printMetrics && rt.metrics != nil {
				if err := rt.metrics.WriteText(out); err != nil {
					return err
				}
			}
			return rt.flushMetrics()
		},
	}
	cmd.Flags().BoolVar(&printMetrics, "metrics", false, "print metrics in Prometheus text format after the last step")
	return cmd
}

func printStep(w io.Writer, st session.Step, snap feed.Snapshot, err error) {
	if err != nil {
		fmt.Fprintf(w, "%-16s post=%-6s error: %v\n", st.Event, st.PostID, err)
		return
	}
	for _, p := range snap.Posts {
		if st.PostID != "" && p.ID != st.PostID {
			continue
		}
		glyphs := ""
		for _, ev := range p.Feedback {
			glyphs += ev.Glyph
		}
		fmt.Fprintf(w, "%-16s post=%-6s reaction=%-6s likes=%-4d comments=%-4d feedback=%s\n",
			st.Event, p.ID, p.Reaction, p.Likes, p.Comments, glyphs)
	}
	if st.PostID == "" {
		fmt.Fprintf(w, "%-16s posts=%d draft=%q\n", st.Event, len(snap.Posts), snap.Draft)
	}
}

type app struct {
	feed        *feed.Feed
	metrics     *observability.Metrics
	metricsFile string
	shutdown    func()
}

func withCorrelationID(ctx context.Context) context.Context {
	return observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())
}

// flushMetrics writes the metrics to METRICS_FILE when one is configured.
func (a *app) flushMetrics() error {
	if a.metrics == nil || a.metricsFile == "" {
		return nil
	}
	f, err := os.Create(a.metricsFile)
	if err != nil {
		return models.NewInternalError(fmt.Errorf("create metrics file: %w", err))
	}
	if err := a.metrics.WriteText(f); err != nil {
		f.Close()
		return models.NewInternalError(err)
	}
	return f.Close()
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	observability.InitLogger(logOut, cfg.LogLevel, cfg.LogFormat)

	traceOut := io.Discard
	var traceFile *os.File
	if cfg.TracingEnabled && cfg.TracingFile != "" {
		var err error
		traceFile, err = os.Create(cfg.TracingFile)
		if err != nil {
			return nil, models.NewInternalError(fmt.Errorf("open trace file: %w", err))
		}
		traceOut = traceFile
	}
	stopTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "vibefeed",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Writer:       traceOut,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		if traceFile != nil {
			_ = traceFile.Close()
		}
		return nil, models.NewInternalError(err)
	}

	seeds, err := seed.Load(cfg)
	if err != nil {
		_ = stopTracing(ctx)
		if traceFile != nil {
			_ = traceFile.Close()
		}
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}
	logger := observability.NewFeedLogger(cfg.Env, nil)
	f := feed.New(seeds, postview.Options{
		Viewer:   cfg.Viewer(),
		Lifetime: cfg.FeedbackLifetime(),
		Observer: observability.NewFeedObserver(logger, metrics),
	})
	logger.LogLifecycle(ctx, "feed loaded", map[string]interface{}{
		"posts":  f.Len(),
		"source": cfg.SeedSource,
	})

	return &app{
		feed:        f,
		metrics:     metrics,
		metricsFile: cfg.MetricsFile,
		shutdown: func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = stopTracing(shutdownCtx)
			if traceFile != nil {
				_ = traceFile.Close()
			}
		},
	}, nil
}
