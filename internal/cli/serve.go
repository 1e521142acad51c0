package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rcliao/moodlog/internal/api"
	"github.com/rcliao/moodlog/internal/importer"
	"github.com/rcliao/moodlog/internal/scheduler"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Import, schedule re-imports and serve queries",
		Long: "Initializes the store, runs one import pass, starts the background scheduler " +
			"and serves /users and /moods until interrupted.",
		Run: runServe,
	}

	cmd.Flags().StringP("addr", "a", "", "Listen address (default: $MOODLOG_ADDR or :5000)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	logger.Info("store ready", "db", cfg.DBPath)

	im := importer.New(s, importer.Config{DataDir: cfg.DataDir}, logger)
	initialImport(ctx, im, logger)

	sched := scheduler.New(im, scheduler.Config{
		StartHour:  cfg.ImportStartHour,
		Interval:   cfg.ImportInterval,
		PollPeriod: cfg.PollPeriod,
	}, nil, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	srv := api.NewServer(api.Config{Addr: cfg.Addr, DBPath: cfg.DBPath}, s, logger)
	err = srv.Run(ctx)
	stop()
	wg.Wait()
	if err != nil {
		exitErr("serve", err)
	}
	logger.Info("stopped")
}


// initialImport runs the startup pass. Like scheduled passes it finishes even
// if ctx is cancelled while it runs.
func initialImport(ctx context.Context, im scheduler.Runner, logger *slog.Logger) {
	if _, err := im.Run(context.WithoutCancel(ctx)); err != nil {
		logger.Error("initial import", "error", err)
	}
}
