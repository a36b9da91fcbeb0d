package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	orchestration "github.com/koscakluka/ema-kiosk/core"
	"github.com/koscakluka/ema-kiosk/core/events"
	"github.com/koscakluka/ema-kiosk/core/input"
	"github.com/koscakluka/ema-kiosk/core/presence"
	"github.com/koscakluka/ema-kiosk/internal/config"
	"github.com/koscakluka/ema-kiosk/internal/tui"
)

var (
	runNoPresence bool
	runLogFile    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the exhibit in this terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-file") {
			cfg.Log.File = runLogFile
		}
		if runNoPresence {
			cfg.Presence.Enabled = false
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdownLogging, err := setupLogging(cfg.Log.File)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownLogging(ctx)
		}()

		return runExhibit(ctx, cfg)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoPresence, "no-presence", false, "do not connect to the presence server")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "write logs to this file instead of the configured one")
	rootCmd.AddCommand(runCmd)
}

func runExhibit(ctx context.Context, cfg *config.Config) error {
	backend, err := newChatBackend(ctx, cfg.Chat)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cfg.Themes.Catalog)
	if err != nil {
		return err
	}

	updates := make(chan events.Event, 256)
	opts := []orchestration.CoordinatorOption{
		orchestration.WithTiming(cfg.Timing),
		orchestration.WithChatBackend(backend),
		orchestration.WithChatScript(cfg.ChatScript()),
		orchestration.WithThemeCatalog(catalog),
		orchestration.WithEventHandler(func(event events.Event) {
			select {
			case updates <- event:
			default:
			}
		}),
	}

	var stack *archiveStack
	if cfg.Archive.Enabled {
		stack, err = openArchive(cfg.Archive)
		if err != nil {
			return err
		}
		defer stack.Close()
		opts = append(opts, orchestration.WithArchiver(stack.batcher))
	}

	coordinator := orchestration.NewCoordinator(opts...)
	if !coordinator.Start(ctx) {
		return fmt.Errorf("coordinator did not start")
	}
	defer coordinator.Close()

	if cfg.Presence.Enabled {
		bridge := presence.NewBridge(coordinator,
			presence.WithURL(cfg.Presence.URL),
			presence.WithBackoff(cfg.Presence.BaseDelay, cfg.Presence.MaxDelay, cfg.Presence.MaxAttempts),
			presence.WithStaleAfter(cfg.Presence.StaleAfter),
		)
		bridge.Start(ctx)
		defer func() {
			bridge.Close()
			bridge.AwaitDone()
		}()
	}

	aggregator := input.NewAggregator(coordinator,
		input.WithWheelThreshold(cfg.Input.WheelThreshold),
		input.WithWheelCooldown(cfg.Input.WheelCooldown),
		input.WithSwipeThreshold(cfg.Input.SwipeThreshold),
	)

	program := tea.NewProgram(
		tui.New(coordinator, aggregator, updates),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("renderer: %w", err)
	}
	return nil
}
