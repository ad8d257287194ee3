package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockview/internal/client"
	"stockview/internal/config"
	"stockview/internal/logger"
	"stockview/internal/tui"
	"stockview/internal/viewer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	baseURL := flag.String("url", cfg.Viewer.BaseURL, "backend base URL")
	policyFile := flag.String("policy", cfg.PolicyFile, "sheet policy TOML file")
	logFile := flag.String("log", "stockview-viewer.log", "log file; the terminal belongs to the UI")
	flag.Parse()

	if err := run(cfg, *baseURL, *policyFile, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, "stockview:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, baseURL, policyFile, logFile string) error {
	appLogger, err := logger.NewFile(cfg.Logger, logFile)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	policy, err := config.LoadPolicy(policyFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := client.NewHostResolver(baseURL, cfg.Viewer.LocalPrefix, cfg.Viewer.APIPrefix)
	backend := client.NewClient(resolver, cfg.Viewer.Timeout, appLogger.Named("client"))

	bridge := tui.NewBridge()
	ctrl := viewer.NewController(backend, backend, backend, bridge, policy, appLogger.Named("viewer"))

	program := tea.NewProgram(tui.New(ctx, ctrl, appLogger), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(program)

	appLogger.Info("viewer started", zap.String("url", baseURL), zap.Bool("local", resolver.IsLocal()))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
