package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicScheduler/internal/config"
	"github.com/m04kA/SMC-ClinicScheduler/pkg/logger"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "clinic-scheduler",
		Short:         "Запись на прием в клинику с автоматическим назначением врача",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "путь к файлу конфигурации")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(seedCmd(&configPath))
	rootCmd.AddCommand(reconcileCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap загружает конфигурацию и создает логгер
func bootstrap(configPath string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Configuration loaded from %s", configPath)
	return cfg, log, nil
}
