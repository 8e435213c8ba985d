package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicScheduler/internal/config"
	"github.com/m04kA/SMC-ClinicScheduler/internal/seed"
	reconcileClaimsUC "github.com/m04kA/SMC-ClinicScheduler/internal/usecase/reconcile_claims"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы данных",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			if cfg.Database.Driver == config.DriverMemory {
				return fmt.Errorf("migrate: memory driver has no schema")
			}

			store, err := openBackend(cfg, nil, log)
			if err != nil {
				return err
			}
			defer store.Close()

			return store.migrate(cmd.Context(), log)
		},
	}
}

func seedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Заполнить справочник врачей",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			if cfg.Database.Driver == config.DriverMemory {
				return fmt.Errorf("seed: memory driver is seeded on serve")
			}

			store, err := openBackend(cfg, nil, log)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := seed.Apply(cmd.Context(), txOrNil(store), store.physicians, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d physicians\n", n)
			return nil
		},
	}
}

func reconcileCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Сверить занятые слоты с записями",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			if cfg.Database.Driver == config.DriverMemory {
				return fmt.Errorf("reconcile: memory driver has nothing to reconcile")
			}

			store, err := openBackend(cfg, nil, log)
			if err != nil {
				return err
			}
			defer store.Close()

			uc := reconcileClaimsUC.NewUseCase(store.claims, store.reservations, reconcileClaimsUC.Config{
				OrphanGrace: time.Duration(cfg.Reconcile.OrphanGraceSeconds) * time.Second,
			}, log)

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			report, err := uc.Execute(ctx, &reconcileClaimsUC.Request{DryRun: dryRun})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created=%d attached=%d skipped=%d released=%d errors=%d\n",
				report.Created, report.Attached, report.Skipped, report.Released, report.Errors)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "только показать, что будет изменено")
	return cmd
}
