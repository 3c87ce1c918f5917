// tallerctl tareas de operación del taller: migraciones, tablas DynamoDB, barridos y cargas masivas.
//
// Uso:
//
//	tallerctl migrate up
//	tallerctl dynamo create-tables
//	tallerctl overdue run
//	tallerctl import inventory --service <id> --file articulos.csv --charset latin1
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/infrastructure/dynamo"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/internal/infrastructure/stores"
	"github.com/jhoicas/Taller-api/internal/scheduler"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "tallerctl",
		Short:         "Herramientas de operación de Taller API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), dynamoCmd(), overdueCmd(), importCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env carga configuración y logger comunes a todos los comandos.
func env() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <up|down|status|version|redo|reset> [args]",
		Short: "Aplica las migraciones embebidas de PostgreSQL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := env()
			if err != nil {
				return err
			}
			return postgres.Migrate(cmd.Context(), cfg.DB.ConnectionString(), args[0], args[1:]...)
		},
	}
}

func dynamoCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "dynamo", Short: "Administración de tablas DynamoDB"}
	cmd.AddCommand(&cobra.Command{
		Use:   "create-tables",
		Short: "Crea las tablas e índices (ignora las que ya existen)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := env()
			if err != nil {
				return err
			}
			awsCfg, err := dynamo.LoadAWSConfig(cmd.Context(), cfg.AWS)
			if err != nil {
				return err
			}
			return dynamo.CreateTables(cmd.Context(), dynamo.NewClient(awsCfg, cfg.Dynamo), cfg.Dynamo.TablePrefix, log)
		},
	})
	return cmd
}

func overdueCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "overdue", Short: "Facturas vencidas"}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Ejecuta una vez el barrido de facturas vencidas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := env()
			if err != nil {
				return err
			}
			if cfg.App.StoreDriver == "memory" {
				return errors.New("overdue run requiere un backend persistente (STORE_DRIVER=postgres|dynamodb)")
			}
			repos, err := openRepos(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer repos.Close()
			job := scheduler.NewOverdueJob(billing.NewOverdueUseCase(repos.Invoices), log.Named("overdue"))
			return scheduler.New(log, nil).RunJob(cmd.Context(), job)
		},
	})
	return cmd
}

func openRepos(ctx context.Context, cfg *config.Config) (*stores.Repositories, error) {
	return stores.Open(ctx, cfg, func() (aws.Config, error) {
		return dynamo.LoadAWSConfig(ctx, cfg.AWS)
	})
}
