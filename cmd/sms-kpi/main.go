package main

import (
	"fmt"
	"os"

	"github.com/diillson/sms-kpi-dashboard-go/internal/adapter/driven/aws"
	"github.com/diillson/sms-kpi-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/sms-kpi-dashboard-go/internal/adapter/driven/dataset"
	"github.com/diillson/sms-kpi-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/sms-kpi-dashboard-go/internal/adapter/driven/warehouse"
	"github.com/diillson/sms-kpi-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/sms-kpi-dashboard-go/internal/application/usecase"
	"github.com/diillson/sms-kpi-dashboard-go/pkg/console"
	"github.com/diillson/sms-kpi-dashboard-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	datasetRepo := dataset.NewDatasetRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	warehouseRepo := warehouse.NewWarehouseRepository()
	publishRepo := aws.NewPublishRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	reportUseCase := usecase.NewReportUseCase(
		datasetRepo,
		exportRepo,
		configRepo,
		warehouseRepo,
		publishRepo,
		consoleImpl,
	)

	app.SetReportUseCase(reportUseCase)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
