package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/diillson/sms-kpi-dashboard-go/internal/application/pipeline"
	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/repository"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

// ReportUseCase runs the KPI pipeline and hands its result to the exporters.
type ReportUseCase struct {
	datasetRepo   repository.DatasetRepository
	exportRepo    repository.ExportRepository
	configRepo    repository.ConfigRepository
	warehouseRepo repository.WarehouseRepository
	publishRepo   repository.PublishRepository
	console       types.ConsoleInterface

	now        func() time.Time
	workDir    func() (string, error)
	configFile string
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	datasetRepo repository.DatasetRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	warehouseRepo repository.WarehouseRepository,
	publishRepo repository.PublishRepository,
	console types.ConsoleInterface,
) *ReportUseCase {
	return &ReportUseCase{
		datasetRepo:   datasetRepo,
		exportRepo:    exportRepo,
		configRepo:    configRepo,
		warehouseRepo: warehouseRepo,
		publishRepo:   publishRepo,
		console:       console,
		now:           time.Now,
		workDir:       defaultWorkDir,
	}
}

// RunReport executa o pipeline completo: carga, limpeza, agregação, KPIs,
// dashboard no console, exportação e, quando configurados, warehouse e S3.
// Erros fatais são retornados antes de qualquer arquivo aparecer no diretório
// de saída: as exportações são preparadas num diretório temporário e só são
// movidas depois que todos os formatos e o warehouse foram gravados.
func (uc *ReportUseCase) RunReport(ctx context.Context, args *types.CLIArgs) error {
	opts, err := uc.ResolveOptions(args)
	if err != nil {
		return err
	}
	if uc.configFile != "" {
		uc.console.LogInfo("Using configuration file: %s", uc.configFile)
	}

	progress := types.ProgressHandle(noProgress{})
	if !opts.Quiet {
		progress = uc.console.ProgressWithTotal(buildStages + len(opts.ReportTypes))
	}
	report, err := uc.buildReport(ctx, opts.Sources, opts.TopTypes, progress)
	if err != nil {
		progress.Stop()
		return err
	}

	staged, err := uc.exportRepo.Stage(opts.Output)
	if err != nil {
		progress.Stop()
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			uc.exportRepo.Discard(staged)
		}
	}()

	stagedFiles, err := uc.exportReport(report, opts, staged, progress)
	progress.Stop()
	if err != nil {
		return err
	}

	if opts.Warehouse != "" {
		runID, err := uc.warehouseRepo.WriteReport(ctx, opts.Warehouse, report)
		if err != nil {
			return fmt.Errorf("failed to write warehouse %s: %w", opts.Warehouse, err)
		}
		uc.console.LogSuccess("Warehouse run %s written to %s", runID, opts.Warehouse)
	}

	files, err := uc.exportRepo.Commit(staged, opts.Output, stagedFiles)
	if err != nil {
		return fmt.Errorf("failed to write outputs to %s: %w", opts.Output.Dir, err)
	}
	committed = true
	uc.console.LogSuccess("Exported %d file(s) to %s", len(files), opts.Output.Dir)

	if !opts.Quiet {
		uc.renderDashboard(report)
	}

	var publishErr error
	if opts.Publish.Bucket != "" {
		publishErr = uc.publish(ctx, opts.Publish, files, opts.Quiet)
	}

	uc.printRunSummary(report.Summary)
	return publishErr
}

// buildStages é o número de etapas de BuildReport contadas na barra de progresso.
const buildStages = 4

type noProgress struct{}

func (noProgress) Increment() {}
func (noProgress) Stop()      {}

// BuildReport loads the source tables and runs every pipeline stage.
// Recoverable problems end up in the report's RunSummary.
func (uc *ReportUseCase) BuildReport(ctx context.Context, sources entity.SourceFiles, topTypes int) (*entity.Report, error) {
	return uc.buildReport(ctx, sources, topTypes, noProgress{})
}

func (uc *ReportUseCase) buildReport(ctx context.Context, sources entity.SourceFiles, topTypes int, progress types.ProgressHandle) (*entity.Report, error) {
	loaded, err := uc.datasetRepo.Load(ctx, sources)
	if err != nil {
		return nil, err
	}
	progress.Increment()

	summary := entity.NewRunSummary()
	summary.Merge(loaded.Stats...)
	summary.AddIssues(loaded.Issues...)

	cleaned, err := pipeline.Clean(loaded.Dataset)
	if err != nil {
		return nil, err
	}
	summary.Window = cleaned.Window
	summary.Merge(cleaned.Stats...)
	summary.AddIssues(cleaned.Issues...)
	progress.Increment()

	aggregated := pipeline.Aggregate(cleaned.Dataset)
	summary.Merge(aggregated.Stats...)
	summary.AddIssues(aggregated.Issues...)
	progress.Increment()

	kpis := pipeline.ComputeKPIs(aggregated.Facts, topTypes)
	summary.AddIssues(pipeline.InsufficientCohorts(kpis.ChurnComparison)...)
	progress.Increment()

	return &entity.Report{
		GeneratedAt: uc.now(),
		Window:      cleaned.Window,
		Facts:       aggregated.Facts,
		KPIs:        kpis,
		Summary:     summary,
	}, nil
}

// exportReport grava cada formato no destino preparado e devolve os caminhos preparados.
func (uc *ReportUseCase) exportReport(report *entity.Report, opts *RunOptions, staged types.OutputTarget, progress types.ProgressHandle) ([]string, error) {
	var files []string
	for _, reportType := range opts.ReportTypes {
		switch reportType {
		case "csv":
			csvPaths, err := uc.exportRepo.ExportToCSV(report, staged)
			if err != nil {
				return nil, fmt.Errorf("failed to export to CSV: %w", err)
			}
			files = append(files, csvPaths...)
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(report, staged)
			if err != nil {
				return nil, fmt.Errorf("failed to export to JSON: %w", err)
			}
			files = append(files, jsonPath)
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(report, staged)
			if err != nil {
				return nil, fmt.Errorf("failed to export to PDF: %w", err)
			}
			files = append(files, pdfPath)
		default:
			return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedType, reportType)
		}
		progress.Increment()
	}
	return files, nil
}

func (uc *ReportUseCase) publish(ctx context.Context, target types.PublishTarget, files []string, quiet bool) error {
	if len(files) == 0 {
		uc.console.LogWarning("No exported files to publish")
		return nil
	}

	var status types.StatusHandle
	if !quiet {
		status = uc.console.Status(fmt.Sprintf("Uploading %d file(s) to s3://%s...", len(files), target.Bucket))
	}
	published, err := uc.publishRepo.Publish(ctx, target, files)
	if status != nil {
		status.Stop()
	}
	for _, obj := range published {
		if obj.Error != "" {
			uc.console.LogError("Failed to upload %s: %s", obj.File, obj.Error)
			continue
		}
		uc.console.LogSuccess("Uploaded s3://%s/%s", obj.Bucket, obj.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to publish reports: %w", err)
	}
	return nil
}
