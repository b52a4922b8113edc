package cli

import (
	"context"

	"github.com/diillson/sms-kpi-dashboard-go/internal/application/usecase"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
	"github.com/diillson/sms-kpi-dashboard-go/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd       *cobra.Command
	reportUseCase *usecase.ReportUseCase
	version       string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "sms-kpi",
		Short:         "SMS revenue KPI dashboard",
		Long:          "Builds monthly SMS revenue KPIs from client, revenue, SMS and appointment extracts and exports them for dashboards.",
		Version:       formattedVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "SMS KPI Dashboard version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("data-dir", "d", "./data", "Directory holding clients.csv, revenue.csv, sms.csv and appointment.csv")
	flags.String("clients", "", "Path to the clients table (overrides --data-dir)")
	flags.String("revenue", "", "Path to the revenue table (overrides --data-dir)")
	flags.String("sms", "", "Path to the SMS table (overrides --data-dir)")
	flags.String("appointment", "", "Path to the appointment table (overrides --data-dir)")
	flags.StringP("dir", "o", "./outputs", "Directory to save the report files")
	flags.StringP("report-name", "n", "", "Optional prefix for the report file names")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	flags.Bool("timestamp", false, "Append a timestamp to the report file names")
	flags.Int("top-types", usecase.DefaultTopTypes, "Number of message types listed in the top message types ranking (0 lists all)")
	flags.String("warehouse", "", "SQLite database that receives every result table")
	flags.String("s3-bucket", "", "Upload exported files to this S3 bucket")
	flags.String("s3-prefix", "", "Key prefix for uploaded files")
	flags.String("aws-profile", "", "AWS profile used for the upload")
	flags.String("aws-region", "", "AWS region used for the upload")
	flags.BoolP("quiet", "q", false, "Skip the console dashboard (the run summary is still printed)")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	dataDir, _ := flags.GetString("data-dir")
	clients, _ := flags.GetString("clients")
	revenue, _ := flags.GetString("revenue")
	sms, _ := flags.GetString("sms")
	appointment, _ := flags.GetString("appointment")
	dir, _ := flags.GetString("dir")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	timestamp, _ := flags.GetBool("timestamp")
	topTypes, err := flags.GetInt("top-types")
	if err != nil {
		return nil, err
	}
	warehouse, _ := flags.GetString("warehouse")
	s3Bucket, _ := flags.GetString("s3-bucket")
	s3Prefix, _ := flags.GetString("s3-prefix")
	awsProfile, _ := flags.GetString("aws-profile")
	awsRegion, _ := flags.GetString("aws-region")
	quiet, _ := flags.GetBool("quiet")

	// Flags informadas explicitamente têm precedência sobre o arquivo de configuração.
	changed := make(map[string]bool)
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})

	args := &types.CLIArgs{
		ConfigFile:  configFile,
		DataDir:     dataDir,
		Clients:     clients,
		Revenue:     revenue,
		SMS:         sms,
		Appointment: appointment,
		Dir:         dir,
		ReportName:  reportName,
		ReportType:  reportType,
		Timestamp:   timestamp,
		TopTypes:    topTypes,
		Warehouse:   warehouse,
		S3Bucket:    s3Bucket,
		S3Prefix:    s3Prefix,
		AWSProfile:  awsProfile,
		AWSRegion:   awsRegion,
		Quiet:       quiet,
		Changed:     changed,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	if !cliArgs.Quiet {
		displayWelcomeBanner(app.version)
		go version.CheckLatestVersion(app.version)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.reportUseCase.RunReport(ctx, cliArgs)
}

// SetReportUseCase sets the report use case for the CLI app.
func (app *CLIApp) SetReportUseCase(useCase *usecase.ReportUseCase) {
	app.reportUseCase = useCase
}
