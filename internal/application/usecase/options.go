package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

// Valores padrão aplicados quando nem a flag nem o arquivo de configuração definem o campo.
const (
	DefaultDataDir   = "data"
	DefaultOutputDir = "outputs"
	DefaultTopTypes  = 10
)

// SupportedReportTypes lists the export formats in the order they are written.
var SupportedReportTypes = []string{"csv", "json", "pdf"}

var defaultSourceNames = map[entity.TableName]string{
	entity.TableClients:     "clients.csv",
	entity.TableRevenue:     "revenue.csv",
	entity.TableSMS:         "sms.csv",
	entity.TableAppointment: "appointment.csv",
}

// RunOptions is the fully resolved configuration of one run.
type RunOptions struct {
	Sources     entity.SourceFiles
	Output      types.OutputTarget
	ReportTypes []string
	TopTypes    int
	Warehouse   string
	Publish     types.PublishTarget
	Quiet       bool
}

// ResolveOptions combina flags, arquivo de configuração e valores padrão.
// Flags explicitamente informadas vencem o arquivo, que vence os padrões.
func (uc *ReportUseCase) ResolveOptions(args *types.CLIArgs) (*RunOptions, error) {
	cfg, err := uc.loadConfig(args.ConfigFile)
	if err != nil {
		return nil, err
	}

	changed := func(flag string) bool { return args.Changed[flag] }
	pickString := func(flag, flagVal, cfgVal string) string {
		if changed(flag) || cfgVal == "" {
			return flagVal
		}
		return cfgVal
	}
	pickBool := func(flag string, flagVal, cfgVal bool) bool {
		if changed(flag) {
			return flagVal
		}
		return flagVal || cfgVal
	}

	dataDir := pickString("data-dir", args.DataDir, cfg.DataDir)
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	sourcePath := func(table entity.TableName, flagVal, cfgVal string) string {
		if p := pickString(string(table), flagVal, cfgVal); p != "" {
			return p
		}
		return filepath.Join(dataDir, defaultSourceNames[table])
	}

	opts := &RunOptions{
		Sources: entity.SourceFiles{
			Clients:     sourcePath(entity.TableClients, args.Clients, cfg.Clients),
			Revenue:     sourcePath(entity.TableRevenue, args.Revenue, cfg.Revenue),
			SMS:         sourcePath(entity.TableSMS, args.SMS, cfg.SMS),
			Appointment: sourcePath(entity.TableAppointment, args.Appointment, cfg.Appointment),
		},
		Output: types.OutputTarget{
			Dir:       pickString("dir", args.Dir, cfg.Dir),
			Prefix:    pickString("report-name", args.ReportName, cfg.ReportName),
			Timestamp: pickBool("timestamp", args.Timestamp, cfg.Timestamp),
		},
		Warehouse: pickString("warehouse", args.Warehouse, cfg.Warehouse),
		Publish: types.PublishTarget{
			Bucket:  pickString("s3-bucket", args.S3Bucket, cfg.S3Bucket),
			Prefix:  pickString("s3-prefix", args.S3Prefix, cfg.S3Prefix),
			Profile: pickString("aws-profile", args.AWSProfile, cfg.AWSProfile),
			Region:  pickString("aws-region", args.AWSRegion, cfg.AWSRegion),
		},
		Quiet: pickBool("quiet", args.Quiet, cfg.Quiet),
	}
	if opts.Output.Dir == "" {
		opts.Output.Dir = DefaultOutputDir
	}

	// 0 lists every message type.
	opts.TopTypes = args.TopTypes
	if !changed("top-types") {
		opts.TopTypes = DefaultTopTypes
		if cfg.TopTypes != nil {
			opts.TopTypes = *cfg.TopTypes
		}
	}
	if opts.TopTypes < 0 {
		return nil, fmt.Errorf("invalid --top-types %d: must not be negative", opts.TopTypes)
	}

	reportTypes := args.ReportType
	if !changed("report-type") && len(cfg.ReportType) > 0 {
		reportTypes = cfg.ReportType
	}
	if opts.ReportTypes, err = normalizeReportTypes(reportTypes); err != nil {
		return nil, err
	}

	return opts, nil
}

// loadConfig lê o arquivo informado ou, na ausência dele, procura um arquivo padrão no diretório atual.
func (uc *ReportUseCase) loadConfig(path string) (*types.Config, error) {
	if path == "" {
		cwd, err := uc.workDir()
		if err != nil {
			return &types.Config{}, nil
		}
		path = uc.configRepo.FindConfigFile(cwd)
		if path == "" {
			return &types.Config{}, nil
		}
	}

	cfg, err := uc.configRepo.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration file %s: %w", path, err)
	}
	uc.configFile = path
	return cfg, nil
}

func normalizeReportTypes(in []string) ([]string, error) {
	if len(in) == 0 {
		return []string{"csv"}, nil
	}

	requested := make(map[string]bool, len(in))
	for _, raw := range in {
		for _, rt := range strings.Split(raw, ",") {
			rt = strings.ToLower(strings.TrimSpace(rt))
			if rt == "" {
				continue
			}
			if !slices.Contains(SupportedReportTypes, rt) {
				return nil, fmt.Errorf("%w: %q (expected one of %s)", types.ErrUnsupportedType, rt, strings.Join(SupportedReportTypes, ", "))
			}
			requested[rt] = true
		}
	}

	out := make([]string, 0, len(requested))
	for _, rt := range SupportedReportTypes {
		if requested[rt] {
			out = append(out, rt)
		}
	}
	if len(out) == 0 {
		return []string{"csv"}, nil
	}
	return out, nil
}

func defaultWorkDir() (string, error) {
	return os.Getwd()
}
