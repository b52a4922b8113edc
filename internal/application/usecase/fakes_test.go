package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

type fakeDatasetRepo struct {
	result *entity.LoadResult
	err    error
	got    entity.SourceFiles
}

func (f *fakeDatasetRepo) Load(_ context.Context, sources entity.SourceFiles) (*entity.LoadResult, error) {
	f.got = sources
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeExportRepo struct {
	calls     []string
	csvErr    error
	pdfErr    error
	commitErr error
	target    types.OutputTarget
	staged    []string
	committed []string
	discarded bool
}

func (f *fakeExportRepo) ExportToCSV(_ *entity.Report, target types.OutputTarget) ([]string, error) {
	f.calls = append(f.calls, "csv")
	f.target = target
	if f.csvErr != nil {
		return nil, f.csvErr
	}
	return f.stage(target.Dir+"/monthly_kpis.csv", target.Dir+"/message_type_mix.csv"), nil
}

func (f *fakeExportRepo) ExportToJSON(_ *entity.Report, target types.OutputTarget) (string, error) {
	f.calls = append(f.calls, "json")
	return f.stage(target.Dir + "/kpi_report.json")[0], nil
}

func (f *fakeExportRepo) ExportToPDF(_ *entity.Report, target types.OutputTarget) (string, error) {
	f.calls = append(f.calls, "pdf")
	if f.pdfErr != nil {
		return "", f.pdfErr
	}
	return f.stage(target.Dir + "/kpi_dashboard.pdf")[0], nil
}

func (f *fakeExportRepo) stage(paths ...string) []string {
	f.staged = append(f.staged, paths...)
	return paths
}

func (f *fakeExportRepo) Stage(target types.OutputTarget) (types.OutputTarget, error) {
	target.Dir += "/.staging"
	return target, nil
}

func (f *fakeExportRepo) Commit(staged, final types.OutputTarget, files []string) ([]string, error) {
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	out := make([]string, 0, len(files))
	for _, file := range files {
		out = append(out, final.Dir+strings.TrimPrefix(file, staged.Dir))
	}
	f.committed = out
	return out, nil
}

func (f *fakeExportRepo) Discard(types.OutputTarget) error {
	f.discarded = true
	return nil
}

type fakeConfigRepo struct {
	cfg    *types.Config
	err    error
	found  string
	loaded string
}

func (f *fakeConfigRepo) LoadConfigFile(path string) (*types.Config, error) {
	f.loaded = path
	if f.err != nil {
		return nil, f.err
	}
	if f.cfg == nil {
		return &types.Config{}, nil
	}
	return f.cfg, nil
}

func (f *fakeConfigRepo) FindConfigFile(string) string { return f.found }

type fakeWarehouseRepo struct {
	path   string
	report *entity.Report
	err    error
}

func (f *fakeWarehouseRepo) WriteReport(_ context.Context, path string, report *entity.Report) (string, error) {
	f.path = path
	f.report = report
	if f.err != nil {
		return "", f.err
	}
	return "run-1", nil
}

type fakePublishRepo struct {
	target types.PublishTarget
	files  []string
	failOn string
}

func (f *fakePublishRepo) Publish(_ context.Context, target types.PublishTarget, files []string) ([]entity.PublishedObject, error) {
	f.target = target
	f.files = files
	var out []entity.PublishedObject
	failed := 0
	for _, file := range files {
		obj := entity.PublishedObject{File: file, Bucket: target.Bucket, Key: "k/" + file}
		if f.failOn != "" && strings.HasSuffix(file, f.failOn) {
			obj.Error = "access denied"
			failed++
		}
		out = append(out, obj)
	}
	if failed > 0 {
		return out, fmt.Errorf("%d of %d uploads failed", failed, len(files))
	}
	return out, nil
}

type fakeConsole struct {
	infos, warnings, errors, successes []string
	printed                            []string
	panels                             []string
	trends                             []string
	progress                           *fakeProgress
	statuses                           []string
}

func (c *fakeConsole) Print(a ...interface{})                 { c.printed = append(c.printed, fmt.Sprint(a...)) }
func (c *fakeConsole) Printf(format string, a ...interface{}) { c.printed = append(c.printed, fmt.Sprintf(format, a...)) }
func (c *fakeConsole) Println(a ...interface{})               { c.printed = append(c.printed, fmt.Sprint(a...)) }
func (c *fakeConsole) LogInfo(format string, a ...interface{}) {
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogWarning(format string, a ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) Status(message string) types.StatusHandle {
	c.statuses = append(c.statuses, message)
	return fakeHandle{}
}
func (c *fakeConsole) ProgressWithTotal(total int) types.ProgressHandle {
	c.progress = &fakeProgress{total: total}
	return c.progress
}
func (c *fakeConsole) CreateTable() types.TableInterface { return &fakeTable{} }
func (c *fakeConsole) DisplayTrendBars(title string, _ []types.MonthlyValue, _ string) {
	c.trends = append(c.trends, title)
}
func (c *fakeConsole) DisplayPanel(title string, content string) {
	c.panels = append(c.panels, title+"\n"+content)
}

type fakeHandle struct{}

func (fakeHandle) Update(string) {}
func (fakeHandle) Stop()         {}

type fakeProgress struct {
	total, done int
	stopped     bool
}

func (p *fakeProgress) Increment() { p.done++ }
func (p *fakeProgress) Stop()      { p.stopped = true }

type fakeTable struct {
	columns []string
	rows    []string
}

func (t *fakeTable) AddColumn(name string, _ ...interface{}) { t.columns = append(t.columns, name) }
func (t *fakeTable) AddRow(cells ...interface{})              { t.rows = append(t.rows, fmt.Sprint(cells...)) }
func (t *fakeTable) Render() string {
	return strings.Join(t.columns, "|") + "\n" + strings.Join(t.rows, "\n")
}
