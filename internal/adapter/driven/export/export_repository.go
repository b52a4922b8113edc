package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/repository"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

// Nomes base dos arquivos de pacote único.
const (
	reportBaseName    = "kpi_report"
	dashboardBaseName = "kpi_dashboard"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// ExportToCSV grava uma tabela por arquivo. Os arquivos são escritos com nomes
// temporários e só são renomeados depois que todas as tabelas foram gravadas,
// para que uma falha no meio não deixe um conjunto parcial no diretório.
func (r *ExportRepositoryImpl) ExportToCSV(report *entity.Report, target types.OutputTarget) ([]string, error) {
	tables := reportTables(report)
	stamp := stampOf(report)

	type pending struct{ tmp, final string }
	staged := make([]pending, 0, len(tables))
	cleanup := func() {
		for _, p := range staged {
			os.Remove(p.tmp)
		}
	}

	for _, t := range tables {
		outputFilename, err := generateFilename(baseName(target.Prefix, t.name), target, "csv", stamp)
		if err != nil {
			cleanup()
			return nil, err
		}
		tmp, err := writeCSVTemp(filepath.Dir(outputFilename), t)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("error writing %s CSV: %w", t.name, err)
		}
		staged = append(staged, pending{tmp: tmp, final: outputFilename})
	}

	generatedFiles := make([]string, 0, len(staged))
	for i, p := range staged {
		if err := os.Rename(p.tmp, p.final); err != nil {
			for _, rest := range staged[i:] {
				os.Remove(rest.tmp)
			}
			return generatedFiles, fmt.Errorf("error renaming %s: %w", p.final, err)
		}
		abs, err := filepath.Abs(p.final)
		if err != nil {
			return generatedFiles, err
		}
		generatedFiles = append(generatedFiles, abs)
	}
	return generatedFiles, nil
}

func writeCSVTemp(dir string, t flatTable) (path string, err error) {
	file, err := os.CreateTemp(dir, "."+t.name+"-*.tmp")
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(file.Name())
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.header); err != nil {
		return "", err
	}
	if err := writer.WriteAll(t.rows); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ExportToJSON grava o relatório completo como um único documento.
func (r *ExportRepositoryImpl) ExportToJSON(report *entity.Report, target types.OutputTarget) (string, error) {
	outputFilename, err := generateFilename(baseName(target.Prefix, reportBaseName), target, "json", stampOf(report))
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		file.Close()
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("error closing JSON file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

func baseName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

// stampOf usa o horário de geração do relatório para que todos os arquivos
// de uma execução tenham o mesmo sufixo.
func stampOf(report *entity.Report) time.Time {
	if report.GeneratedAt.IsZero() {
		return time.Now()
	}
	return report.GeneratedAt
}

// generateFilename monta o nome do arquivo, com timestamp opcional, e garante que o diretório exista.
func generateFilename(base string, target types.OutputTarget, ext string, stamp time.Time) (string, error) {
	dir, err := outputDir(target)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s.%s", base, ext)
	if target.Timestamp {
		filename = fmt.Sprintf("%s_%s.%s", base, stamp.Format("20060102_150405"), ext)
	}
	return filepath.Join(dir, filename), nil
}
