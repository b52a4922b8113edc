package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

const stagingPattern = ".sms-kpi-staging-*"

// Stage cria um diretório temporário dentro do diretório de saída. Os
// exportadores gravam nele e nada aparece em target.Dir antes do Commit.
func (r *ExportRepositoryImpl) Stage(target types.OutputTarget) (types.OutputTarget, error) {
	dir, err := outputDir(target)
	if err != nil {
		return types.OutputTarget{}, err
	}
	staging, err := os.MkdirTemp(dir, stagingPattern)
	if err != nil {
		return types.OutputTarget{}, fmt.Errorf("error creating staging directory in '%s': %w", dir, err)
	}
	staged := target
	staged.Dir = staging
	return staged, nil
}

// Commit move os arquivos preparados para final.Dir. Conflitos são
// verificados antes de qualquer rename; se um rename falhar, os arquivos já
// movidos são removidos.
func (r *ExportRepositoryImpl) Commit(staged, final types.OutputTarget, files []string) ([]string, error) {
	dir, err := outputDir(final)
	if err != nil {
		return nil, err
	}

	dests := make([]string, len(files))
	for i, f := range files {
		dests[i] = filepath.Join(dir, filepath.Base(f))
		if info, err := os.Lstat(dests[i]); err == nil && info.IsDir() {
			return nil, fmt.Errorf("cannot replace '%s': is a directory", dests[i])
		}
	}

	moved := make([]string, 0, len(files))
	for i, f := range files {
		if err := os.Rename(f, dests[i]); err != nil {
			for _, m := range moved {
				os.Remove(m)
			}
			return nil, fmt.Errorf("error moving %s into place: %w", filepath.Base(f), err)
		}
		abs, err := filepath.Abs(dests[i])
		if err != nil {
			abs = dests[i]
		}
		moved = append(moved, abs)
	}

	os.RemoveAll(staged.Dir)
	return moved, nil
}

// Discard apaga o diretório de preparação e tudo o que foi gravado nele.
func (r *ExportRepositoryImpl) Discard(staged types.OutputTarget) error {
	if staged.Dir == "" {
		return nil
	}
	return os.RemoveAll(staged.Dir)
}

// outputDir resolve o diretório de saída e o cria se necessário.
func outputDir(target types.OutputTarget) (string, error) {
	dir := target.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return "", fmt.Errorf("output path '%s' is not a directory", dir)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("error accessing output directory '%s': %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	return dir, nil
}
