package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/repository"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// defaultConfigNames são procurados, nesta ordem, quando nenhum arquivo é informado.
var defaultConfigNames = []string{
	"sms-kpi.yaml",
	"sms-kpi.yml",
	"sms-kpi.toml",
	"sms-kpi.json",
}

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// FindConfigFile procura um arquivo de configuração padrão no diretório.
func (r *ConfigRepositoryImpl) FindConfigFile(dir string) string {
	for _, name := range defaultConfigNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(fileData)).Strict(true)
		if err := decoder.Decode(&config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(fileData))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(fileData))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	if config.TopTypes != nil && *config.TopTypes < 0 {
		return nil, fmt.Errorf("invalid top_types %d in %s: must not be negative", *config.TopTypes, filePath)
	}

	return &config, nil
}
