package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Output file names. Directories are configurable; names are fixed.
const (
	QuarterChartFile = "grafico_barras_ocorrencias_trimestre_ano.png"
	YearChartFile    = "grafico_barras_ocorrencias_ano.png"
	WorkbookFile     = "contagem_trimestre_ano.xlsx"
	ReportFile       = "relatorio_ocorrencias.pdf"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	InputPath           string
	CleanedPath         string
	PartitionDir        string
	PartitionCleanStale bool
	ChartDir            string
	ReportDir           string

	BoundingBox     domain.BoundingBox
	CoordinateCheck domain.CoordinateCheck

	// MetricsTextfile, when set, receives a Prometheus text dump after each run.
	MetricsTextfile string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables (optionally .env),
// applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cleanStale, err := parseBool("PARTITION_CLEAN_STALE", "true")
	if err != nil {
		return nil, err
	}

	box, err := parseBoundingBox()
	if err != nil {
		return nil, err
	}

	check, err := domain.ParseCoordinateCheck(sharedcfg.EnvOrDefault("COORDINATE_CHECK", string(domain.CheckStrict)))
	if err != nil {
		return nil, fmt.Errorf("invalid COORDINATE_CHECK: %w", err)
	}

	cfg := &Config{
		InputPath:           sharedcfg.EnvOrDefault("INPUT_PATH", "./base/base.csv"),
		CleanedPath:         sharedcfg.EnvOrDefault("CLEANED_PATH", "./base_tratada.csv"),
		PartitionDir:        sharedcfg.EnvOrDefault("PARTITION_DIR", "./base/dados_por_ano"),
		PartitionCleanStale: cleanStale,
		ChartDir:            sharedcfg.EnvOrDefault("CHART_DIR", "./dados/images"),
		ReportDir:           sharedcfg.EnvOrDefault("REPORT_DIR", "./dados/relatorios"),
		BoundingBox:         box,
		CoordinateCheck:     check,
		MetricsTextfile:     sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
	}

	if strings.TrimSpace(cfg.InputPath) == "" {
		return nil, errors.New("INPUT_PATH is required")
	}
	if strings.TrimSpace(cfg.CleanedPath) == "" {
		return nil, errors.New("CLEANED_PATH is required")
	}
	if strings.TrimSpace(cfg.PartitionDir) == "" {
		return nil, errors.New("PARTITION_DIR is required")
	}

	return cfg, nil
}

// CleanOptions returns the settings for domain.Clean.
func (c *Config) CleanOptions() domain.CleanOptions {
	return domain.CleanOptions{Box: c.BoundingBox, Check: c.CoordinateCheck}
}

func (c *Config) QuarterChartPath() string { return filepath.Join(c.ChartDir, QuarterChartFile) }

func (c *Config) YearChartPath() string { return filepath.Join(c.ChartDir, YearChartFile) }

func (c *Config) WorkbookPath() string { return filepath.Join(c.ReportDir, WorkbookFile) }

func (c *Config) ReportPath() string { return filepath.Join(c.ReportDir, ReportFile) }

func parseBoundingBox() (domain.BoundingBox, error) {
	def := domain.BeloHorizonte
	var box domain.BoundingBox
	var err error

	if box.MinLat, err = parseFloat("LAT_MIN", def.MinLat); err != nil {
		return box, err
	}
	if box.MaxLat, err = parseFloat("LAT_MAX", def.MaxLat); err != nil {
		return box, err
	}
	if box.MinLon, err = parseFloat("LON_MIN", def.MinLon); err != nil {
		return box, err
	}
	if box.MaxLon, err = parseFloat("LON_MAX", def.MaxLon); err != nil {
		return box, err
	}

	if box.MinLat >= box.MaxLat {
		return box, errors.New("LAT_MIN must be less than LAT_MAX")
	}
	if box.MinLon >= box.MaxLon {
		return box, errors.New("LON_MIN must be less than LON_MAX")
	}
	return box, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatFloat(def, 'f', -1, 64))
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseBool(key, def string) (bool, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}
