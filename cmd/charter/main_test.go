package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanedCSV = "data_hora;trimestre_ano;ano;geometry\n" +
	"2020-01-10 10:00:00;1/2020;2020;POINT(-43.9 -19.9)\n" +
	"2020-08-10 10:00:00;3/2020;2020;POINT(-43.9 -19.9)\n" +
	"2021-05-10 10:00:00;2/2021;2021;POINT(-43.9 -19.9)\n"

func setEnv(t *testing.T, dir string) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv("CLEANED_PATH", filepath.Join(dir, "base_tratada.csv"))
	t.Setenv("CHART_DIR", filepath.Join(dir, "images"))
	t.Setenv("REPORT_DIR", filepath.Join(dir, "relatorios"))
	t.Setenv("METRICS_TEXTFILE", "")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
}

func TestRun_ListsGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base_tratada.csv"), []byte(cleanedCSV), 0o644))

	var out bytes.Buffer
	require.Equal(t, 0, run(&out))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "Gerado: "), line)
		assert.FileExists(t, strings.TrimPrefix(line, "Gerado: "))
	}
}

func TestRun_MissingCleanedTable(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, dir)

	var out bytes.Buffer
	require.Equal(t, 1, run(&out))

	assert.Equal(t, "Arquivo não encontrado: "+filepath.Join(dir, "base_tratada.csv")+"\n", out.String())
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))
}
