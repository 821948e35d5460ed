package csvfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/cable-theft-etl/internal/domain"
	"github.com/go-gota/gota/dataframe"
)

// Delimiter separates fields in every input and output file.
const Delimiter = ';'

// ReadError reports a failed import. Its message is the diagnostic shown to
// the operator.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	if errors.Is(e.Err, domain.ErrInputNotFound) {
		return "Arquivo não encontrado: " + e.Path
	}
	return "Erro ao ler o arquivo: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error { return e.Err }

// Reader loads semicolon-delimited files into domain tables.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a Reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read loads the file at path. Every cell is kept as text. On failure the
// returned table is the zero value and the error is a *ReadError.
func (r *Reader) Read(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", domain.ErrInputNotFound, path)
		}
		r.logger.Error("open input failed", "path", path, "error", err)
		return domain.Table{}, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(Delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		r.logger.Error("parse input failed", "path", path, "error", df.Err)
		return domain.Table{}, &ReadError{Path: path, Err: df.Err}
	}

	records := df.Records()
	if len(records) == 0 {
		return domain.Table{}, &ReadError{Path: path, Err: domain.ErrEmptyTable}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := domain.NewTable(header, records[1:])
	r.logger.Info("table loaded", "path", path, "rows", t.Len(), "columns", len(t.Header))
	return t, nil
}
