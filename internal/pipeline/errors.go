package pipeline

// Stage names a pipeline step. It labels metrics and log lines and selects
// the operator diagnostic.
type Stage string

const (
	StageImport    Stage = "import"
	StageClean     Stage = "clean"
	StageGeometry  Stage = "geometry"
	StageExport    Stage = "export"
	StagePartition Stage = "partition"
	StageAggregate Stage = "aggregate"
	StageChart     Stage = "chart"
	StageReport    Stage = "report"
)

var diagnostics = map[Stage]string{
	StageClean:     "Erro ao tratar os dados",
	StageGeometry:  "Erro ao converter as coordenadas",
	StageExport:    "Erro ao exportar os dados",
	StagePartition: "Erro ao separar os dados por ano",
	StageAggregate: "Erro ao agrupar os dados",
	StageChart:     "Erro ao gerar o gráfico",
	StageReport:    "Erro ao gerar o relatório",
}

// StageError is returned by a pipeline run that stopped at Stage. No later
// stage ran.
type StageError struct {
	Stage Stage
	Err   error
}

// Error returns the Portuguese diagnostic shown to the operator. Import
// errors already carry their own.
func (e *StageError) Error() string {
	prefix, ok := diagnostics[e.Stage]
	if !ok {
		return e.Err.Error()
	}
	return prefix + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }
