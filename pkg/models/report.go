package models

// MediaKind is the category of an uploaded file. Its value is the wire value of
// FinalReport.TipoAnalisis.
type MediaKind string

const (
	MediaKindImage MediaKind = "imagen"
	MediaKindVideo MediaKind = "video"
)

// Undetermined is the value a finding takes when the model did not report it.
const Undetermined = "No determinado"

// AnalysisResult holds the named findings of one analysis. Values are whatever
// JSON type the model produced for the field.
type AnalysisResult map[string]any

// FinalReport is the document returned to the caller for one upload.
type FinalReport struct {
	TipoAnalisis  MediaKind      `json:"tipo_analisis"`
	NombreArchivo string         `json:"nombre_archivo"`
	Resultado     AnalysisResult `json:"resultado"`
}
