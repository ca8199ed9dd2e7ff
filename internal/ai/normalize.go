package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

var (
	imageFields = []string{
		"contenido_prohibido",
		"informacion_sensible",
		"nombre_producto",
		"marca_producto",
		"descripcion_uso",
	}
	videoFields = []string{
		"tiene_contenido_obsceno",
		"tiene_contenido_racista",
		"tiene_informacion_personal",
		"tiene_contenido_sensible_general",
		"nombre_producto",
		"marca_producto",
		"descripcion_uso",
	}
)

// ExpectedFields returns the findings a report of the given kind always carries.
func ExpectedFields(kind models.MediaKind) []string {
	if kind == models.MediaKindVideo {
		return videoFields
	}
	return imageFields
}

// Normalize decodes the model's raw text into an AnalysisResult. Every expected
// field for kind is present afterwards; missing or null fields are set to
// models.Undetermined and unexpected fields are kept as-is. It fails only when
// raw is not a JSON object.
func Normalize(raw string, kind models.MediaKind) (models.AnalysisResult, error) {
	dec := json.NewDecoder(strings.NewReader(stripFences(raw)))
	dec.UseNumber()

	var result models.AnalysisResult
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: got null", ErrMalformedResponse)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedResponse)
	}

	for _, field := range ExpectedFields(kind) {
		if v, ok := result[field]; !ok || v == nil {
			result[field] = models.Undetermined
		}
	}
	return result, nil
}

// stripFences removes a surrounding markdown code fence, which some models add
// even when asked for bare JSON.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
