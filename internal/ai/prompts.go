package ai

import (
	"fmt"
	"strings"

	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

// Display names the remote service shows for uploaded files.
const (
	imageDisplayName = "Análisis de Producto"
	videoDisplayName = "Análisis de Video"
)

const imagePromptHeader = "Analiza la imagen y devuelve un JSON con:"
const videoPromptHeader = "Analiza este video y devuelve un JSON con:"

// Prompt returns the instruction sent with a file of the given kind.
func Prompt(kind models.MediaKind) string {
	header := imagePromptHeader
	if kind == models.MediaKindVideo {
		header = videoPromptHeader
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, f := range ExpectedFields(kind) {
		fmt.Fprintf(&b, "- %q\n", f)
	}
	fmt.Fprintf(&b, "Si no se puede determinar un campo, usar %q.\n", models.Undetermined)
	b.WriteString("Responde solo con el objeto JSON.")
	return b.String()
}

func displayName(kind models.MediaKind) string {
	if kind == models.MediaKindVideo {
		return videoDisplayName
	}
	return imageDisplayName
}
