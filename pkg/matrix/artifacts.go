package matrix

import (
	"path/filepath"

	"github.com/open-cogeval/cogeval/internal/artifact"
)

// WriteReport persists matrix_report.json into dir.
func WriteReport(dir string, report *Report) error {
	return artifact.WriteJSON(filepath.Join(dir, "matrix_report.json"), report)
}
