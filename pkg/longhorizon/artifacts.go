package longhorizon

import (
	"path/filepath"

	"github.com/open-cogeval/cogeval/internal/artifact"
	"github.com/open-cogeval/cogeval/pkg/dialogue"
)

// WriteArtifacts persists ground_truth.json and report.json into dir,
// per spec.md §6's long-horizon artifact list.
func WriteArtifacts(dir string, result dialogue.Result, report *Report) error {
	if err := artifact.WriteJSON(filepath.Join(dir, "ground_truth.json"), NewGroundTruthSummary(result)); err != nil {
		return err
	}
	return artifact.WriteJSON(filepath.Join(dir, "report.json"), report)
}
