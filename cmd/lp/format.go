package main

import (
	"fmt"
	"strings"

	"github.com/zulandar/launchpad/internal/app"
	"github.com/zulandar/launchpad/internal/models"
)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatTags joins tags for table output.
func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ",")
}

// stageLabel renders an idea's pipeline position, e.g. "3/6 Code".
func stageLabel(snap app.Snapshot, ideaID string) string {
	p, ok := snap.PipelineFor(ideaID)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d/%d %s", p.CurrentStage, models.FinalStage, p.StageName)
}
