package components

import (
	"fmt"
	"strings"
)

// SummaryData aggregates counts for rendering run summaries.
type SummaryData struct {
	Total     int
	Completed int
	Changed   int
	Failed    int
	Finished  bool
	Cancelled bool
	CheckMode bool
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	var lines []string
	if s.data.Total > 0 {
		lines = append(lines, fmt.Sprintf("Resources: %d/%d reconciled, %d changed", s.data.Completed, s.data.Total, s.data.Changed))
	}

	if s.data.Cancelled {
		lines = append(lines, "Run cancelled")
	} else if s.data.Finished && s.data.Total > 0 {
		switch {
		case s.data.Failed > 0:
			lines = append(lines, fmt.Sprintf("Run finished with %d failure(s)", s.data.Failed))
		case s.data.Completed == s.data.Total:
			lines = append(lines, "Run finished successfully")
		default:
			lines = append(lines, "Run finished with pending resources")
		}
	}

	if s.data.CheckMode {
		lines = append(lines, "Check mode: no changes were applied")
	}

	return strings.Join(lines, "\n")
}
