package diff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// RenderResource produces a unified diff between the before and after
// snapshots of a remote resource. Both maps are pretty-printed as JSON
// (map keys sort deterministically) before diffing. Returns an empty
// string when the two snapshots are identical.
func RenderResource(before, after map[string]any, beforeLabel, afterLabel string) (string, error) {
	beforeJSON, err := marshalSnapshot(before)
	if err != nil {
		return "", err
	}
	afterJSON, err := marshalSnapshot(after)
	if err != nil {
		return "", err
	}
	return GenerateUnifiedDiff(beforeJSON, afterJSON, beforeLabel, afterLabel), nil
}

func marshalSnapshot(resource map[string]any) ([]byte, error) {
	if resource == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(resource, "", "  ")
}

// GenerateUnifiedDiff generates a unified diff format output comparing the
// expected and actual content. Returns empty string if content is identical.
// Truncates diffs exceeding 10,000 lines with a truncation marker.
func GenerateUnifiedDiff(expected, actual []byte, expectedLabel, actualLabel string) string {
	if bytes.Equal(expected, actual) {
		return ""
	}

	dmp := diffmatchpatch.New()

	expectedStr := string(expected)
	actualStr := string(actual)

	diffs := dmp.DiffMain(expectedStr, actualStr, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "--- %s\n", expectedLabel)
	fmt.Fprintf(&buf, "+++ %s\n", actualLabel)

	expectedLines := strings.Split(expectedStr, "\n")
	actualLines := strings.Split(actualStr, "\n")
	fmt.Fprintf(&buf, "@@ -1,%d +1,%d @@\n", len(expectedLines), len(actualLines))

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}

		for _, line := range splitDiffLines(d.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}

	result := buf.String()
	lines := strings.Split(result, "\n")
	if len(lines) > maxDiffLines {
		truncated := strings.Join(lines[:maxDiffLines], "\n")
		return truncated + "\n" + truncateMessage + "\n"
	}

	return result
}

func splitDiffLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" && strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
