package orchestration

import "strings"

// TranscriptBuffer is the text recognized for the current utterance.
type TranscriptBuffer struct {
	Text  string
	Final bool
}

func joinSegments(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment = strings.TrimSpace(segment); segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, " ")
}
