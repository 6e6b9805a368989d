package subtitle

import (
	"strings"
)

// ParseVTT reads WebVTT content. The header, NOTE, STYLE and REGION blocks
// are ignored; cue identifiers are used as ids when unique.
func ParseVTT(content string, ids IDGenerator) ParseResult {
	builder := newCueBuilder(ids)

	for i, cue := range splitCues(content) {
		first := strings.TrimSpace(cue.lines[0])

		if i == 0 && strings.HasPrefix(first, "WEBVTT") {
			// header metadata may run straight into the first cue
			rest := cue.lines[1:]
			for len(rest) > 0 && !strings.Contains(rest[0], timingArrow) &&
				(len(rest) < 2 || !strings.Contains(rest[1], timingArrow)) {
				rest = rest[1:]
			}
			if len(rest) == 0 {
				continue
			}
			cue.lines = rest
			first = strings.TrimSpace(cue.lines[0])
		}

		if isVTTMetadataBlock(first) {
			continue
		}
		builder.add(cue, false)
	}

	return builder.result()
}

func isVTTMetadataBlock(firstLine string) bool {
	for _, keyword := range []string{"NOTE", "STYLE", "REGION"} {
		if firstLine == keyword || strings.HasPrefix(firstLine, keyword+" ") ||
			strings.HasPrefix(firstLine, keyword+"\t") {
			return true
		}
	}
	return false
}
