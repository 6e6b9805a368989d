package subtitle

// ParseSRT reads SubRip content. The index line is advisory: a numeric,
// unused index becomes the block id, anything else gets a generated one.
// Blocks with a malformed timing line are skipped and reported, never fatal.
func ParseSRT(content string, ids IDGenerator) ParseResult {
	builder := newCueBuilder(ids)
	for _, cue := range splitCues(content) {
		builder.add(cue, true)
	}
	return builder.result()
}
