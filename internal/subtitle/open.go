package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// subtitle file loaded from disk
type Document struct {
	Path    string
	Format  Format
	Store   Store
	Skipped []SkippedBlock
}

func Open(path string, ids IDGenerator) (*Document, error) {
	var parse func(string, IDGenerator) ParseResult
	var format Format

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		parse, format = ParseSRT, FormatSRT
	case ".vtt":
		parse, format = ParseVTT, FormatVTT
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(string(format)), err)
	}

	result := parse(string(data), ids)
	return &Document{
		Path:    path,
		Format:  format,
		Store:   result.Store,
		Skipped: result.Skipped,
	}, nil
}
