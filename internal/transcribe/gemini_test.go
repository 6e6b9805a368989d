package transcribe

import (
	"strings"
	"testing"

	"github.com/mgpai22/cuesmith/internal/subtitle"
	"google.golang.org/genai"
)

func geminiResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func TestParseTranscriptionResponse(t *testing.T) {
	tests := []struct {
		name      string
		resp      *genai.GenerateContentResponse
		wantTexts []string
		wantErr   bool
	}{
		{
			name:      "word object",
			resp:      geminiResponse(`{"words": [{"text": "Hello", "start": 0.0, "end": 0.4}, {"text": "world", "start": 0.5, "end": 0.9}]}`),
			wantTexts: []string{"Hello world"},
		},
		{
			name:      "code fenced",
			resp:      geminiResponse("```json\n{\"words\": [{\"text\": \"Fenced\", \"start\": 1, \"end\": 2}]}\n```"),
			wantTexts: []string{"Fenced"},
		},
		{
			name:      "bare array split across parts",
			resp:      geminiResponse(`[{"text": "Split", "start": 0, "end": 1},`, ` {"text": "parts", "start": 1, "end": 2}]`),
			wantTexts: []string{"Split parts"},
		},
		{
			name:    "nil response",
			resp:    nil,
			wantErr: true,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: true,
		},
		{
			name:    "no text",
			resp:    geminiResponse(""),
			wantErr: true,
		},
		{
			name:    "not json",
			resp:    geminiResponse("Sorry, I cannot transcribe this."),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := parseTranscriptionResponse(tt.resp)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", body)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := Ingest(body, subtitle.NewCounterGenerator("w")).Store.Texts()
			if strings.Join(got, "|") != strings.Join(tt.wantTexts, "|") {
				t.Errorf("texts: got %q, want %q", got, tt.wantTexts)
			}
		})
	}
}

func TestBuildTranscriptionPrompt(t *testing.T) {
	prompt := buildTranscriptionPrompt(Options{Language: "Portuguese"})
	if !strings.Contains(prompt, "The audio is in Portuguese.") {
		t.Errorf("language missing from prompt: %s", prompt)
	}
	if !strings.Contains(prompt, `"words"`) {
		t.Errorf("word list shape missing from prompt: %s", prompt)
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{}\n```", "{}"},
		{"```\n[]```", "[]"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tt := range tests {
		if got := cleanJSONResponse(tt.in); got != tt.want {
			t.Errorf("cleanJSONResponse(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
