package language

import (
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  language.Tag
	}{
		{"empty", nil, Default},
		{"no stopwords", []string{"Zyx qwv", "123"}, Default},
		{"english", []string{"What is the point of this?", "You have to see it."}, language.AmericanEnglish},
		{"portuguese", []string{"Você não sabe o que é isso.", "Então vamos para a casa."}, language.BrazilianPortuguese},
		{"spanish", []string{"El perro y la casa en el campo.", "Lo hizo por el niño."}, language.Spanish},
		{"french", []string{"Je ne sais pas.", "Vous êtes le premier et il est là."}, language.French},
		{"case insensitive", []string{"THE END OF THE ROAD AND THE START"}, language.AmericanEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.texts); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		want string
	}{
		{language.BrazilianPortuguese, "PT-BR"},
		{language.AmericanEnglish, "EN-US"},
		{language.BritishEnglish, "EN-UK"},
		{language.Spanish, "ES"},
		{language.French, "FR"},
	}
	for _, tt := range tests {
		if got := Label(tt.tag); got != tt.want {
			t.Errorf("Label(%v): got %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestParseLabel(t *testing.T) {
	for _, label := range []string{"PT-BR", "EN-US", "EN-UK", "ES", "FR"} {
		tag, err := ParseLabel(label)
		if err != nil {
			t.Errorf("ParseLabel(%q): %v", label, err)
			continue
		}
		if got := Label(tag); got != label {
			t.Errorf("round trip %q: got %q", label, got)
		}
	}

	if tag, err := ParseLabel("en-uk"); err != nil || tag != language.BritishEnglish {
		t.Errorf("ParseLabel(en-uk): got %v, %v", tag, err)
	}
	if _, err := ParseLabel("not a tag!"); err == nil {
		t.Error("expected error for invalid label")
	}
}

func TestName(t *testing.T) {
	if got := Name(language.French); got != "French" {
		t.Errorf("got %q, want French", got)
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		source string
		label  string
		suffix Suffix
		ext    string
		want   string
	}{
		{"talk.srt", "EN-US", SuffixEdited, ".srt", "talk_EN-US_edited.srt"},
		{"talk.srt", "PT-BR", SuffixFormatted, "vtt", "talk_PT-BR_formatted.vtt"},
		{filepath.Join("subs", "ep1.en.srt"), "ES", SuffixEdited, ".srt", filepath.Join("subs", "ep1.en_ES_edited.srt")},
		{"", "FR", SuffixEdited, ".srt", "Subtitles_FR_edited.srt"},
	}
	for _, tt := range tests {
		if got := ExportName(tt.source, tt.label, tt.suffix, tt.ext); got != tt.want {
			t.Errorf("ExportName(%q): got %q, want %q", tt.source, got, tt.want)
		}
	}
}
