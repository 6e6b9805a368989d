package ffmpeg

import (
	"archive/zip"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestAssetForPlatform(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"linux", "amd64", "ffmpeg-6.1-linux-64.zip", false},
		{"linux", "arm64", "ffmpeg-6.1-linux-arm-64.zip", false},
		{"darwin", "amd64", "ffmpeg-6.1-macos-64.zip", false},
		{"windows", "amd64", "ffmpeg-6.1-win-64.zip", false},
		{"plan9", "386", "", true},
	}
	for _, tt := range tests {
		got, err := assetForPlatform(tt.goos, tt.goarch)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s/%s: err %v", tt.goos, tt.goarch, err)
		}
		if got != tt.want {
			t.Errorf("%s/%s: got %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}
}

func TestResolveFromEnv(t *testing.T) {
	t.Setenv(EnvFFmpegPath, "/opt/ff/ffmpeg")
	t.Setenv(EnvFFprobePath, "/opt/ff/ffprobe")

	paths, err := resolve("plan9", "386")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if paths.FFmpeg != "/opt/ff/ffmpeg" || paths.FFprobe != "/opt/ff/ffprobe" {
		t.Errorf("unexpected paths %+v", paths)
	}
}

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
	return path
}

func TestExtractArchive(t *testing.T) {
	suffix := ""
	if runtime.GOOS == "windows" {
		suffix = ".exe"
	}

	archive := writeZip(t, map[string]string{
		"bin/ffmpeg" + suffix:  "ffmpeg-binary",
		"bin/FFPROBE" + suffix: "ffprobe-binary",
		"README.txt":           "ignored",
	})
	dir := t.TempDir()

	if err := extractArchive(archive, dir); err != nil {
		t.Fatalf("extractArchive failed: %v", err)
	}

	paths := BinaryPaths{
		FFmpeg:  filepath.Join(dir, "ffmpeg"+suffix),
		FFprobe: filepath.Join(dir, "ffprobe"+suffix),
	}
	if !binariesExist(paths) {
		t.Fatalf("binaries not extracted into %s", dir)
	}
	data, _ := os.ReadFile(paths.FFmpeg)
	if string(data) != "ffmpeg-binary" {
		t.Errorf("unexpected ffmpeg content %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "README.txt")); !os.IsNotExist(err) {
		t.Error("unrelated entry was extracted")
	}
}

func TestExtractArchiveMissingBinary(t *testing.T) {
	archive := writeZip(t, map[string]string{"ffmpeg": "only one"})
	err := extractArchive(archive, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "missing required binaries") {
		t.Errorf("expected missing binaries error, got %v", err)
	}
}

func TestBinaryName(t *testing.T) {
	tests := map[string]string{
		"ffmpeg":     "ffmpeg",
		"FFmpeg.exe": "ffmpeg",
		"ffprobe":    "ffprobe",
		"ffplay":     "",
		"ffmpeg.txt": "",
		"":           "",
	}
	for in, want := range tests {
		if got := binaryName(in); got != want {
			t.Errorf("binaryName(%q): got %q, want %q", in, got, want)
		}
	}
}
