package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir", "nested")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Create directory
	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Directory should now exist
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestAbsDir(t *testing.T) {
	abs := AbsDir("downloads")
	if !filepath.IsAbs(abs) {
		t.Errorf("Expected absolute path, got %s", abs)
	}
	if filepath.Base(abs) != "downloads" {
		t.Errorf("Expected base 'downloads', got %s", filepath.Base(abs))
	}
}

func TestOpenFolder_NonExistent(t *testing.T) {
	err := OpenFolder(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("Expected error for non-existent folder")
	}
}

func TestOpenFolder_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if err := OpenFolder(file); err == nil {
		t.Error("Expected error when opening a file as folder")
	}
}

func TestFindDownloadedFile(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		base     string
		expected string
		wantErr  bool
	}{
		{
			name:     "single match",
			files:    []string{"My Video.webm"},
			base:     "My Video",
			expected: "My Video.webm",
		},
		{
			name:     "mp4 preferred over webm",
			files:    []string{"My Video.webm", "My Video.mp4"},
			base:     "My Video",
			expected: "My Video.mp4",
		},
		{
			name:     "partial downloads ignored",
			files:    []string{"My Video.mp4.part", "My Video.mkv"},
			base:     "My Video",
			expected: "My Video.mkv",
		},
		{
			name:    "other titles ignored",
			files:   []string{"Other Video.mp4", "My Video 2.mp4"},
			base:    "My Video",
			wantErr: true,
		},
		{
			name:    "empty base",
			files:   []string{"x.mp4"},
			base:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), []byte("data"), 0644); err != nil {
					t.Fatalf("Failed to create %s: %v", f, err)
				}
			}

			got, err := FindDownloadedFile(dir, tt.base)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != filepath.Join(dir, tt.expected) {
				t.Errorf("Expected %s, got %s", filepath.Join(dir, tt.expected), got)
			}
		})
	}
}

func TestFindDownloadedFile_MissingDir(t *testing.T) {
	_, err := FindDownloadedFile(filepath.Join(t.TempDir(), "missing"), "x")
	if err == nil {
		t.Error("Expected error for missing directory")
	}
}
