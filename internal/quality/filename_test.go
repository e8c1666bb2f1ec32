package quality

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"forbidden characters", `Video:<Test>/Name?`, "Video__Test__Name_"},
		{"spaces are kept", `Video: <Test>/Name?`, "Video_ _Test__Name_"},
		{"all forbidden characters", `<>:"/\|?*`, "_________"},
		{"clean title", "Just a title", "Just a title"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.title))
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("a", 250)
	assert.Len(t, SanitizeFilename(long), MaxFilenameLength)

	exact := strings.Repeat("b", MaxFilenameLength)
	assert.Equal(t, exact, SanitizeFilename(exact))

	multibyte := strings.Repeat("é", 150)
	assert.Equal(t, MaxFilenameLength, utf8.RuneCountInString(SanitizeFilename(multibyte)))
}

func TestOutputTemplate(t *testing.T) {
	got := OutputTemplate("downloads", "A/B")
	assert.Equal(t, filepath.Join("downloads", "A_B.%(ext)s"), got)
}
