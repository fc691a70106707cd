package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeExtension(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"report.pdf", ".pdf"},
		{"EVIDENCE.PDF", ".pdf"},
		{"photo.jpeg", ".jpeg"},
		{"archive.7z", ".7z"},
		{"script.sh", ".bin"},
		{"malware.exe", ".bin"},
		{"noextension", ".bin"},
		{"double.tar.gz", ".bin"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SafeExtension(tc.name), "input %q", tc.name)
	}
}

func TestSanitizeDisplayNameStripsPaths(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"../../etc/passwd", "passwd"},
		{"/etc/shadow", "shadow"},
		{`..\..\windows\system32\cmd.exe`, "cmd.exe"},
		{"normal-file_1.pdf", "normal-file_1.pdf"},
		{"um laut ö.pdf", "um_laut__.pdf"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeDisplayName(tc.name), "input %q", tc.name)
	}
}

func TestSanitizeDisplayNameNeverEmpty(t *testing.T) {
	require.NotEmpty(t, SanitizeDisplayName(""))
	require.NotEmpty(t, SanitizeDisplayName("/"))
	require.NotEmpty(t, SanitizeDisplayName("."))
}

func TestSanitizeDisplayNameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 400) + ".pdf"
	require.LessOrEqual(t, len(SanitizeDisplayName(long)), 255)
}

func TestMimeAllowed(t *testing.T) {
	assert.True(t, MimeAllowed("application/pdf"))
	assert.True(t, MimeAllowed("image/png"))
	assert.True(t, MimeAllowed("TEXT/PLAIN"))
	assert.True(t, MimeAllowed("text/csv; charset=utf-8"))

	assert.False(t, MimeAllowed("application/x-msdownload"))
	assert.False(t, MimeAllowed("text/html"))
	assert.False(t, MimeAllowed(""))
}
