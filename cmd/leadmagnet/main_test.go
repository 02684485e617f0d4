package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leadmagnet "github.com/lvillar/leadmagnet"
)

const checklistYAML = `businessName: Acme Fitness
niche: Fitness/Health
websiteUrl: https://acme.example
checklistTitle: 30 Day Kickstart
items:
  - item: Set a goal
    description: Focus.
  - item: Book sessions
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func writeForm(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "render", "-t", "checklist", "-f", writeForm(t, checklistYAML), "-o", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "acme-fitness-checklist.pdf")
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderCommandKeepsFilesInOutputDir(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"Acme/Fitness", "acme-fitness-checklist.pdf"},
		{"../../escaped", "escaped-checklist.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			outDir := filepath.Join(root, "a", "b", "out")
			body := strings.Replace(checklistYAML, "businessName: Acme Fitness", fmt.Sprintf("businessName: %q", tt.name), 1)

			_, err := execute(t, "render", "-t", "checklist", "-f", writeForm(t, body), "-o", outDir)
			require.NoError(t, err)

			entries, err := os.ReadDir(outDir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Name())
			_, err = os.Stat(filepath.Join(root, "a", tt.want))
			assert.True(t, os.IsNotExist(err), "artifact written outside the output directory")
		})
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	_, err := execute(t, "render", "-t", "checklist", "-f", writeForm(t, checklistYAML), "--format", "html", "-o", t.TempDir())
	assert.ErrorIs(t, err, leadmagnet.ErrUnsupportedFormat)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "-t", "checklist", "-f", writeForm(t, checklistYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "Action Checklist form is complete")

	incomplete := strings.Replace(checklistYAML, "checklistTitle: 30 Day Kickstart\n", "", 1)
	_, err = execute(t, "validate", "-t", "checklist", "-f", writeForm(t, incomplete))
	var ve *leadmagnet.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Checklist title"}, ve.Missing)
}

func TestUnknownType(t *testing.T) {
	_, err := execute(t, "validate", "-t", "webinar", "-f", writeForm(t, checklistYAML))
	assert.ErrorIs(t, err, leadmagnet.ErrUnknownType)
}

func TestAutofillCommandNeedsKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := execute(t, "autofill", "-t", "checklist", "-f", writeForm(t, checklistYAML))
	assert.ErrorIs(t, err, leadmagnet.ErrNotConfigured)
}

func TestTypesCommand(t *testing.T) {
	out, err := execute(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "value-calculator")
	assert.Contains(t, out, "Restaurant/Food")
}
