package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodForm = `
id: feedback
title: Feedback
fields:
  - name: comment
    label: Comment
    kind: notempty
`

func writeForm(t *testing.T, root, comp, file, body string) {
	t.Helper()
	dir := filepath.Join(root, "components", comp, "forms")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLintReportsEveryFile(t *testing.T) {
	root := t.TempDir()
	writeForm(t, root, "a", "feedback.yaml", goodForm)
	writeForm(t, root, "b", "broken.yaml", "id: Bad ID\nfields: []\n")

	out, err := run(t, "lint", root)
	assert.Error(t, err)
	assert.Contains(t, out, "ok   ")
	assert.Contains(t, out, "FAIL ")
}

func TestLintClean(t *testing.T) {
	root := t.TempDir()
	writeForm(t, root, "a", "feedback.yaml", goodForm)

	out, err := run(t, "lint", root)
	require.NoError(t, err)
	assert.Contains(t, out, "1 definitions ok")
}

func TestRenderTranslates(t *testing.T) {
	root := t.TempDir()
	writeForm(t, root, "a", "feedback.yaml", goodForm)

	out, err := run(t, "render", root, "feedback", "--lang", "ru")
	require.NoError(t, err)
	assert.Contains(t, out, `action="/forms/feedback"`)
	assert.Contains(t, out, `id="fld-comment"`)
	assert.Contains(t, out, "Отправить")
}

func TestRenderUnknownForm(t *testing.T) {
	_, err := run(t, "render", t.TempDir(), "nope")
	assert.Error(t, err)
}
