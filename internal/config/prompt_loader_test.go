package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPromptStore_Precedence(t *testing.T) {
	dir := t.TempDir()
	fileBacked := writeFile(t, dir, "jd.md", "  From file %[1]s  \n")

	store, err := NewPromptStore(PromptConfig{
		Templates: map[string]string{
			"analyze_jd": "From config %[1]s",
			"job_post":   "Post template",
			"sentiment":  "   ",
		},
		Files: map[string]string{"analyze_jd": fileBacked},
	})
	require.NoError(t, err)

	content, source := store.Lookup("analyze_jd")
	assert.Equal(t, "From file %[1]s", content)
	assert.Equal(t, PromptFromFile, source)

	content, source = store.Lookup("job_post")
	assert.Equal(t, "Post template", content)
	assert.Equal(t, PromptFromConfig, source)

	_, source = store.Lookup("sentiment")
	assert.Equal(t, PromptBuiltIn, source, "blank templates are ignored")

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 2)
	snapshot["analyze_jd"] = "mutated"
	content, _ = store.Lookup("analyze_jd")
	assert.Equal(t, "From file %[1]s", content)
}

func TestNewPromptStore_FileErrors(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.md", " \n\t")

	_, err := NewPromptStore(PromptConfig{Files: map[string]string{"job_post": empty}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")

	_, err = NewPromptStore(PromptConfig{Files: map[string]string{"job_post": filepath.Join(dir, "missing.md")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPromptStore_ReloadPath(t *testing.T) {
	dir := t.TempDir()
	shared := writeFile(t, dir, "shared.md", "v1")

	store, err := NewPromptStore(PromptConfig{Files: map[string]string{
		"welcome_email": shared,
		"job_post":      shared,
	}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(shared, []byte("v2"), 0600))
	tools, err := store.ReloadPath(shared)
	require.NoError(t, err)
	assert.Equal(t, []string{"job_post", "welcome_email"}, tools)

	content, _ := store.Lookup("welcome_email")
	assert.Equal(t, "v2", content)

	require.NoError(t, os.WriteFile(shared, []byte(""), 0600))
	_, err = store.ReloadPath(shared)
	assert.Error(t, err)
	content, _ = store.Lookup("job_post")
	assert.Equal(t, "v2", content, "a failed reload keeps the last good template")
}

func TestNilPromptStore(t *testing.T) {
	var store *PromptStore
	content, source := store.Lookup("analyze_jd")
	assert.Empty(t, content)
	assert.Equal(t, PromptBuiltIn, source)
	assert.Empty(t, store.Snapshot())
}

func TestValidatePromptFiles(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.md", "content")

	cfg := &Config{AI: AIConfig{Prompts: PromptConfig{Files: map[string]string{
		"score_cv":   valid,
		"sentiment":  filepath.Join(dir, "nope.md"),
		"unknown_op": valid,
	}}}}

	err := cfg.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentiment prompt file not found")
	assert.Contains(t, err.Error(), "unknown_op")
	assert.NotContains(t, err.Error(), "score_cv")
}
