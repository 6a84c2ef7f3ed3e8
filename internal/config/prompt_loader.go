package config

import (
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"hrpilot/internal/types"
)

// PromptSource tells where an override template came from.
type PromptSource string

const (
	PromptFromFile   PromptSource = "file"
	PromptFromConfig PromptSource = "config"
	PromptBuiltIn    PromptSource = "default"
)

// PromptStore holds prompt template overrides keyed by tool name. File
// contents can be reloaded while the process runs.
type PromptStore struct {
	mu        sync.RWMutex
	templates map[string]string
	files     map[string]string
	loaded    map[string]string
}

// NewPromptStore loads every configured prompt file.
func NewPromptStore(cfg PromptConfig) (*PromptStore, error) {
	log.Println("[CONFIG] Starting custom prompt loading")

	store := &PromptStore{
		templates: make(map[string]string),
		files:     make(map[string]string),
		loaded:    make(map[string]string),
	}
	for tool, tmpl := range cfg.Templates {
		if strings.TrimSpace(tmpl) != "" {
			store.templates[tool] = tmpl
		}
	}
	for tool, path := range cfg.Files {
		if path == "" {
			continue
		}
		store.files[tool] = path
		content, err := loadPromptFromFile(path, tool)
		if err != nil {
			return nil, err
		}
		store.loaded[tool] = content
	}

	store.logPromptLoadingSummary()
	return store, nil
}

// Lookup returns the override for a tool. When there is none, the source is
// PromptBuiltIn and the template is empty.
func (s *PromptStore) Lookup(tool string) (string, PromptSource) {
	if s == nil {
		return "", PromptBuiltIn
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if content, ok := s.loaded[tool]; ok {
		return content, PromptFromFile
	}
	if tmpl, ok := s.templates[tool]; ok {
		return tmpl, PromptFromConfig
	}
	return "", PromptBuiltIn
}

// Snapshot returns the effective override of every tool that has one.
func (s *PromptStore) Snapshot() map[string]string {
	if s == nil {
		return map[string]string{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := maps.Clone(s.templates)
	maps.Copy(out, s.loaded)
	return out
}

// Files returns the tool to path mapping of file-backed prompts.
func (s *PromptStore) Files() map[string]string {
	if s == nil {
		return map[string]string{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.files)
}

// ReloadPath re-reads every prompt backed by path. A file that became empty
// or unreadable keeps its previous content.
func (s *PromptStore) ReloadPath(path string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reloaded []string
	var errs []string
	for tool, file := range s.files {
		if !samePath(file, path) {
			continue
		}
		content, err := loadPromptFromFile(file, tool)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		s.loaded[tool] = content
		reloaded = append(reloaded, tool)
	}
	slices.Sort(reloaded)

	if len(errs) > 0 {
		return reloaded, fmt.Errorf("prompt reload failed:\n%s", strings.Join(errs, "\n"))
	}
	return reloaded, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, tool string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", tool, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s prompt file not found: %s", tool, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", tool, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", tool, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)",
		tool, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles checks tool names and that prompt files exist before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for tool := range c.AI.Prompts.Templates {
		if _, err := types.ParseToolKind(tool); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("prompt template: %v", err))
		}
	}

	for tool, filePath := range c.AI.Prompts.Files {
		if _, err := types.ParseToolKind(tool); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("prompt file: %v", err))
			continue
		}
		if filePath == "" {
			continue
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt: %s", tool, filePath))
			continue
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt file not found: %s", tool, absPath))
		}
	}

	if len(validationErrors) > 0 {
		slices.Sort(validationErrors)
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (s *PromptStore) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	tools := slices.Sorted(maps.Keys(s.Snapshot()))
	for _, tool := range tools {
		_, source := s.Lookup(tool)
		log.Printf("[CONFIG] %s prompt: loaded from %s", tool, source)
	}

	if len(tools) == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", len(tools))
	}

	log.Println("[CONFIG] ==========================================")
}
