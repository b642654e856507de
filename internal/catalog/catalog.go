// Package catalog holds the fixed list of selectable models.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model is one selectable entry.
type Model struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Catalog is an ordered, read-only list of models. Safe for concurrent reads.
type Catalog struct {
	models []Model
}

var defaultModels = []Model{
	{"gemini-2.5-pro", "Gemini 2.5 Pro"},
	{"gemini-2.5-flash", "Gemini 2.5 Flash"},
	{"gemini-2.5-flash-lite", "Gemini 2.5 Flash Lite"},
	{"gemini-live-2.5-flash-preview", "Gemini 2.5 Flash Live"},
	{"gemini-2.5-flash-preview-native-audio-dialog", "Gemini 2.5 Flash Native Audio"},
	{"gemini-2.5-flash-preview-tts", "Gemini 2.5 Flash Text-to-Speech"},
	{"gemini-2.5-pro-preview-tts", "Gemini 2.5 Pro Text-to-Speech"},
	{"gemini-2.0-flash", "Gemini 2.0 Flash"},
	{"gemini-2.0-flash-preview-image-generation", "Gemini 2.0 Flash Image Generation"},
	{"gemini-2.0-flash-lite", "Gemini 2.0 Flash Lite"},
	{"gemini-2.0-flash-live-001", "Gemini 2.0 Flash Live"},
	{"gemini-1.5-flash", "Gemini 1.5 Flash"},
	{"gemini-1.5-flash-8b", "Gemini 1.5 Flash-8B"},
	{"gemini-1.5-pro", "Gemini 1.5 Pro"},
}

// Default returns the built-in Gemini catalog.
func Default() *Catalog {
	c, _ := New(defaultModels)
	return c
}

// New copies models into a catalog. It fails on an empty list or an entry
// without an id. A missing display name falls back to the id.
func New(models []Model) (*Catalog, error) {
	if len(models) == 0 {
		return nil, errors.New("catalog: no models")
	}
	out := make([]Model, len(models))
	for i, m := range models {
		if m.ID == "" {
			return nil, fmt.Errorf("catalog: entry %d has no id", i)
		}
		if m.Name == "" {
			m.Name = m.ID
		}
		out[i] = m
	}
	return &Catalog{models: out}, nil
}

type file struct {
	Models []Model `yaml:"models"`
}

// Load reads a catalog from a YAML file of the form:
//
//	models:
//	  - id: gemini-2.5-flash
//	    name: Gemini 2.5 Flash
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(f.Models)
}

// Models returns a copy of the entries in order.
func (c *Catalog) Models() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// DefaultID is the id of the first entry.
func (c *Catalog) DefaultID() string {
	return c.models[0].ID
}
