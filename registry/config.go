package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/modelmux/modelmux/adapter"
)

// ConfigFile is the on-disk registry format. One record per model, in
// declaration order. The same shape decodes from JSON, YAML, and TOML.
type ConfigFile struct {
	Models []ModelConfig `json:"models" yaml:"models" toml:"models"`
}

// ModelConfig is one model record in a registry config file.
type ModelConfig struct {
	// Name is the logical model name, unique across the file.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Vendor is the owning vendor: OpenAI, Anthropic, Gemini, DeepSeek.
	Vendor string `json:"vendor" yaml:"vendor" toml:"vendor"`

	// VendorModelID is the vendor's native model identifier.
	VendorModelID string `json:"vendor_model_id" yaml:"vendor_model_id" toml:"vendor_model_id"`

	// PricePerInputTokens is USD per input token.
	PricePerInputTokens float64 `json:"price_per_input_tokens" yaml:"price_per_input_tokens" toml:"price_per_input_tokens"`

	// PricePerOutputTokens is USD per output token.
	PricePerOutputTokens float64 `json:"price_per_output_tokens" yaml:"price_per_output_tokens" toml:"price_per_output_tokens"`

	// TokensProvided reports whether the vendor returns token usage.
	TokensProvided bool `json:"tokens_provided" yaml:"tokens_provided" toml:"tokens_provided"`

	// Type is the model category: high, budget, reasoning, or none.
	Type string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
}

// Load reads a registry config file and builds a validated Registry.
// The format is chosen by extension: .json, .yaml/.yml, or .toml.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry config: %w", err)
	}

	var cfg ConfigFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported registry config extension %q (want .json, .yaml, or .toml)", ext)
	}

	return FromConfig(cfg)
}

// FromConfig builds a validated Registry from a decoded config.
func FromConfig(cfg ConfigFile) (*Registry, error) {
	if len(cfg.Models) == 0 {
		return nil, fmt.Errorf("registry config declares no models")
	}

	entries := make([]Entry, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		vendor, err := adapter.ParseVendor(m.Vendor)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", m.Name, err)
		}
		category, err := ParseCategory(m.Type)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", m.Name, err)
		}
		entries = append(entries, Entry{
			Name:           m.Name,
			Vendor:         vendor,
			ModelID:        m.VendorModelID,
			InputPrice:     m.PricePerInputTokens,
			OutputPrice:    m.PricePerOutputTokens,
			TokensProvided: m.TokensProvided,
			Category:       category,
		})
	}

	return New(entries)
}
