// Package config holds the command line and environment options shared by
// all commands, and loads the optional fallback title pool.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Providers configures the LLM backends. Every provider is registered; only
// the ones with credentials (or a reachable host) will answer.
type Providers struct {
	Default string `long:"provider" env:"PROVIDER" default:"groq" choice:"groq" choice:"openai" choice:"ollama" choice:"gemini" description:"default LLM provider"`

	Groq struct {
		Token   string        `long:"token" env:"API_KEY" description:"groq api key"`
		BaseURL string        `long:"base-url" env:"BASE_URL" default:"https://api.groq.com/openai/v1" description:"OpenAI-compatible api root"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"60s" description:"http timeout"`
	} `group:"groq" namespace:"groq" env-namespace:"GROQ"`

	OpenAI struct {
		Token   string        `long:"token" env:"API_KEY" description:"openai api key"`
		BaseURL string        `long:"base-url" env:"BASE_URL" description:"custom api root"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"60s" description:"http timeout"`
	} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`

	Ollama struct {
		Host string `long:"host" env:"HOST" default:"http://localhost:11434" description:"ollama host"`
	} `group:"ollama" namespace:"ollama" env-namespace:"OLLAMA"`

	Gemini struct {
		Token   string `long:"token" env:"API_KEY" description:"gemini api key"`
		BaseURL string `long:"base-url" env:"BASE_URL" description:"custom api root"`
	} `group:"gemini" namespace:"gemini" env-namespace:"GEMINI"`
}

// Wikipedia configures the real article source.
type Wikipedia struct {
	BaseURL      string        `long:"base-url" env:"BASE_URL" default:"https://en.wikipedia.org/api/rest_v1" description:"REST api root"`
	UserAgent    string        `long:"user-agent" env:"USER_AGENT" default:"wikidash/1.0 (https://github.com/kiliankoe/wikidash)" description:"User-Agent sent to wikipedia"`
	Timeout      time.Duration `long:"timeout" env:"TIMEOUT" default:"15s" description:"timeout for a single fetch"`
	ShortExtract int           `long:"short-extract" env:"SHORT_EXTRACT" default:"1000" description:"extracts shorter than this get synthesized sections"`
	FullPage     bool          `long:"full-page" env:"FULL_PAGE" description:"replace the extract with the readable page text"`
}

// Generator configures the fake article source.
type Generator struct {
	Timeout     time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"timeout for a single generation"`
	Temperature float64       `long:"temperature" env:"TEMPERATURE" default:"0.95" description:"sampling temperature"`
	MaxTokens   int           `long:"max-tokens" env:"MAX_TOKENS" default:"3500" description:"max tokens per article"`
	TitlesFile  string        `long:"titles-file" env:"TITLES_FILE" description:"yaml file with fallback titles"`
}

// Common is embedded into every command.
type Common struct {
	Providers Providers `group:"providers" namespace:"providers"`
	Wikipedia Wikipedia `group:"wikipedia" namespace:"wikipedia" env-namespace:"WIKIPEDIA"`
	Generator Generator `group:"generator" namespace:"generator" env-namespace:"GENERATOR"`
	Render    bool      `long:"render" env:"RENDER" description:"render article bodies to html"`
}

// titlesFile is the layout of the fallback title pool file.
type titlesFile struct {
	Titles []string `yaml:"titles"`
}

// LoadTitles reads the fallback title pool. An empty path yields nil, which
// means the built-in pool.
func LoadTitles(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read titles file: %w", err)
	}

	var f titlesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse titles file %s: %w", path, err)
	}

	titles := make([]string, 0, len(f.Titles))
	for _, t := range f.Titles {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return nil, errors.New("titles file has no titles")
	}
	return titles, nil
}
