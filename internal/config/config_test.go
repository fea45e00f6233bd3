package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTitles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	titles, err := LoadTitles("")
	require.NoError(t, err)
	assert.Nil(t, titles)

	titles, err = LoadTitles(write("ok.yml", "titles:\n  - Mount Alderson\n  - '  '\n  - \" Port Harrison \"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Mount Alderson", "Port Harrison"}, titles)

	_, err = LoadTitles(write("empty.yml", "titles: []\n"))
	assert.EqualError(t, err, "titles file has no titles")

	_, err = LoadTitles(write("bad.yml", "titles: [unterminated\n"))
	assert.ErrorContains(t, err, "parse titles file")

	_, err = LoadTitles(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCommon_Defaults(t *testing.T) {
	var c Common
	_, err := flags.NewParser(&c, flags.Default&^flags.PrintErrors).ParseArgs([]string{
		"--providers.groq.token=secret",
		"--wikipedia.full-page",
		"--generator.max-tokens=2000",
	})
	require.NoError(t, err)

	assert.Equal(t, "groq", c.Providers.Default)
	assert.Equal(t, "secret", c.Providers.Groq.Token)
	assert.Equal(t, "https://api.groq.com/openai/v1", c.Providers.Groq.BaseURL)
	assert.Equal(t, "http://localhost:11434", c.Providers.Ollama.Host)
	assert.Equal(t, 15*time.Second, c.Wikipedia.Timeout)
	assert.Equal(t, 1000, c.Wikipedia.ShortExtract)
	assert.True(t, c.Wikipedia.FullPage)
	assert.Equal(t, 30*time.Second, c.Generator.Timeout)
	assert.InDelta(t, 0.95, c.Generator.Temperature, 0.0001)
	assert.Equal(t, 2000, c.Generator.MaxTokens)

	_, err = flags.NewParser(&c, flags.Default&^flags.PrintErrors).ParseArgs([]string{"--providers.provider=claude"})
	assert.Error(t, err)
}

func TestCommon_Env(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "from-env")
	t.Setenv("WIKIPEDIA_TIMEOUT", "3s")
	t.Setenv("GENERATOR_TITLES_FILE", "/etc/wikidash/titles.yml")

	var c Common
	_, err := flags.NewParser(&c, flags.Default&^flags.PrintErrors).ParseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Providers.Groq.Token)
	assert.Equal(t, 3*time.Second, c.Wikipedia.Timeout)
	assert.Equal(t, "/etc/wikidash/titles.yml", c.Generator.TitlesFile)
}
