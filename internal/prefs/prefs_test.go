package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDegradesToDefaults(t *testing.T) {
	cases := map[string]string{
		"empty theme":  "theme = \"  \"\n",
		"invalid toml": "not valid toml {{{\n",
		"wrong type":   "theme = 3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			p, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, DefaultTheme, p.Theme)
			assert.Empty(t, p.Resource)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope", "prefs.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoadDefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "plantel")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prefs.toml"),
		[]byte("theme = \"Slate\"\nresource = \" atletas \"\n"), 0o644))

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Prefs{Theme: "Slate", Resource: "atletas"}, p)
}

func TestSaveRoundTripAndReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "prefs.toml")

	require.NoError(t, Save(path, Prefs{Theme: "Kanagawa", Resource: "estoque"}))
	require.NoError(t, Save(path, Prefs{Theme: "Slate", Resource: "funcionarios"}))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Prefs{Theme: "Slate", Resource: "funcionarios"}, p)
	assert.NoFileExists(t, path+".tmp")
}

func TestSaveFillsEmptyTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, Save(path, Prefs{Resource: "analises"}))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, p.Theme)
	assert.Equal(t, "analises", p.Resource)
}
