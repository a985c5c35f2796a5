package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(LoadInput{WorkDir: dir, Env: map[string]string{}})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, ".orderdesk"), cfg.DataDirAbs)
		assert.Equal(t, 10, cfg.PageSize)
		assert.Equal(t, 300*time.Millisecond, cfg.Debounce())
		assert.Equal(t, "nb", cfg.Locale)
		assert.Equal(t, "NOK", cfg.Currency)
		assert.Equal(t, 56, cfg.RowHeight)
		assert.Equal(t, 8, cfg.Overscan)
		assert.Equal(t, "unknown", cfg.Actor)
		assert.Empty(t, cfg.Sources.Global)
		assert.Empty(t, cfg.Sources.Project)
	})

	t.Run("project file with comments", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), `{
			// shop settings
			"page_size": 20,
			"currency": "EUR",
		}`)

		cfg, err := Load(LoadInput{WorkDir: dir, Env: map[string]string{}})
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.PageSize)
		assert.Equal(t, "EUR", cfg.Currency)
		assert.Equal(t, "nb", cfg.Locale)
		assert.Equal(t, filepath.Join(dir, FileName), cfg.Sources.Project)
	})

	t.Run("precedence global < project < env < flag", func(t *testing.T) {
		dir := t.TempDir()
		xdg := t.TempDir()
		writeFile(t, filepath.Join(xdg, "orderdesk", "config.json"),
			`{"data_dir": "global-dir", "locale": "sv", "overscan": 4}`)
		writeFile(t, filepath.Join(dir, FileName), `{"data_dir": "project-dir", "locale": "en"}`)
		env := map[string]string{"XDG_CONFIG_HOME": xdg}

		cfg, err := Load(LoadInput{WorkDir: dir, Env: env})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "project-dir"), cfg.DataDirAbs)
		assert.Equal(t, "en", cfg.Locale)
		assert.Equal(t, 4, cfg.Overscan)
		assert.Equal(t, filepath.Join(xdg, "orderdesk", "config.json"), cfg.Sources.Global)

		env[EnvDir] = "env-dir"
		cfg, err = Load(LoadInput{WorkDir: dir, Env: env})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "env-dir"), cfg.DataDirAbs)

		cfg, err = Load(LoadInput{WorkDir: dir, Env: env, DataDir: "/abs/flag-dir"})
		require.NoError(t, err)
		assert.Equal(t, "/abs/flag-dir", cfg.DataDirAbs)
	})

	t.Run("explicit config must exist", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Load(LoadInput{WorkDir: dir, ConfigPath: "missing.json", Env: map[string]string{}})
		assert.ErrorIs(t, err, ErrConfigFileNotFound)
	})

	t.Run("explicit config replaces the project file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), `{"page_size": 20}`)
		writeFile(t, filepath.Join(dir, "custom.json"), `{"page_size": 50}`)

		cfg, err := Load(LoadInput{WorkDir: dir, ConfigPath: "custom.json", Env: map[string]string{}})
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.PageSize)
	})

	t.Run("default data dir is found in a parent", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".orderdesk"), 0755))
		nested := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0755))

		cfg, err := Load(LoadInput{WorkDir: nested, Env: map[string]string{}})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, ".orderdesk"), cfg.DataDirAbs)
	})

	t.Run("invalid files", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
		}{
			{"broken jsonc", `{"page_size": `},
			{"unknown field", `{"pagesize": 20}`},
			{"negative page size", `{"page_size": -1}`},
			{"negative debounce", `{"search_debounce_ms": -5}`},
			{"bad locale", `{"locale": "not a locale!"}`},
			{"negative overscan", `{"overscan": -2}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				writeFile(t, filepath.Join(dir, FileName), tt.content)
				_, err := Load(LoadInput{WorkDir: dir, Env: map[string]string{}})
				assert.ErrorIs(t, err, ErrConfigInvalid)
			})
		}
	})
}

func TestMerge(t *testing.T) {
	got := merge(Default(), Config{Currency: "SEK", RowHeight: 40})
	want := Default()
	want.Currency = "SEK"
	want.RowHeight = 40
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveActor(t *testing.T) {
	t.Run("priority 1: flag value takes precedence", func(t *testing.T) {
		env := map[string]string{EnvActor: "env-actor", "USER": "env-user"}
		assert.Equal(t, "flag-actor", ResolveActor("flag-actor", env))
	})

	t.Run("priority 2: ORDERDESK_ACTOR when no flag", func(t *testing.T) {
		env := map[string]string{EnvActor: "env-actor", "USER": "env-user"}
		assert.Equal(t, "env-actor", ResolveActor("", env))
	})

	t.Run("priority 3: USER when no flag or ORDERDESK_ACTOR", func(t *testing.T) {
		env := map[string]string{EnvActor: "", "USER": "env-user"}
		assert.Equal(t, "env-user", ResolveActor("", env))
	})

	t.Run("priority 4: unknown as fallback", func(t *testing.T) {
		assert.Equal(t, "unknown", ResolveActor("", map[string]string{}))
	})
}
