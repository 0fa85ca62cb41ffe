package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"XamlGeneratedNamespace", "Microsoft", "Internal"}, cfg.Index.IgnoreNamespaces)
	assert.False(t, cfg.Index.AllowAbstract)
	assert.Empty(t, cfg.Session.Imports)
	assert.Empty(t, cfg.Session.Locals)
	assert.Equal(t, 8, cfg.UI.PopupHeight)
	assert.Equal(t, 60, cfg.UI.PopupWidth)
	assert.Equal(t, 5, cfg.UI.PageStep)
	assert.NotEmpty(t, cfg.UI.Theme.Keyword)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigYAMLIsCopy(t *testing.T) {
	a := DefaultConfigYAML()
	require.NotEmpty(t, a)
	a[0] = 'X'
	assert.NotEqual(t, a[0], DefaultConfigYAML()[0])
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "empty keeps defaults",
			data: "  \n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 8, cfg.UI.PopupHeight)
			},
		},
		{
			name: "partial override",
			data: "ui:\n  pageStep: 10\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 10, cfg.UI.PageStep)
				assert.Equal(t, 60, cfg.UI.PopupWidth)
				assert.Len(t, cfg.Index.IgnoreNamespaces, 3)
			},
		},
		{
			name: "lists replace",
			data: "index:\n  ignoreNamespaces: []\nsession:\n  imports: [System, System.IO]\n  locals:\n    - {name: img, type: Emgu.CV.Image}\n",
			check: func(t *testing.T, cfg Config) {
				assert.Empty(t, cfg.Index.IgnoreNamespaces)
				assert.NotNil(t, cfg.IgnoreNamespaces())
				assert.Empty(t, cfg.IgnoreNamespaces())
				assert.Equal(t, []string{"System", "System.IO"}, cfg.Session.Imports)
				assert.Equal(t, []LocalSpec{{Name: "img", Type: "Emgu.CV.Image"}}, cfg.Session.Locals)
			},
		},
		{name: "unknown key", data: "ui:\n  popupColour: red\n", wantErr: true},
		{name: "bad range", data: "ui:\n  pageStep: 0\n", wantErr: true},
		{name: "nameless local", data: "session:\n  locals:\n    - {type: System.String}\n", wantErr: true},
		{name: "not yaml", data: "ui: [", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			err = cfg.Merge([]byte(tt.data))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.UI.PageStep)

	path := filepath.Join(t.TempDir(), "exprsense.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  allowAbstract: true\n"), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Index.AllowAbstract)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLocal(t *testing.T) {
	l, err := ParseLocal(" img = Emgu.CV.Image ")
	require.NoError(t, err)
	assert.Equal(t, LocalSpec{Name: "img", Type: "Emgu.CV.Image"}, l)

	for _, bad := range []string{"img", "=System.String", "x=", ""} {
		_, err := ParseLocal(bad)
		assert.ErrorIs(t, err, ErrInvalidConfig, bad)
	}
}
