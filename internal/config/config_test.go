package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTargetDefaults(t *testing.T) {
	target := &TargetConfig{Database: "gis"}
	ApplyTargetDefaults(target)

	assert.Equal(t, DefaultHost, target.Host)
	assert.Equal(t, DefaultPort, target.Port)
	assert.Equal(t, DefaultSSLMode, target.SSLMode)

	kept := &TargetConfig{Host: "db", Port: 6432, SSLMode: "require"}
	ApplyTargetDefaults(kept)
	assert.Equal(t, &TargetConfig{Host: "db", Port: 6432, SSLMode: "require"}, kept)

	ApplyTargetDefaults(nil)
}

func TestDefaultSuffixes_IsCopy(t *testing.T) {
	s := DefaultSuffixes()
	s[0] = "_changed"
	assert.Equal(t, "_eureffin", DefaultSuffixes()[0])
}

func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		target  *TargetConfig
		wantErr string
	}{
		{name: "nil", target: nil, wantErr: "not configured"},
		{name: "no database", target: &TargetConfig{}, wantErr: "database is required"},
		{name: "bad sslmode", target: &TargetConfig{Database: "gis", SSLMode: "sometimes"}, wantErr: "sslmode"},
		{name: "bad port", target: &TargetConfig{Database: "gis", Port: 70000}, wantErr: "port"},
		{name: "valid", target: &TargetConfig{Database: "gis", SSLMode: "require", Port: 5432}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", FindConfigFile(dir))

	alt := filepath.Join(dir, ConfigFileNameAlt)
	require.NoError(t, os.WriteFile(alt, []byte("{}"), 0o644))
	assert.Equal(t, alt, FindConfigFile(dir))

	// mapdesc.yaml wins over mapdesc.yml.
	primary := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(primary, []byte("{}"), 0o644))
	assert.Equal(t, primary, FindConfigFile(dir))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}"), 0o644))

	assert.Equal(t, root, FindProjectRoot(nested, 10))
	assert.Equal(t, "", FindProjectRoot(nested, 1))
}
