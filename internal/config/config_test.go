package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveConfig(t *testing.T, root string, cfg *ProjectConfig) {
	t.Helper()
	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0750))
	require.NoError(t, WriteFileAtomic(Path(root), data))
}

func TestConfigLoad(t *testing.T) {
	root := t.TempDir()

	cfg := &ProjectConfig{
		ProjectName:  "shop",
		AWSAccountID: "123456789012",
		AWSECRRegion: "us-west-2",
	}
	saveConfig(t, root, cfg)

	_, err := os.Stat(filepath.Join(root, "hokusai", "config.yml.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigMarshal(t *testing.T) {
	cfg := &ProjectConfig{
		ProjectName:  "shop",
		AWSAccountID: "123456789012",
		AWSECRRegion: "us-west-2",
	}

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "project-name: shop\naws-account-id: \"123456789012\"\naws-ecr-region: us-west-2\n", string(data))
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	root := t.TempDir()

	saveConfig(t, root, &ProjectConfig{ProjectName: "shop", AWSAccountID: "1", AWSECRRegion: "us-east-1"})
	saveConfig(t, root, &ProjectConfig{ProjectName: "store", AWSAccountID: "2", AWSECRRegion: "eu-west-1"})

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "store", loaded.ProjectName)
}

func TestWriteFileAtomicFailureRemovesTemp(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "config.yml")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "occupied"), 0750))

	require.Error(t, WriteFileAtomic(target, []byte("project-name: shop\n")))
	assert.NoFileExists(t, target+".tmp")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProjectConfig
		wantErr string
	}{
		{"complete", ProjectConfig{ProjectName: "shop", AWSAccountID: "1", AWSECRRegion: "us-east-1"}, ""},
		{"missing name", ProjectConfig{AWSAccountID: "1", AWSECRRegion: "us-east-1"}, "project-name"},
		{"missing all", ProjectConfig{}, "project-name, aws-account-id, aws-ecr-region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingAndInvalid(t *testing.T) {
	root := t.TempDir()

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no hokusai configuration file found")

	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0750))
	require.NoError(t, os.WriteFile(Path(root), []byte("project-name: [unterminated"), 0600))
	_, err = Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	assert.False(t, Exists(root))

	dir := filepath.Join(root, Dir)
	require.NoError(t, os.MkdirAll(dir, 0750))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("project-name: alt\n"), 0600))
	file, err := Detect(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), file.Path)
	assert.Equal(t, "yaml", file.Format)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("project-name: main\n"), 0600))
	file, err = Detect(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), file.Path)
	assert.True(t, Exists(root))
}

func TestDefaultRegion(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "missing-config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "missing-credentials"))
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_PROFILE", "")

	t.Setenv("AWS_REGION", "eu-central-1")
	assert.Equal(t, "eu-central-1", DefaultRegion(context.Background()))

	t.Setenv("AWS_REGION", "")
	assert.Equal(t, FallbackRegion, DefaultRegion(context.Background()))
}

func TestDefaultAccountID(t *testing.T) {
	t.Setenv(AccountIDEnv, " 123456789012 ")
	assert.Equal(t, "123456789012", DefaultAccountID())

	t.Setenv(AccountIDEnv, "")
	assert.Empty(t, DefaultAccountID())
}
