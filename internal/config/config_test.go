package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "yaml", cfg.Loader)
	assert.Equal(t, "json", cfg.Dumper)
	assert.False(t, cfg.Expand)
	assert.Equal(t, 4, cfg.Indent)
}

func TestLoad_WithoutCommand(t *testing.T) {
	t.Setenv("LAYERM_DUMPER", "yaml")
	t.Setenv("LAYERM_EXPAND", "true")

	cfg, err := Load(nil, "", config.WithConfigPaths())
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Loader)
	assert.Equal(t, "yaml", cfg.Dumper, "dumper 应来自环境变量")
	assert.True(t, cfg.Expand)
}

func TestLoad_ConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layerm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loader: jsonc\nindent: 2\n"), 0600))

	var loaded *Config
	cmd := &cli.Command{
		Name: "layerm",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.StringFlag{Name: "loader"},
			&cli.IntFlag{Name: "indent"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := Load(cmd, "layerm")
			loaded = cfg
			return err
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"layerm", "--config", path, "--indent", "8"}))
	require.NotNil(t, loaded)

	assert.Equal(t, "jsonc", loaded.Loader, "loader 应来自配置文件")
	assert.Equal(t, 8, loaded.Indent, "flag 优先于配置文件")
	assert.Equal(t, "json", loaded.Dumper)
}

func TestLoad_IgnoresGenericConfigYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("dumper:\n  format: pretty\nindent: 1\n"), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte("loader: json\n"), 0600))
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	cfg, err := Load(nil, "layerm")
	require.NoError(t, err, "通用的 config.yaml 不属于 layerm 的配置")
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoad_AppConfigInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".layerm.yaml"), []byte("dumper: yaml\n"), 0600))
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	cfg, err := Load(nil, "layerm")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Dumper)
}

func TestLoad_MissingConfigFlag(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	cmd := &cli.Command{
		Name:  "layerm",
		Flags: []cli.Flag{&cli.StringFlag{Name: "config"}},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := Load(cmd, "layerm")
			return err
		},
	}

	err := cmd.Run(context.Background(), []string{"layerm", "--config", missing})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
