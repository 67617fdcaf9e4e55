package loader_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-layerm/pkg/layer"
	"github.com/lwmacct/251207-go-pkg-layerm/pkg/loader"
)

func dataPath(name string) string {
	return filepath.Join("testdata", name)
}

func TestLoadFiles_JSONFiles(t *testing.T) {
	data, err := loader.LoadFiles([]loader.Source{
		loader.File(dataPath("overlay.json")),
		loader.File(dataPath("base.json")),
	}, loader.JSON)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"url":       "http://localhost:8000",
		"endpoints": []any{"{url}/abc", "{url}/def", "{url}/ghi"},
	}, data.ToAny())
	assert.Equal(t, []string{"url", "endpoints"}, data.Keys())
}

func TestLoadFiles_Sources(t *testing.T) {
	f, err := os.Open(dataPath("a.json"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	tests := []struct {
		name   string
		source loader.Source
	}{
		{"file path", loader.File(dataPath("a.json"))},
		{"open file", loader.Reader(f)},
		{"string reader", loader.Reader(strings.NewReader(`{"a": 1}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := loader.LoadFiles([]loader.Source{tt.source}, loader.JSON)
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"a": int64(1)}, data.ToAny())
		})
	}
}

func TestLoadFiles_RejectsNonMapRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(path, []byte("42"), 0600))

	_, err := loader.LoadFiles([]loader.Source{loader.File(path)}, loader.JSON)
	require.Error(t, err)

	var invalid *loader.InvalidLayerError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, path, invalid.Source)
	assert.Equal(t, layer.KindInt, invalid.Kind)
	assert.Contains(t, err.Error(), "a.json")
}

func TestLoadFiles_RejectsNonMapRootUnnamedReader(t *testing.T) {
	_, err := loader.LoadFiles([]loader.Source{
		loader.Reader(strings.NewReader(`{"a": 1}`)),
		loader.Reader(strings.NewReader(`[1, 2]`)),
	}, loader.JSON)
	require.Error(t, err)

	var invalid *loader.InvalidLayerError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "*strings.Reader at layer 1", invalid.Source)
	assert.Equal(t, layer.KindList, invalid.Kind)
}

func TestLoadFiles_ParseErrorNotWrapped(t *testing.T) {
	_, err := loader.LoadFiles([]loader.Source{
		loader.Reader(strings.NewReader(`{"a": }`)),
	}, loader.JSON)
	require.Error(t, err)

	var syntax *json.SyntaxError
	assert.True(t, errors.As(err, &syntax))
}

func TestLoadFiles_MissingFile(t *testing.T) {
	_, err := loader.LoadFiles([]loader.Source{loader.File(dataPath("missing.json"))}, loader.JSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFiles_MergeError(t *testing.T) {
	_, err := loader.LoadFiles([]loader.Source{
		loader.Reader(strings.NewReader(`{"a": "x"}`)),
		loader.Reader(strings.NewReader(`{"a": 1}`)),
	}, loader.JSON)

	var mismatch *layer.TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, layer.Path{"a"}, mismatch.Path)
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    any
		wantErr bool
	}{
		{name: "numbers", input: `{"i": 1, "f": 1.0, "e": 1e3, "neg": -2}`,
			want: map[string]any{"i": int64(1), "f": 1.0, "e": 1000.0, "neg": int64(-2)}},
		{name: "big integer as float", input: `{"big": 123456789012345678901234567890}`,
			want: map[string]any{"big": 1.2345678901234568e+29}},
		{name: "nested", input: `{"a": {"b": [true, null, "s"]}}`,
			want: map[string]any{"a": map[string]any{"b": []any{true, nil, "s"}}}},
		{name: "scalar root", input: `"x"`, want: "x"},
		{name: "empty list", input: `[]`, want: []any{}},
		{name: "trailing data", input: `{} {}`, wantErr: true},
		{name: "empty input", input: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loader.JSON(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ToAny())
		})
	}
}

func TestJSON_KeepsKeyOrder(t *testing.T) {
	got, err := loader.JSON(strings.NewReader(`{"z": 1, "a": {"y": 1, "b": 2}, "m": 3}`))
	require.NoError(t, err)

	m, ok := got.AsMap()
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
	a, _ := m.Get("a")
	am, _ := a.AsMap()
	assert.Equal(t, []string{"y", "b"}, am.Keys())
}

func TestJSONC(t *testing.T) {
	data, err := loader.LoadFiles([]loader.Source{loader.File(dataPath("notes.jsonc"))}, loader.JSONC)
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a"}, data.Keys())
	assert.Equal(t, map[string]any{"z": int64(1), "a": []any{int64(1), int64(2)}}, data.ToAny())
}

func TestYAML(t *testing.T) {
	data, err := loader.LoadFiles([]loader.Source{loader.File(dataPath("defaults.yaml"))}, loader.YAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "server", "flags", "ratio", "empty"}, data.Keys())
	assert.Equal(t, map[string]any{
		"base":   map[string]any{"timeout": int64(30), "retries": int64(3)},
		"server": map[string]any{"retries": int64(5), "host": "{url}", "timeout": int64(30)},
		"flags":  []any{"a", "b"},
		"ratio":  0.5,
		"empty":  nil,
	}, data.ToAny())

	server, _ := data.Get("server")
	sm, _ := server.AsMap()
	assert.Equal(t, []string{"retries", "host", "timeout"}, sm.Keys())
}

func TestYAML_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"json subset", `{"a": 1, "b": [1.5, "x"]}`, map[string]any{"a": int64(1), "b": []any{1.5, "x"}}},
		{"quoted number stays string", `a: "1"`, map[string]any{"a": "1"}},
		{"bool", `a: true`, map[string]any{"a": true}},
		{"timestamp kept as text", `a: 2001-12-14`, map[string]any{"a": "2001-12-14"}},
		{"empty document", ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loader.YAML(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ToAny())
		})
	}
}

func TestYAML_EmptyFileIsInvalidLayer(t *testing.T) {
	_, err := loader.LoadFiles([]loader.Source{loader.Reader(strings.NewReader(""))}, loader.YAML)

	var invalid *loader.InvalidLayerError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, layer.KindNull, invalid.Kind)
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"json", "JSONC", "yaml", "yml"} {
		l, err := loader.Lookup(name)
		require.NoError(t, err, name)
		assert.NotNil(t, l)
	}

	_, err := loader.Lookup("toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, jsonc, yaml, yml")
}
