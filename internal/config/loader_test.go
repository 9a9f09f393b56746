package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoader(t *testing.T) {
	t.Parallel()

	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.loading)
	assert.Equal(t, 10, loader.maxIncludes)
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "routes.yaml", `
watch:
  debounce: 250ms
paramTypes:
  - name: color
    values: [red, green]
  - name: port
    kind: uint
    min: 1
    max: 65535
routes:
  - name: user
    pattern: /user/<id:int>/
    description: user page
  - name: swatch
    pattern: /swatch/<c:color>
`)

	table, err := NewLoader().Load(path)
	require.NoError(t, err)

	require.Len(t, table.ParamTypes, 2)
	assert.Equal(t, "color", table.ParamTypes[0].Name)
	assert.Equal(t, []string{"red", "green"}, table.ParamTypes[0].Values)
	assert.Equal(t, KindUint, table.ParamTypes[1].Kind)
	require.NotNil(t, table.ParamTypes[1].Min)
	assert.Equal(t, int64(1), *table.ParamTypes[1].Min)
	assert.Equal(t, int64(65535), *table.ParamTypes[1].Max)

	require.Len(t, table.Routes, 2)
	assert.Equal(t, RouteConfig{Name: "user", Pattern: "/user/<id:int>/", Description: "user page"}, table.Routes[0])
	assert.Equal(t, "swatch", table.Routes[1].Name)

	assert.Equal(t, 250*time.Millisecond, table.DebounceDelay().Duration())
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load("/nonexistent/path/routes.yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read route table file")
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "routes.yaml", "routes: [unclosed")

	_, err := NewLoader().Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoader_Load_UnknownField(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "routes.yaml", `
routes:
  - name: user
    patern: /user/
`)

	_, err := NewLoader().Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "patern")
}

func TestLoader_LoadFromReader(t *testing.T) {
	t.Parallel()

	table, err := LoadRouteTableFromReader(strings.NewReader(`
routes:
  - name: root
    pattern: /
`))
	require.NoError(t, err)
	require.Len(t, table.Routes, 1)
	assert.Equal(t, "/", table.Routes[0].Pattern)
}

func TestLoader_LoadFromReader_Empty(t *testing.T) {
	t.Parallel()

	table, err := LoadRouteTableFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Routes)
	assert.Equal(t, Duration(0), table.DebounceDelay())
}

func TestLoader_SubstituteEnvVars(t *testing.T) {
	t.Setenv("ROUTEM_TEST_PREFIX", "api")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "set variable",
			input:    "/${ROUTEM_TEST_PREFIX}/users",
			expected: "/api/users",
		},
		{
			name:     "set variable ignores default",
			input:    "/${ROUTEM_TEST_PREFIX:-v1}/users",
			expected: "/api/users",
		},
		{
			name:     "unset variable with default",
			input:    "/${ROUTEM_TEST_UNSET:-v1}/users",
			expected: "/v1/users",
		},
		{
			name:     "unset variable without default",
			input:    "/${ROUTEM_TEST_UNSET}/users",
			expected: "//users",
		},
		{
			name:     "escaped dollar",
			input:    "price: $$5",
			expected: "price: $5",
		},
		{
			name:     "no variables",
			input:    "/user/<id:int>/",
			expected: "/user/<id:int>/",
		},
	}

	loader := NewLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, loader.substituteEnvVars(tt.input))
		})
	}
}

func TestLoadRouteTable_EnvSubstitution(t *testing.T) {
	t.Setenv("ROUTEM_TEST_VERSION", "v2")

	path := writeFile(t, t.TempDir(), "routes.yaml", `
routes:
  - name: users
    pattern: /${ROUTEM_TEST_VERSION}/users/<id:int>
  - name: items
    pattern: /${ROUTEM_TEST_MISSING:-v1}/items
`)

	table, err := LoadRouteTable(path)
	require.NoError(t, err)
	assert.Equal(t, "/v2/users/<id:int>", table.Routes[0].Pattern)
	assert.Equal(t, "/v1/items", table.Routes[1].Pattern)
}

func TestLoader_Includes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "shared"), 0o755))
	writeFile(t, dir, "shared/types.yaml", `
watch:
  debounce: 1s
paramTypes:
  - name: color
    values: [red]
routes:
  - name: health
    pattern: /health
`)
	path := writeFile(t, dir, "routes.yaml", `
includes:
  - shared/types.yaml
watch:
  debounce: 50ms
routes:
  - name: swatch
    pattern: /swatch/<c:color>
`)

	table, err := LoadRouteTable(path)
	require.NoError(t, err)

	require.Len(t, table.ParamTypes, 1)
	assert.Equal(t, "color", table.ParamTypes[0].Name)
	require.Len(t, table.Routes, 2)
	assert.Equal(t, "health", table.Routes[0].Name)
	assert.Equal(t, "swatch", table.Routes[1].Name)
	assert.Equal(t, []string{"shared/types.yaml"}, table.Includes)
	assert.Equal(t, 50*time.Millisecond, table.DebounceDelay().Duration())
	assert.NoError(t, ValidateRouteTable(table))
}

func TestLoader_Includes_Circular(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "includes: [b.yaml]\nroutes: []\n")
	path := writeFile(t, dir, "b.yaml", "includes: [a.yaml]\nroutes: []\n")

	_, err := LoadRouteTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular include detected")
}

func TestLoader_Includes_Missing(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "routes.yaml", "includes: [missing.yaml]\nroutes: []\n")

	_, err := LoadRouteTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load include missing.yaml")
}

func TestLoader_Includes_Diamond(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "routes:\n  - name: base\n    pattern: /base\n")
	writeFile(t, dir, "left.yaml", "includes: [base.yaml]\nroutes: []\n")
	writeFile(t, dir, "right.yaml", "includes: [base.yaml]\nroutes: []\n")
	path := writeFile(t, dir, "top.yaml", "includes: [left.yaml, right.yaml]\nroutes: []\n")

	loader := NewLoader()
	table, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, table.Routes, 1)
	assert.Equal(t, "base", table.Routes[0].Name)
	assert.NoError(t, ValidateRouteTable(table))

	assert.Equal(t, []string{
		path,
		filepath.Join(dir, "left.yaml"),
		filepath.Join(dir, "base.yaml"),
		filepath.Join(dir, "right.yaml"),
	}, loader.Files())
}

func TestLoader_Files_ResetBetweenLoads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "shared.yaml", "routes:\n  - name: shared\n    pattern: /shared\n")
	withInclude := writeFile(t, dir, "a.yaml", "includes: [shared.yaml]\nroutes: []\n")
	plain := writeFile(t, dir, "b.yaml", "routes: []\n")

	loader := NewLoader()

	table, err := loader.Load(withInclude)
	require.NoError(t, err)
	assert.Len(t, table.Routes, 1)
	assert.Len(t, loader.Files(), 2)

	table, err = loader.Load(withInclude)
	require.NoError(t, err)
	assert.Len(t, table.Routes, 1, "a second load reads shared files again")

	_, err = loader.Load(plain)
	require.NoError(t, err)
	assert.Equal(t, []string{plain}, loader.Files())
}

func TestResolveConfigPath(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "routes.yaml", "routes: []\n")

	resolved, err := ResolveConfigPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	_, err = ResolveConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ResolveConfigPath("routem-definitely-missing.yaml")
	assert.Error(t, err)
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "milliseconds", input: "watch: {debounce: 250ms}", expected: 250 * time.Millisecond},
		{name: "bare seconds", input: "watch: {debounce: 2}", expected: 2 * time.Second},
		{name: "empty", input: `watch: {debounce: ""}`, expected: 0},
		{name: "invalid", input: "watch: {debounce: soon}", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table, err := LoadRouteTableFromReader(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, table.DebounceDelay().Duration())
		})
	}
}

func TestDuration_MarshalYAML(t *testing.T) {
	t.Parallel()

	v, err := Duration(1500 * time.Millisecond).MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", v)
}
