package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Loader handles route table loading from files and readers.
type Loader struct {
	basePath    string
	loading     map[string]bool
	loaded      map[string]bool
	files       []string
	maxIncludes int
	depth       int
}

// NewLoader creates a new route table loader.
func NewLoader() *Loader {
	return &Loader{
		loading:     make(map[string]bool),
		loaded:      make(map[string]bool),
		maxIncludes: 10,
	}
}

// LoadRouteTable loads a route table from a file path.
func LoadRouteTable(path string) (*RouteTable, error) {
	return NewLoader().Load(path)
}

// LoadRouteTableFromReader loads a route table from an io.Reader. Includes
// resolve against the working directory.
func LoadRouteTableFromReader(r io.Reader) (*RouteTable, error) {
	return NewLoader().LoadFromReader(r)
}

// Load loads a route table from a file path, following includes.
func (l *Loader) Load(path string) (*RouteTable, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	l.basePath = filepath.Dir(absPath)
	l.reset()

	return l.loadFile(absPath)
}

// Files returns the absolute paths read by the last Load or LoadFromReader
// call, the root file first, then includes in load order.
func (l *Loader) Files() []string {
	files := make([]string, len(l.files))
	copy(files, l.files)
	return files
}

func (l *Loader) reset() {
	l.loaded = make(map[string]bool)
	l.files = nil
}

// LoadFromReader loads a route table from an io.Reader.
func (l *Loader) LoadFromReader(r io.Reader) (*RouteTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}

	l.reset()

	table, err := l.parse(data)
	if err != nil {
		return nil, err
	}
	return l.resolveIncludes(table, l.basePath)
}

// loadFile reads one file and its includes. Included tables come first, so
// their routes take priority over the including file's routes. A file
// already merged earlier in the same load contributes nothing the second
// time.
func (l *Loader) loadFile(path string) (*RouteTable, error) {
	if l.loading[path] {
		return nil, fmt.Errorf("circular include detected: %s", path)
	}
	if l.loaded[path] {
		return &RouteTable{}, nil
	}
	if l.depth >= l.maxIncludes {
		return nil, fmt.Errorf("maximum include depth (%d) exceeded", l.maxIncludes)
	}

	l.loading[path] = true
	l.loaded[path] = true
	l.files = append(l.files, path)
	l.depth++
	defer func() {
		delete(l.loading, path)
		l.depth--
	}()

	data, err := os.ReadFile(path) //nolint:gosec // path is resolved via filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read route table file %s: %w", path, err)
	}

	table, err := l.parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return l.resolveIncludes(table, filepath.Dir(path))
}

// resolveIncludes loads table's includes relative to dir and merges them
// ahead of table.
func (l *Loader) resolveIncludes(table *RouteTable, dir string) (*RouteTable, error) {
	if len(table.Includes) == 0 {
		return table, nil
	}

	merged := &RouteTable{}
	for _, inc := range table.Includes {
		includePath := inc
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(dir, includePath)
		}
		includePath = filepath.Clean(includePath)

		included, err := l.loadFile(includePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load include %s: %w", inc, err)
		}
		merged.merge(included)
	}

	includes := table.Includes
	merged.merge(table)
	merged.Includes = includes
	return merged, nil
}

// parse parses YAML data into a RouteTable. Unknown fields are rejected.
func (l *Loader) parse(data []byte) (*RouteTable, error) {
	content := l.substituteEnvVars(string(data))

	var table RouteTable
	dec := yaml.NewDecoder(bytes.NewReader([]byte(content)))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &table, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment variable values.
func (l *Loader) substituteEnvVars(content string) string {
	// $$ escapes a literal dollar sign.
	content = strings.ReplaceAll(content, "$$", "\x00ESCAPED_DOLLAR\x00")

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""
		if len(submatches) >= 3 {
			defaultValue = submatches[2]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return defaultValue
	})

	return strings.ReplaceAll(result, "\x00ESCAPED_DOLLAR\x00", "$")
}

// ResolveConfigPath resolves a route table path, checking common locations.
func ResolveConfigPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("route table not found: %s", path)
	}

	if _, err := os.Stat(path); err == nil {
		return filepath.Abs(path)
	}

	commonPaths := []string{
		filepath.Join("configs", path),
		filepath.Join(string(filepath.Separator), "etc", "routem", path),
	}
	if home, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths, filepath.Join(home, ".routem", path))
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("route table not found: %s", path)
}
