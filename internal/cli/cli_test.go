package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

const counterDoc = `{
  "id": "counter-demo",
  "nodes": [
    {"id": "c1", "type": "upCounter", "enable": "onActivateIn", "report": true,
     "outputDefs": [{"portId": "output", "width": 1, "activate": [{"id": "b1", "portId": "in0"}]}],
     "attributes": {"mode": "trigger", "threshold": 3, "reportId": "42"}},
    {"id": "b1", "type": "boolean", "enable": "always", "report": false,
     "attributes": {"gateType": "and"}}
  ]
}`

type result struct {
	stdout string
	stderr string
	err    error
}

// isolate points config and cache lookups at fresh temporary directories.
func isolate(t *testing.T) (configHome, cacheHome string) {
	t.Helper()
	configHome, cacheHome = t.TempDir(), t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return configHome, cacheHome
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	isolate(t)
	good := writeFile(t, "counter.mnrl", counterDoc)

	res := execute(t, "", "validate", good)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, good)
	assert.Contains(t, res.stdout, "2 nodes · 1 connections")
}

func TestValidateCommandFailures(t *testing.T) {
	isolate(t)
	good := writeFile(t, "counter.mnrl", counterDoc)
	dangling := writeFile(t, "dangling.mnrl", strings.Replace(counterDoc, `"id": "b1", "portId"`, `"id": "ghost", "portId"`, 1))
	missing := filepath.Join(t.TempDir(), "missing.mnrl")

	res := execute(t, "", "validate", good, dangling, missing)
	require.Error(t, res.err)
	assert.True(t, merrors.Is(res.err, merrors.ErrCodeInvalidInput))
	assert.Contains(t, res.err.Error(), "2 of 3 documents invalid")
	assert.Contains(t, res.stdout, "UNKNOWN_ID")
	assert.Contains(t, res.stdout, "ghost")
	assert.Contains(t, res.stdout, "FILE_NOT_FOUND")
}

func TestValidateCommandJSON(t *testing.T) {
	isolate(t)

	res := execute(t, `{"id":"x"}`, "validate", "--json", "-")
	require.Error(t, res.err)

	var got validationResult
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(res.stdout)), &got))
	assert.Equal(t, "-", got.File)
	assert.False(t, got.Valid)
	assert.Equal(t, "SCHEMA_VIOLATION", got.Code)

	res = execute(t, counterDoc, "validate", "--json", "-")
	require.NoError(t, res.err)
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(res.stdout)), &got))
	assert.True(t, got.Valid)
	assert.Equal(t, 2, got.Nodes)
}

func TestFmtCommand(t *testing.T) {
	isolate(t)
	path := writeFile(t, "counter.mnrl", counterDoc)

	res := execute(t, "", "fmt", path)
	require.NoError(t, res.err)
	canonical := res.stdout
	assert.True(t, strings.HasPrefix(canonical, "{\n  \"id\": \"counter-demo\",\n  \"nodes\": ["), canonical)
	assert.Contains(t, canonical, `"reportId": "42"`)
	assert.Contains(t, canonical, `"inputDefs": [`)

	// not canonical yet
	res = execute(t, "", "fmt", "--check", path)
	require.Error(t, res.err)

	res = execute(t, "", "fmt", "-w", path)
	require.NoError(t, res.err)
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, canonical, string(written))
	assert.Contains(t, res.stderr, "cached", "second normalization of the same bytes is a cache hit")

	res = execute(t, "", "fmt", "--check", path)
	require.NoError(t, res.err)
}

func TestFmtCommandStdinWrite(t *testing.T) {
	isolate(t)
	res := execute(t, counterDoc, "fmt", "-w", "-")
	assert.True(t, merrors.Is(res.err, merrors.ErrCodeInvalidInput))
}

func TestInspectCommand(t *testing.T) {
	isolate(t)
	path := writeFile(t, "counter.mnrl", counterDoc)

	t.Run("text", func(t *testing.T) {
		res := execute(t, "", "inspect", "--nodes", path)
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "counter-demo")
		assert.Contains(t, res.stdout, "upCounter")
		assert.Contains(t, res.stdout, "count,reset")
	})

	t.Run("json", func(t *testing.T) {
		res := execute(t, "", "inspect", "-f", "json", path)
		require.NoError(t, res.err)
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
		assert.Equal(t, "counter-demo", got["id"])
		assert.Equal(t, 2.0, got["nodes"])
		assert.Equal(t, 4.0, got["input_ports"])
	})

	t.Run("yaml", func(t *testing.T) {
		res := execute(t, "", "inspect", "-f", "yaml", "--nodes", path)
		require.NoError(t, res.err)
		var got struct {
			ID       string         `yaml:"id"`
			Types    map[string]int `yaml:"types"`
			NodeList []nodeInfo     `yaml:"node_list"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &got))
		assert.Equal(t, "counter-demo", got.ID)
		assert.Equal(t, map[string]int{"upCounter": 1, "boolean": 1}, got.Types)
		require.Len(t, got.NodeList, 2)
		assert.Equal(t, []string{"in0", "in1"}, got.NodeList[1].Inputs)
	})

	t.Run("bad format", func(t *testing.T) {
		res := execute(t, "", "inspect", "-f", "xml", path)
		assert.True(t, merrors.Is(res.err, merrors.ErrCodeInvalidInput))
	})
}

func TestRenderCommand(t *testing.T) {
	configHome, _ := isolate(t)
	path := writeFile(t, "counter.mnrl", counterDoc)

	res := execute(t, "", "render", "-f", "dot", "-d", "TB", path)
	require.NoError(t, res.err)
	dot, err := os.ReadFile(strings.TrimSuffix(path, ".mnrl") + ".dot")
	require.NoError(t, err)
	assert.Contains(t, string(dot), "rankdir=TB;")

	// defaults come from the config file
	require.NoError(t, os.MkdirAll(filepath.Join(configHome, appName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configHome, appName, "config.toml"),
		[]byte("[render]\nformat = \"dot\"\nports = true\n"), 0o644))

	res = execute(t, "", "render", "-o", "-", path)
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "digraph"), res.stdout)
	assert.Contains(t, res.stdout, `"c1":"out_output" -> "b1":"in_in0"`)

	res = execute(t, "", "render", "-f", "pdf", path)
	assert.True(t, merrors.Is(res.err, merrors.ErrCodeInvalidInput))
}

func TestRenderOutputPath(t *testing.T) {
	tests := []struct {
		input, output, format, want string
	}{
		{"net.mnrl", "", "svg", "net.svg"},
		{"dir/net.json", "", "dot", "dir/net.dot"},
		{"net", "", "png", "net.png"},
		{"net.mnrl", "out.svg", "svg", "out.svg"},
		{"-", "", "svg", "-"},
	}
	for _, tt := range tests {
		if got := renderOutputPath(tt.input, tt.output, tt.format); got != tt.want {
			t.Errorf("renderOutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.output, tt.format, got, tt.want)
		}
	}
}

func TestNewCommand(t *testing.T) {
	isolate(t)

	res := execute(t, "", "new", "--id", "demo")
	require.NoError(t, res.err)
	assert.Equal(t, "{\n  \"id\": \"demo\",\n  \"nodes\": []\n}\n", res.stdout)

	res = execute(t, "", "new")
	require.NoError(t, res.err)
	var doc struct{ ID string }
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Len(t, doc.ID, 36, "default id is a UUID")

	out := writeFile(t, "exists.mnrl", "{}")
	res = execute(t, "", "new", "-o", out)
	assert.True(t, merrors.Is(res.err, merrors.ErrCodeInvalidInput))
	res = execute(t, "", "new", "-o", out, "--force", "--id", "fresh")
	require.NoError(t, res.err)

	res = execute(t, "", "validate", out)
	require.NoError(t, res.err)
}

func TestCacheCommands(t *testing.T) {
	_, cacheHome := isolate(t)
	path := writeFile(t, "counter.mnrl", counterDoc)

	res := execute(t, "", "cache", "path")
	require.NoError(t, res.err)
	assert.Equal(t, filepath.Join(cacheHome, appName)+"\n", res.stdout)

	require.NoError(t, execute(t, "", "fmt", path).err)
	res = execute(t, "", "cache", "clear")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Cleared 1 cached entries")

	res = execute(t, "", "cache", "clear")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Cache is empty")
}

func TestConfigCommands(t *testing.T) {
	configHome, _ := isolate(t)

	res := execute(t, "", "config", "path")
	require.NoError(t, res.err)
	assert.Equal(t, filepath.Join(configHome, appName, "config.toml")+"\n", res.stdout)

	res = execute(t, "", "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[render]")
	assert.Contains(t, res.stdout, `format = "svg"`)

	bad := writeFile(t, "config.toml", "[cache]\nbackend = \"s3\"\n")
	res = execute(t, "", "--config", bad, "config", "show")
	require.Error(t, res.err)
	assert.Equal(t, "cache.backend", merrors.GetSubject(res.err))
}

func TestVersion(t *testing.T) {
	isolate(t)
	res := execute(t, "", "--version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "mnrl")
}

func TestCompletion(t *testing.T) {
	isolate(t)
	res := execute(t, "", "completion", "bash")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "bash completion")
}
