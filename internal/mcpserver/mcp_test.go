package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOrch(t *testing.T, dir, name string) string {
	t.Helper()
	src := fmt.Sprintf(`#if __DESIGNER_DATA
<?xml version="1.0" encoding="utf-16"?>
<Element Type="Module" OID="{mod}">
  <Property Name="Name" Value="Contoso" />
  <Element Type="ServiceDeclaration" OID="{svc}">
    <Property Name="Name" Value="%s" />
    <Element Type="ServiceBody" OID="{body}">
      <Element Type="Receive" OID="{r1}">
        <Property Name="Name" Value="Rcv" />
        <Property Name="Activate" Value="True" />
      </Element>
      <Element Type="Send" OID="{s1}">
        <Property Name="Name" Value="Snd" />
      </Element>
    </Element>
  </Element>
</Element>
#endif // __DESIGNER_DATA
`, name)
	path := filepath.Join(dir, name+".odx")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content should be text")
	return text.Text
}

func TestNewServer(t *testing.T) {
	s := NewServer("1.0.0")
	require.NotNil(t, s)
	require.NotNil(t, s.server)
}

func TestHandleDumpModel(t *testing.T) {
	dir := t.TempDir()
	path := writeOrch(t, dir, "ProcessOrder")

	res, _, err := handleDumpModel(context.Background(), nil, InspectInput{Path: path})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := textOf(t, res)
	assert.Contains(t, out, "ProcessOrder")
	assert.Contains(t, out, "receive")
}

func TestHandleDumpModelMissingPath(t *testing.T) {
	res, _, err := handleDumpModel(context.Background(), nil, InspectInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleInspectOrchestration(t *testing.T) {
	dir := t.TempDir()
	path := writeOrch(t, dir, "ProcessOrder")

	res, _, err := handleInspectOrchestration(context.Background(), nil, InspectInput{Path: path})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "Contoso.ProcessOrder")
}

func TestHandleInspectOrchestrationBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.odx")
	require.NoError(t, os.WriteFile(path, []byte("no designer data"), 0o644))

	res, _, err := handleInspectOrchestration(context.Background(), nil, InspectInput{Path: path})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "Error:")
}

func TestHandleAnalyzeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeOrch(t, dir, "Alpha")
	writeOrch(t, dir, "Beta")

	res, _, err := handleAnalyzeDirectory(context.Background(), nil, AnalyzeDirectoryInput{
		Paths: []string{dir},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := textOf(t, res)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")
}

func TestHandleAnalyzeDirectoryEmpty(t *testing.T) {
	res, _, err := handleAnalyzeDirectory(context.Background(), nil, AnalyzeDirectoryInput{
		Paths: []string{t.TempDir()},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "no orchestration files found")
}
