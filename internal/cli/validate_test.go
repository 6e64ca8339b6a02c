package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateManifestMultiDoc(t *testing.T) {
	manifest := `
apiVersion: mcpoperator.org/v1alpha1
kind: MCPTool
metadata:
  name: search
spec:
  name: search
  service:
    name: search-svc
    port: 9000
---
apiVersion: mcpoperator.org/v1alpha1
kind: MCPPrompt
metadata:
  name: greeting
spec:
  name: greeting
  template: "Hello {{who}}"
  variables:
    - name: who
`
	results, err := validateManifest([]byte(manifest))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "MCPTool", results[0].Kind)
	assert.Equal(t, "search", results[0].Name)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, "MCPPrompt", results[1].Kind)
	assert.NoError(t, results[1].Err)
}

func TestValidateManifestReportsSpecErrors(t *testing.T) {
	manifest := `
kind: MCPPrompt
metadata:
  name: broken
spec:
  name: broken
  template: "Hello {{who}}"
`
	results, err := validateManifest([]byte(manifest))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "who")
}

func TestValidateManifestPromptUnusedVariable(t *testing.T) {
	manifest := `
kind: MCPPrompt
metadata:
  name: greeting
spec:
  name: greeting
  template: "Hello {{who}}"
  variables:
    - name: who
    - name: tone
`
	results, err := validateManifest([]byte(manifest))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "tone")
}

func TestValidateManifestServer(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		manifest := `
kind: MCPServer
metadata:
  name: demo
spec:
  redis:
    serviceName: redis-master
  toolSelector:
    matchLabels:
      server: demo
`
		results, err := validateManifest([]byte(manifest))
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.NoError(t, results[0].Err)
	})

	t.Run("empty selector rejected", func(t *testing.T) {
		manifest := `
kind: MCPServer
metadata:
  name: demo
spec:
  redis:
    serviceName: redis-master
  toolSelector: {}
`
		results, err := validateManifest([]byte(manifest))
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Error(t, results[0].Err)
		assert.Contains(t, results[0].Err.Error(), "toolSelector")
	})
}

func TestValidateManifestEdgeCases(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		results, err := validateManifest([]byte("kind: Deployment\nmetadata:\n  name: web\n"))
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Error(t, results[0].Err)
	})

	t.Run("missing kind", func(t *testing.T) {
		results, err := validateManifest([]byte("metadata:\n  name: anonymous\n"))
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Error(t, results[0].Err)
	})

	t.Run("empty documents skipped", func(t *testing.T) {
		results, err := validateManifest([]byte("---\n---\n"))
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("malformed YAML", func(t *testing.T) {
		_, err := validateManifest([]byte("kind: [unclosed"))
		require.Error(t, err)
	})

	t.Run("unnamed document", func(t *testing.T) {
		results, err := validateManifest([]byte("kind: MCPResource\nspec:\n  name: docs\n"))
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "<unnamed>", results[0].Name)
	})
}
