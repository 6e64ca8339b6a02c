// Package catalog defines the JSON contract between the operator and the MCP
// server pods. The operator serializes the aggregated satellite set into
// three files inside the catalog ConfigMap; pods mount that ConfigMap and
// load it with this package.
package catalog

import "encoding/json"

// File names inside the mounted catalog directory.
const (
	FileTools     = "tools.json"
	FilePrompts   = "prompts.json"
	FileResources = "resources.json"
)

// Tool is one invocable capability, with the backing service already
// resolved to a cluster-internal URL.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Endpoint    string          `json:"endpoint"`
	Method      string          `json:"method,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// Variable is a named placeholder a prompt template interpolates.
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     string `json:"default,omitempty"`
}

// Prompt is one reusable template with its declared variables.
type Prompt struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Template    string     `json:"template"`
	Variables   []Variable `json:"variables,omitempty"`
}

// Parameter describes one input of a resource operation.
type Parameter struct {
	Name        string `json:"name"`
	In          string `json:"in,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// Operation is one way of accessing a resource, with the backing service
// resolved to a cluster-internal URL.
type Operation struct {
	Method     string      `json:"method,omitempty"`
	Path       string      `json:"path,omitempty"`
	Endpoint   string      `json:"endpoint"`
	Parameters []Parameter `json:"parameters,omitempty"`
}

// Content is inline resource data served without a backing service. Text and
// Blob are mutually exclusive; Blob is base64.
type Content struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// Resource is one addressable content source.
type Resource struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Content     *Content    `json:"content,omitempty"`
	Operations  []Operation `json:"operations,omitempty"`
}

// Catalog is the full aggregated capability set of one MCP server.
type Catalog struct {
	Tools     []Tool
	Prompts   []Prompt
	Resources []Resource
}
