package operator

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

// Spec validation shared by the satellite controllers and mcpctl validate.
// Everything here is pure so the CLI can run it against manifests that were
// never applied to a cluster.

var templateVariablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

var allowedHTTPMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

// ValidateInputSchema checks that raw parses as a structurally valid JSON
// Schema. An empty schema is allowed; it means the tool takes no arguments.
func ValidateInputSchema(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	if _, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw)); err != nil {
		return fmt.Errorf("inputSchema is not a valid JSON Schema: %w", err)
	}
	return nil
}

// ValidateServerSpec applies the same precondition checks the controller
// runs before synthesizing children.
func ValidateServerSpec(spec *mcpv1alpha1.MCPServerSpec) error {
	if selectorIsEmpty(&spec.ToolSelector) {
		return fmt.Errorf("toolSelector is empty; an empty selector matches no satellites")
	}
	if _, err := matchesSelector(&spec.ToolSelector, nil); err != nil {
		return fmt.Errorf("toolSelector is malformed: %w", err)
	}
	if spec.Redis.ServiceName == "" {
		return fmt.Errorf("redis.serviceName is required")
	}
	if spec.Replicas != nil && *spec.Replicas < 0 {
		return fmt.Errorf("replicas must not be negative")
	}
	return nil
}

// ValidateToolSpec checks the fields of an MCPTool that can be judged
// without cluster access.
func ValidateToolSpec(spec *mcpv1alpha1.MCPToolSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if spec.Service.Name == "" {
		return fmt.Errorf("tool %q: service.name is required", spec.Name)
	}
	if spec.Method != "" && !allowedHTTPMethods[strings.ToUpper(spec.Method)] {
		return fmt.Errorf("tool %q: unsupported HTTP method %q", spec.Name, spec.Method)
	}
	if spec.InputSchema != nil {
		if err := ValidateInputSchema(spec.InputSchema.Raw); err != nil {
			return fmt.Errorf("tool %q: %w", spec.Name, err)
		}
	}
	return nil
}

// TemplateVariables returns the distinct variable names a prompt template
// references, in order of first appearance.
func TemplateVariables(template string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range templateVariablePattern.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// ValidatePromptSpec cross-checks the template against the declared
// variables. A reference to an undeclared variable is an error. Declared
// variables the template never uses also fail validation; they are
// returned by name so callers can say which ones.
func ValidatePromptSpec(spec *mcpv1alpha1.MCPPromptSpec) (unused []string, err error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("prompt name is required")
	}
	if spec.Template == "" {
		return nil, fmt.Errorf("prompt %q: template is required", spec.Name)
	}

	declared := make(map[string]bool, len(spec.Variables))
	for _, v := range spec.Variables {
		if v.Name == "" {
			return nil, fmt.Errorf("prompt %q: variable with empty name", spec.Name)
		}
		declared[v.Name] = true
	}

	referenced := TemplateVariables(spec.Template)
	var undeclared []string
	for _, name := range referenced {
		if !declared[name] {
			undeclared = append(undeclared, name)
		}
	}
	if len(undeclared) > 0 {
		return nil, fmt.Errorf("prompt %q: template references undeclared variables: %s",
			spec.Name, strings.Join(undeclared, ", "))
	}

	used := make(map[string]bool, len(referenced))
	for _, name := range referenced {
		used[name] = true
	}
	for _, v := range spec.Variables {
		if !used[v.Name] {
			unused = append(unused, v.Name)
		}
	}
	return unused, nil
}

// resourceSpecIsEmpty reports whether a resource exposes nothing at all:
// no operations and either no inline content or inline content with
// neither text nor blob.
func resourceSpecIsEmpty(spec *mcpv1alpha1.MCPResourceSpec) bool {
	if len(spec.Operations) > 0 {
		return false
	}
	if spec.Content == nil {
		return true
	}
	return spec.Content.Text == "" && spec.Content.Blob == ""
}

// ValidateResourceSpec checks an MCPResource's operations and inline
// content. A resource must carry at least one of the two, and inline
// content must carry text or blob.
func ValidateResourceSpec(spec *mcpv1alpha1.MCPResourceSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("resource name is required")
	}
	if len(spec.Operations) == 0 && spec.Content == nil {
		return fmt.Errorf("resource %q: at least one operation or inline content is required", spec.Name)
	}
	for i, op := range spec.Operations {
		if op.Method != "" && !allowedHTTPMethods[strings.ToUpper(op.Method)] {
			return fmt.Errorf("resource %q: operation %d: unsupported HTTP method %q", spec.Name, i, op.Method)
		}
		if op.Service.Name == "" {
			return fmt.Errorf("resource %q: operation %d: service.name is required", spec.Name, i)
		}
	}
	if spec.Content != nil {
		if spec.Content.URI == "" {
			return fmt.Errorf("resource %q: content.uri is required", spec.Name)
		}
		if spec.Content.Text == "" && spec.Content.Blob == "" {
			return fmt.Errorf("resource %q: content must carry text or blob", spec.Name)
		}
		if spec.Content.Text != "" && spec.Content.Blob != "" {
			return fmt.Errorf("resource %q: content.text and content.blob are mutually exclusive", spec.Name)
		}
		if spec.Content.Blob != "" {
			if _, err := base64.StdEncoding.DecodeString(spec.Content.Blob); err != nil {
				return fmt.Errorf("resource %q: content.blob is not valid base64: %w", spec.Name, err)
			}
		}
	}
	return nil
}
