package operator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
	"mcp-operator/pkg/catalog"
)

// resolveServiceEndpoint builds the cluster-internal URL for a service
// reference: http://<name>.<namespace>.svc.cluster.local:<port><path>.
func resolveServiceEndpoint(ref mcpv1alpha1.ServiceReference, defaultNamespace string) string {
	namespace := ref.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}
	path := ref.Path
	if path == "" {
		path = "/"
	}
	endpoint := fmt.Sprintf("http://%s.%s.svc.cluster.local:%d%s", ref.Name, namespace, ref.Port, path)
	return collapseSlashes(endpoint)
}

// collapseSlashes removes duplicate slashes from a URL path while preserving
// the scheme separator.
func collapseSlashes(endpoint string) string {
	const marker = "\x00proto\x00"
	endpoint = strings.Replace(endpoint, "://", marker, 1)
	for strings.Contains(endpoint, "//") {
		endpoint = strings.ReplaceAll(endpoint, "//", "/")
	}
	return strings.Replace(endpoint, marker, "://", 1)
}

// buildToolEntries converts matched MCPTools into sorted catalog entries.
// Sorting by name, tie-broken on the object name, makes the serialized
// catalog deterministic regardless of discovery order; an unordered catalog
// would make every reconciliation produce a spurious diff.
func buildToolEntries(tools []mcpv1alpha1.MCPTool, namespace string) []catalog.Tool {
	sort.Slice(tools, func(i, j int) bool {
		if tools[i].Spec.Name != tools[j].Spec.Name {
			return tools[i].Spec.Name < tools[j].Spec.Name
		}
		return tools[i].Name < tools[j].Name
	})
	entries := make([]catalog.Tool, 0, len(tools))
	for i := range tools {
		tool := &tools[i]
		entry := catalog.Tool{
			Name:        tool.Spec.Name,
			Description: tool.Spec.Description,
			Endpoint:    resolveServiceEndpoint(tool.Spec.Service, namespace),
			Method:      tool.Spec.Method,
		}
		if entry.Method == "" {
			entry.Method = "POST"
		}
		if tool.Spec.InputSchema != nil && len(tool.Spec.InputSchema.Raw) > 0 {
			entry.InputSchema = json.RawMessage(tool.Spec.InputSchema.Raw)
		}
		entries = append(entries, entry)
	}
	return entries
}

// buildPromptEntries converts matched MCPPrompts into sorted catalog entries.
func buildPromptEntries(prompts []mcpv1alpha1.MCPPrompt) []catalog.Prompt {
	sort.Slice(prompts, func(i, j int) bool {
		if prompts[i].Spec.Name != prompts[j].Spec.Name {
			return prompts[i].Spec.Name < prompts[j].Spec.Name
		}
		return prompts[i].Name < prompts[j].Name
	})
	entries := make([]catalog.Prompt, 0, len(prompts))
	for i := range prompts {
		prompt := &prompts[i]
		entry := catalog.Prompt{
			Name:        prompt.Spec.Name,
			Description: prompt.Spec.Description,
			Template:    prompt.Spec.Template,
		}
		for _, v := range prompt.Spec.Variables {
			entry.Variables = append(entry.Variables, catalog.Variable{
				Name:        v.Name,
				Description: v.Description,
				Required:    v.Required,
				Default:     v.Default,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

// buildResourceEntries converts matched MCPResources into sorted catalog
// entries, resolving each operation's backing service.
func buildResourceEntries(resources []mcpv1alpha1.MCPResource, namespace string) []catalog.Resource {
	sort.Slice(resources, func(i, j int) bool {
		if resources[i].Spec.Name != resources[j].Spec.Name {
			return resources[i].Spec.Name < resources[j].Spec.Name
		}
		return resources[i].Name < resources[j].Name
	})
	entries := make([]catalog.Resource, 0, len(resources))
	for i := range resources {
		resource := &resources[i]
		entry := catalog.Resource{
			Name:        resource.Spec.Name,
			Description: resource.Spec.Description,
		}
		if content := resource.Spec.Content; content != nil {
			entry.Content = &catalog.Content{
				URI:      content.URI,
				MIMEType: content.MIMEType,
				Text:     content.Text,
				Blob:     content.Blob,
			}
		}
		for _, op := range resource.Spec.Operations {
			operation := catalog.Operation{
				Method:   op.Method,
				Path:     op.IngressPath,
				Endpoint: resolveServiceEndpoint(op.Service, namespace),
			}
			for _, param := range op.Parameters {
				operation.Parameters = append(operation.Parameters, catalog.Parameter{
					Name:        param.Name,
					In:          param.In,
					Required:    param.Required,
					Description: param.Description,
				})
			}
			entry.Operations = append(entry.Operations, operation)
		}
		entries = append(entries, entry)
	}
	return entries
}

// buildCatalogData serializes the matched satellite sets into the three
// ConfigMap keys. Each value is a JSON array sorted by entry name; the same
// satellite set always produces byte-identical output.
func buildCatalogData(server *mcpv1alpha1.MCPServer, matched *matchedSatellites) (map[string]string, error) {
	toolsJSON, err := json.Marshal(buildToolEntries(matched.Tools, server.Namespace))
	if err != nil {
		return nil, fmt.Errorf("marshal tools: %w", err)
	}
	promptsJSON, err := json.Marshal(buildPromptEntries(matched.Prompts))
	if err != nil {
		return nil, fmt.Errorf("marshal prompts: %w", err)
	}
	resourcesJSON, err := json.Marshal(buildResourceEntries(matched.Resources, server.Namespace))
	if err != nil {
		return nil, fmt.Errorf("marshal resources: %w", err)
	}

	return map[string]string{
		CatalogKeyTools:     string(toolsJSON),
		CatalogKeyPrompts:   string(promptsJSON),
		CatalogKeyResources: string(resourcesJSON),
	}, nil
}
