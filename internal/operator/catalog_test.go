package operator

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"k8s.io/apimachinery/pkg/runtime"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
	"mcp-operator/pkg/catalog"
)

func TestResolveServiceEndpoint(t *testing.T) {
	tests := []struct {
		name string
		ref  mcpv1alpha1.ServiceReference
		want string
	}{
		{
			name: "full reference",
			ref:  mcpv1alpha1.ServiceReference{Name: "search", Namespace: "tools", Port: 9000, Path: "/invoke"},
			want: "http://search.tools.svc.cluster.local:9000/invoke",
		},
		{
			name: "namespace defaulted",
			ref:  mcpv1alpha1.ServiceReference{Name: "search", Port: 9000, Path: "/invoke"},
			want: "http://search.default.svc.cluster.local:9000/invoke",
		},
		{
			name: "empty path becomes root",
			ref:  mcpv1alpha1.ServiceReference{Name: "search", Port: 9000},
			want: "http://search.default.svc.cluster.local:9000/",
		},
		{
			name: "double slash collapsed",
			ref:  mcpv1alpha1.ServiceReference{Name: "search", Port: 9000, Path: "//invoke//run"},
			want: "http://search.default.svc.cluster.local:9000/invoke/run",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := resolveServiceEndpoint(test.ref, "default")
			if got != test.want {
				t.Errorf("resolveServiceEndpoint() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestBuildToolEntriesSortedAndDefaulted(t *testing.T) {
	tools := []mcpv1alpha1.MCPTool{
		*makeTool("zeta", "demo"),
		*makeTool("alpha", "demo", func(tool *mcpv1alpha1.MCPTool) {
			tool.Spec.Method = "GET"
			tool.Spec.InputSchema = &runtime.RawExtension{
				Raw: []byte(`{"type":"object"}`),
			}
		}),
	}

	entries := buildToolEntries(tools, "default")
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Name != "alpha" || entries[1].Name != "zeta" {
		t.Errorf("entries not sorted by name: %q, %q", entries[0].Name, entries[1].Name)
	}
	if entries[0].Method != "GET" {
		t.Errorf("entries[0].Method = %q, want GET", entries[0].Method)
	}
	if entries[1].Method != "POST" {
		t.Errorf("entries[1].Method = %q, want default POST", entries[1].Method)
	}
	if string(entries[0].InputSchema) != `{"type":"object"}` {
		t.Errorf("entries[0].InputSchema = %s", entries[0].InputSchema)
	}
	wantEndpoint := "http://zeta-svc.default.svc.cluster.local:9000/invoke"
	if entries[1].Endpoint != wantEndpoint {
		t.Errorf("entries[1].Endpoint = %q, want %q", entries[1].Endpoint, wantEndpoint)
	}
}

func TestBuildCatalogData(t *testing.T) {
	server := makeServer("demo")
	matched := &matchedSatellites{
		Tools:     []mcpv1alpha1.MCPTool{*makeTool("alpha", "demo")},
		Prompts:   []mcpv1alpha1.MCPPrompt{*makePrompt("greeting", "demo")},
		Resources: []mcpv1alpha1.MCPResource{*makeResource("docs", "demo")},
	}

	data, err := buildCatalogData(server, matched)
	if err != nil {
		t.Fatalf("buildCatalogData() error = %v", err)
	}

	for _, key := range []string{CatalogKeyTools, CatalogKeyPrompts, CatalogKeyResources} {
		if _, ok := data[key]; !ok {
			t.Errorf("catalog missing key %q", key)
		}
	}

	var toolEntries []catalog.Tool
	if err := json.Unmarshal([]byte(data[CatalogKeyTools]), &toolEntries); err != nil {
		t.Fatalf("tools.json is not valid JSON: %v", err)
	}
	if len(toolEntries) != 1 || toolEntries[0].Name != "alpha" {
		t.Errorf("tools.json = %s", data[CatalogKeyTools])
	}

	var promptEntries []catalog.Prompt
	if err := json.Unmarshal([]byte(data[CatalogKeyPrompts]), &promptEntries); err != nil {
		t.Fatalf("prompts.json is not valid JSON: %v", err)
	}
	if len(promptEntries) != 1 || promptEntries[0].Template != "Summarize {{topic}}" {
		t.Errorf("prompts.json = %s", data[CatalogKeyPrompts])
	}
}

func TestBuildCatalogDataEmptySets(t *testing.T) {
	server := makeServer("demo")

	data, err := buildCatalogData(server, &matchedSatellites{})
	if err != nil {
		t.Fatalf("buildCatalogData() error = %v", err)
	}
	for _, key := range []string{CatalogKeyTools, CatalogKeyPrompts, CatalogKeyResources} {
		if data[key] != "[]" {
			t.Errorf("data[%q] = %q, want empty JSON array", key, data[key])
		}
	}
}

func TestBuildCatalogDataDeterministic(t *testing.T) {
	server := makeServer("demo")
	forward := &matchedSatellites{
		Tools: []mcpv1alpha1.MCPTool{*makeTool("alpha", "demo"), *makeTool("beta", "demo")},
	}
	reversed := &matchedSatellites{
		Tools: []mcpv1alpha1.MCPTool{*makeTool("beta", "demo"), *makeTool("alpha", "demo")},
	}

	first, err := buildCatalogData(server, forward)
	if err != nil {
		t.Fatalf("buildCatalogData() error = %v", err)
	}
	second, err := buildCatalogData(server, reversed)
	if err != nil {
		t.Fatalf("buildCatalogData() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("catalog depends on discovery order (-forward +reversed):\n%s", diff)
	}
}

func TestBuildCatalogDataDuplicateEntryNames(t *testing.T) {
	server := makeServer("demo")
	search := func(object string) mcpv1alpha1.MCPTool {
		return *makeTool(object, "demo", func(tool *mcpv1alpha1.MCPTool) {
			tool.Spec.Name = "search"
			tool.Spec.Description = "served by " + object
		})
	}

	forward := &matchedSatellites{Tools: []mcpv1alpha1.MCPTool{search("search-a"), search("search-b")}}
	reversed := &matchedSatellites{Tools: []mcpv1alpha1.MCPTool{search("search-b"), search("search-a")}}

	first, err := buildCatalogData(server, forward)
	if err != nil {
		t.Fatalf("buildCatalogData() error = %v", err)
	}
	second, err := buildCatalogData(server, reversed)
	if err != nil {
		t.Fatalf("buildCatalogData() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("shared entry name breaks ordering (-forward +reversed):\n%s", diff)
	}

	var entries []catalog.Tool
	if err := json.Unmarshal([]byte(second[CatalogKeyTools]), &entries); err != nil {
		t.Fatalf("tools.json is not valid JSON: %v", err)
	}
	if len(entries) != 2 || entries[0].Description != "served by search-a" {
		t.Errorf("tools.json = %s, want the search-a entry first", second[CatalogKeyTools])
	}
}
