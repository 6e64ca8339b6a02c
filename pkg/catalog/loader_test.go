package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, FileTools, `[
		{"name":"search","endpoint":"http://search-svc.default.svc.cluster.local:9000/invoke","method":"POST","inputSchema":{"type":"object"}}
	]`)
	writeCatalogFile(t, dir, FilePrompts, `[
		{"name":"greeting","template":"Hello {{who}}","variables":[{"name":"who","required":true}]}
	]`)
	writeCatalogFile(t, dir, FileResources, `[
		{"name":"docs","content":{"uri":"doc://docs","text":"hello"}}
	]`)

	catalog, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(catalog.Tools) != 1 {
		t.Fatalf("len(Tools) = %d, want 1", len(catalog.Tools))
	}
	tool := catalog.Tools[0]
	if tool.Name != "search" || tool.Method != "POST" {
		t.Errorf("tool = %+v", tool)
	}
	if string(tool.InputSchema) != `{"type":"object"}` {
		t.Errorf("inputSchema = %s", tool.InputSchema)
	}

	if len(catalog.Prompts) != 1 || catalog.Prompts[0].Variables[0].Name != "who" {
		t.Errorf("prompts = %+v", catalog.Prompts)
	}
	if len(catalog.Resources) != 1 || catalog.Resources[0].Content.Text != "hello" {
		t.Errorf("resources = %+v", catalog.Resources)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, FileTools, `[]`)

	catalog, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v with missing files", err)
	}
	if len(catalog.Tools) != 0 || len(catalog.Prompts) != 0 || len(catalog.Resources) != 0 {
		t.Errorf("catalog = %+v, want empty", catalog)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeCatalogFile(t, dir, FilePrompts, `{not json`)

	if _, err := Load(dir); err == nil {
		t.Error("Load() accepted invalid JSON")
	}
}
