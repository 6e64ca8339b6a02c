package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
	"mcp-operator/internal/operator"
)

// NewValidateCmd returns the validate subcommand, which applies the same
// spec checks the controllers run but against local manifests, so mistakes
// surface before anything reaches a cluster.
func NewValidateCmd(logger *zap.Logger) *cobra.Command {
	var files []string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate MCP manifests offline",
		Long:  "Validate MCPServer, MCPTool, MCPPrompt and MCPResource manifests without cluster access",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(logger, files)
		},
	}
	cmd.Flags().StringSliceVarP(&files, "filename", "f", nil, "Manifest file to validate (repeatable, '-' for stdin)")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

// validationResult is the outcome of validating one manifest document.
type validationResult struct {
	Kind string
	Name string
	Err  error
}

func runValidate(logger *zap.Logger, files []string) error {
	var results []validationResult
	for _, file := range files {
		data, err := readManifest(file)
		if err != nil {
			return err
		}
		fileResults, err := validateManifest(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		logger.Debug("validated manifest", zap.String("file", file), zap.Int("documents", len(fileResults)))
		results = append(results, fileResults...)
	}

	if len(results) == 0 {
		Warn("No documents found")
		return nil
	}

	rows := [][]string{{"Kind", "Name", "Result"}}
	failed := 0
	for _, r := range results {
		outcome := Green("valid")
		if r.Err != nil {
			outcome = Red(r.Err.Error())
			failed++
		}
		rows = append(rows, []string{r.Kind, r.Name, outcome})
	}
	Table(rows)
	DefaultPrinter.Println()

	if failed > 0 {
		Error(fmt.Sprintf("%d of %d documents failed validation", failed, len(results)))
		return errors.New("validation failed")
	}
	Success(fmt.Sprintf("All %d documents are valid", len(results)))
	return nil
}

func readManifest(file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file) // #nosec G304 -- user-supplied manifest path.
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, nil
}

// validateManifest checks every YAML document in data. A malformed document
// stops the run; a document that parses but fails a spec check is reported
// in its result.
func validateManifest(data []byte) ([]validationResult, error) {
	var results []validationResult

	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	for {
		var doc map[string]any
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if len(doc) == 0 {
			continue
		}
		results = append(results, validateDocument(doc))
	}
	return results, nil
}

func validateDocument(doc map[string]any) validationResult {
	kind, _ := doc["kind"].(string)
	result := validationResult{Kind: kind, Name: documentName(doc)}

	switch kind {
	case "MCPServer":
		var server mcpv1alpha1.MCPServer
		if err := decodeTyped(doc, &server); err != nil {
			result.Err = err
			return result
		}
		result.Err = operator.ValidateServerSpec(&server.Spec)
	case "MCPTool":
		var tool mcpv1alpha1.MCPTool
		if err := decodeTyped(doc, &tool); err != nil {
			result.Err = err
			return result
		}
		result.Err = operator.ValidateToolSpec(&tool.Spec)
	case "MCPPrompt":
		var prompt mcpv1alpha1.MCPPrompt
		if err := decodeTyped(doc, &prompt); err != nil {
			result.Err = err
			return result
		}
		unused, err := operator.ValidatePromptSpec(&prompt.Spec)
		switch {
		case err != nil:
			result.Err = err
		case len(unused) > 0:
			result.Err = fmt.Errorf("prompt %q: declared but unused variables: %s",
				prompt.Spec.Name, strings.Join(unused, ", "))
		}
	case "MCPResource":
		var resource mcpv1alpha1.MCPResource
		if err := decodeTyped(doc, &resource); err != nil {
			result.Err = err
			return result
		}
		result.Err = operator.ValidateResourceSpec(&resource.Spec)
	case "":
		result.Err = errors.New("document has no kind")
	default:
		result.Err = fmt.Errorf("unsupported kind %q", kind)
	}
	return result
}

func documentName(doc map[string]any) string {
	metadata, ok := doc["metadata"].(map[string]any)
	if !ok {
		return "<unnamed>"
	}
	name, ok := metadata["name"].(string)
	if !ok || name == "" {
		return "<unnamed>"
	}
	return name
}

// decodeTyped converts a parsed YAML document into a typed API object via a
// JSON round trip, matching how the API server would interpret the manifest.
func decodeTyped(doc map[string]any, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to re-encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
