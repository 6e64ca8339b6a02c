package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"sigs.k8s.io/controller-runtime/pkg/client"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
	"mcp-operator/internal/operator"
)

// NewStatusCmd returns the status subcommand listing MCPServer aggregates.
func NewStatusCmd(logger *zap.Logger) *cobra.Command {
	var namespace string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show MCPServer status",
		Long:  "Show readiness and catalog counts for MCPServer aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClusterClient()
			if err != nil {
				return err
			}
			return showServerStatus(cmd.Context(), logger, c, namespace)
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Only show servers in this namespace (default: all namespaces)")
	return cmd
}

func showServerStatus(ctx context.Context, logger *zap.Logger, c client.Client, namespace string) error {
	var servers mcpv1alpha1.MCPServerList
	var opts []client.ListOption
	if namespace != "" {
		opts = append(opts, client.InNamespace(namespace))
	}
	if err := c.List(ctx, &servers, opts...); err != nil {
		return fmt.Errorf("failed to list MCPServers: %w", err)
	}
	logger.Debug("listed MCPServers", zap.Int("count", len(servers.Items)))

	Header("MCP Servers")
	DefaultPrinter.Println()
	if len(servers.Items) == 0 {
		Warn("No MCPServers found")
		return nil
	}
	TableBoxed(serverStatusRows(&servers))
	return nil
}

func serverStatusRows(servers *mcpv1alpha1.MCPServerList) [][]string {
	rows := [][]string{
		{"Namespace", "Name", "Ready", "Replicas", "Tools", "Prompts", "Resources", "Last Sync"},
	}
	for _, s := range servers.Items {
		ready := Yellow("False")
		if s.Status.Ready {
			ready = Green("True")
		}

		desired := int32(operator.DefaultReplicas)
		if s.Spec.Replicas != nil {
			desired = *s.Spec.Replicas
		}

		lastSync := "never"
		if s.Status.LastSyncTime != nil {
			lastSync = s.Status.LastSyncTime.Format("2006-01-02 15:04:05")
		}

		rows = append(rows, []string{
			s.Namespace,
			s.Name,
			ready,
			fmt.Sprintf("%d/%d", s.Status.ReadyReplicas, desired),
			fmt.Sprintf("%d", s.Status.ToolCount),
			fmt.Sprintf("%d", s.Status.PromptCount),
			fmt.Sprintf("%d", s.Status.ResourceCount),
			lastSync,
		})
	}
	return rows
}
