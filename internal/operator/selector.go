package operator

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

// matchesSelector reports whether a label set satisfies a selector. All
// match-labels and match-expressions clauses must hold. An empty selector
// matches nothing: accidental wildcard aggregation is worse than a server
// with zero tools, so "match all" must be spelled out with an expression
// such as an Exists clause.
func matchesSelector(sel *metav1.LabelSelector, lbls map[string]string) (bool, error) {
	if sel == nil || (len(sel.MatchLabels) == 0 && len(sel.MatchExpressions) == 0) {
		return false, nil
	}
	s, err := metav1.LabelSelectorAsSelector(sel)
	if err != nil {
		return false, err
	}
	return s.Matches(labels.Set(lbls)), nil
}

// selectorIsEmpty reports whether a selector has no clauses at all.
func selectorIsEmpty(sel *metav1.LabelSelector) bool {
	return sel == nil || (len(sel.MatchLabels) == 0 && len(sel.MatchExpressions) == 0)
}

// serversMatchingLabels performs the reverse lookup: it returns the key of
// every MCPServer in the namespace whose toolSelector matches the given label
// set. The cluster API has no reverse-selector query, so this scans the
// MCPServer cache; reads go through the manager's informer cache, not the API
// server.
func serversMatchingLabels(ctx context.Context, c client.Reader, namespace string, lbls map[string]string) ([]types.NamespacedName, error) {
	var servers mcpv1alpha1.MCPServerList
	if err := c.List(ctx, &servers, client.InNamespace(namespace)); err != nil {
		return nil, err
	}

	var keys []types.NamespacedName
	for i := range servers.Items {
		server := &servers.Items[i]
		ok, err := matchesSelector(&server.Spec.ToolSelector, lbls)
		if err != nil {
			// A malformed selector is reported by the server's own
			// reconciliation; it cannot own this satellite.
			continue
		}
		if ok {
			keys = append(keys, types.NamespacedName{Namespace: server.Namespace, Name: server.Name})
		}
	}
	return keys, nil
}

// matchedSatellites is the label-selected satellite set an MCPServer
// aggregates: the input to the desired-state synthesizer.
type matchedSatellites struct {
	Tools     []mcpv1alpha1.MCPTool
	Prompts   []mcpv1alpha1.MCPPrompt
	Resources []mcpv1alpha1.MCPResource
}

// gatherSatellites lists the satellites in the server's namespace and filters
// them through the server's selector. Deleted satellites simply no longer
// appear in the listing, which is how a cascade-triggered reconcile observes
// a shrinking set.
func gatherSatellites(ctx context.Context, c client.Reader, server *mcpv1alpha1.MCPServer) (*matchedSatellites, error) {
	matched := &matchedSatellites{}

	var tools mcpv1alpha1.MCPToolList
	if err := c.List(ctx, &tools, client.InNamespace(server.Namespace)); err != nil {
		return nil, err
	}
	for i := range tools.Items {
		ok, err := matchesSelector(&server.Spec.ToolSelector, tools.Items[i].Labels)
		if err != nil {
			return nil, err
		}
		if ok {
			matched.Tools = append(matched.Tools, tools.Items[i])
		}
	}

	var prompts mcpv1alpha1.MCPPromptList
	if err := c.List(ctx, &prompts, client.InNamespace(server.Namespace)); err != nil {
		return nil, err
	}
	for i := range prompts.Items {
		ok, err := matchesSelector(&server.Spec.ToolSelector, prompts.Items[i].Labels)
		if err != nil {
			return nil, err
		}
		if ok {
			matched.Prompts = append(matched.Prompts, prompts.Items[i])
		}
	}

	var resources mcpv1alpha1.MCPResourceList
	if err := c.List(ctx, &resources, client.InNamespace(server.Namespace)); err != nil {
		return nil, err
	}
	for i := range resources.Items {
		ok, err := matchesSelector(&server.Spec.ToolSelector, resources.Items[i].Labels)
		if err != nil {
			return nil, err
		}
		if ok {
			matched.Resources = append(matched.Resources, resources.Items[i])
		}
	}

	return matched, nil
}
