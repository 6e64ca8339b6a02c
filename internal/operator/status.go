package operator

import (
	"context"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

// Status is written exclusively through the status subresource. With the
// subresource enabled on the CRDs, a plain object update silently drops the
// status field, so r.Status() is the only valid write path. Conflicts from a
// stale resourceVersion are retried with a fresh read up to the bounded
// attempt count of retry.DefaultBackoff before surfacing an error.

// patchServerStatus runs a read-mutate-write cycle against the MCPServer
// status subresource with conflict retry.
func (r *MCPServerReconciler) patchServerStatus(ctx context.Context, server *mcpv1alpha1.MCPServer, mutate func(*mcpv1alpha1.MCPServerStatus)) error {
	key := client.ObjectKeyFromObject(server)
	return retry.RetryOnConflict(retry.DefaultBackoff, func() error {
		var current mcpv1alpha1.MCPServer
		if err := r.Get(ctx, key, &current); err != nil {
			return err
		}
		mutate(&current.Status)
		return r.Status().Update(ctx, &current)
	})
}

// setCondition upserts a condition, bumping lastTransitionTime only when the
// status value actually changes.
func setCondition(conditions *[]metav1.Condition, conditionType string, status metav1.ConditionStatus, reason, message string) {
	meta.SetStatusCondition(conditions, metav1.Condition{
		Type:    conditionType,
		Status:  status,
		Reason:  reason,
		Message: message,
	})
}

func conditionStatus(ok bool) metav1.ConditionStatus {
	if ok {
		return metav1.ConditionTrue
	}
	return metav1.ConditionFalse
}
