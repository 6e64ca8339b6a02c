package operator

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

// mapSatelliteToServers fans a satellite event out to every MCPServer in the
// same namespace whose toolSelector matches the satellite's labels. The
// request carries no payload about what changed; the server reconcile
// re-lists live satellites, so deletions converge the same way as updates.
func (r *MCPServerReconciler) mapSatelliteToServers(ctx context.Context, obj client.Object) []reconcile.Request {
	keys, err := serversMatchingLabels(ctx, r.Client, obj.GetNamespace(), obj.GetLabels())
	if err != nil {
		log.FromContext(ctx).Error(err, "Failed to map satellite to servers",
			"satellite", obj.GetName(), "namespace", obj.GetNamespace())
		return nil
	}
	requests := make([]reconcile.Request, 0, len(keys))
	for _, key := range keys {
		requests = append(requests, reconcile.Request{NamespacedName: key})
	}
	return requests
}
