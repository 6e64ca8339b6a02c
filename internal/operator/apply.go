package operator

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

// The apply engine reconciles synthesized child specs against the live
// cluster. Each child is read by its deterministic name, created if absent,
// patched if its owned fields differ, and left untouched otherwise. Applying
// an already-converged desired state performs zero writes.

// ensureControlled rejects a live object that exists but is not controlled by
// the reconciled server. It must run inside the CreateOrUpdate mutate closure
// before any field is written so a foreign object is never modified.
func ensureControlled(server *mcpv1alpha1.MCPServer, obj client.Object) error {
	if obj.GetResourceVersion() == "" {
		// Not persisted yet; this is the create path.
		return nil
	}
	owner := metav1.GetControllerOf(obj)
	if owner == nil || owner.Kind != "MCPServer" || owner.Name != server.Name || owner.UID != server.UID {
		return wrapOperatorError(errForeignOwner, "refusing to modify object", map[string]any{
			"object":    obj.GetName(),
			"namespace": obj.GetNamespace(),
			"mcpServer": server.Name,
		})
	}
	return nil
}

func (r *MCPServerReconciler) applyDeployment(ctx context.Context, server *mcpv1alpha1.MCPServer) (controllerutil.OperationResult, error) {
	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      childName(server),
			Namespace: server.Namespace,
		},
	}

	desired := buildDeploymentSpec(server)
	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, deployment, func() error {
		if err := ensureControlled(server, deployment); err != nil {
			return err
		}
		deployment.Labels = childLabels(server)
		// Only the fields this engine owns; anything else on the live spec
		// (defaulted strategy, fields set by other actors) is left alone.
		deployment.Spec.Replicas = desired.Replicas
		deployment.Spec.Selector = desired.Selector
		deployment.Spec.Template = desired.Template
		return ctrl.SetControllerReference(server, deployment, r.Scheme)
	})
	if err != nil {
		return op, err
	}

	if op != controllerutil.OperationResultNone {
		log.FromContext(ctx).Info("Deployment reconciled", "operation", op, "name", deployment.Name)
	}
	return op, nil
}

func (r *MCPServerReconciler) applyService(ctx context.Context, server *mcpv1alpha1.MCPServer) (controllerutil.OperationResult, error) {
	service := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      childName(server),
			Namespace: server.Namespace,
		},
	}

	desired := buildServiceSpec(server)
	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, service, func() error {
		if err := ensureControlled(server, service); err != nil {
			return err
		}
		service.Labels = childLabels(server)
		service.Spec.Type = desired.Type
		service.Spec.Selector = desired.Selector
		service.Spec.Ports = desired.Ports
		return ctrl.SetControllerReference(server, service, r.Scheme)
	})
	if err != nil {
		return op, err
	}

	if op != controllerutil.OperationResultNone {
		log.FromContext(ctx).Info("Service reconciled", "operation", op, "name", service.Name)
	}
	return op, nil
}

func (r *MCPServerReconciler) applyConfigMap(ctx context.Context, server *mcpv1alpha1.MCPServer, matched *matchedSatellites) (controllerutil.OperationResult, error) {
	data, err := buildCatalogData(server, matched)
	if err != nil {
		return controllerutil.OperationResultNone, err
	}

	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      configMapName(server),
			Namespace: server.Namespace,
		},
	}

	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, configMap, func() error {
		if err := ensureControlled(server, configMap); err != nil {
			return err
		}
		configMap.Labels = childLabels(server)
		configMap.Data = data
		return ctrl.SetControllerReference(server, configMap, r.Scheme)
	})
	if err != nil {
		return op, err
	}

	if op != controllerutil.OperationResultNone {
		log.FromContext(ctx).Info("ConfigMap reconciled", "operation", op, "name", configMap.Name)
	}
	return op, nil
}

// applyIngress creates or updates the Ingress when the spec declares an
// ingress block, and deletes a previously synthesized Ingress when the block
// was removed. A foreign Ingress under the expected name is never touched.
func (r *MCPServerReconciler) applyIngress(ctx context.Context, server *mcpv1alpha1.MCPServer) (controllerutil.OperationResult, error) {
	desired := buildIngressSpec(server)
	if desired == nil {
		return controllerutil.OperationResultNone, r.deleteOwnedIngress(ctx, server)
	}

	ingress := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:      childName(server),
			Namespace: server.Namespace,
		},
	}

	op, err := controllerutil.CreateOrUpdate(ctx, r.Client, ingress, func() error {
		if err := ensureControlled(server, ingress); err != nil {
			return err
		}
		ingress.Labels = childLabels(server)
		ingress.Spec.Rules = desired.Rules
		ingress.Spec.TLS = desired.TLS
		return ctrl.SetControllerReference(server, ingress, r.Scheme)
	})
	if err != nil {
		return op, err
	}

	if op != controllerutil.OperationResultNone {
		log.FromContext(ctx).Info("Ingress reconciled", "operation", op, "name", ingress.Name)
	}
	return op, nil
}

func (r *MCPServerReconciler) deleteOwnedIngress(ctx context.Context, server *mcpv1alpha1.MCPServer) error {
	var ingress networkingv1.Ingress
	key := types.NamespacedName{Name: childName(server), Namespace: server.Namespace}
	if err := r.Get(ctx, key, &ingress); err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	if err := ensureControlled(server, &ingress); err != nil {
		// Not ours; leave it alone.
		return nil
	}

	if err := r.Delete(ctx, &ingress); err != nil && !errors.IsNotFound(err) {
		return err
	}
	log.FromContext(ctx).Info("Ingress removed", "name", ingress.Name)
	return nil
}
