package operator

import (
	"context"
	"errors"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

// StateStorePinger probes the shared session store backing a server. The
// reconciler only needs liveness, so the full store API stays out of the
// controller's reach.
type StateStorePinger interface {
	PingService(ctx context.Context, serviceName, namespace string) error
}

// MCPServerReconciler drives an MCPServer aggregate to its desired state:
// it gathers the satellites the server's selector matches, synthesizes the
// Deployment, Service, ConfigMap and optional Ingress children, and reports
// readiness and catalog counts through the status subresource.
type MCPServerReconciler struct {
	client.Client
	Scheme *runtime.Scheme
	Config *OperatorConfig

	// StateStore is optional; when set and Config.ProbeBackingStore is
	// enabled, each reconciliation surfaces store reachability as a
	// BackingStoreReady condition.
	StateStore StateStorePinger
}

// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcpservers,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcpservers/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcptools;mcpprompts;mcpresources,verbs=get;list;watch
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services;configmaps,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingresses,verbs=get;list;watch;create;update;patch;delete

func (r *MCPServerReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, reconcileErr error) {
	logger := log.FromContext(ctx)
	start := time.Now()
	defer func() { observeReconciliation("mcpserver", start, reconcileErr) }()

	var server mcpv1alpha1.MCPServer
	if err := r.Get(ctx, req.NamespacedName, &server); err != nil {
		if apierrors.IsNotFound(err) {
			// Children carry owner references and are collected by
			// the garbage collector; nothing to clean up here.
			return ctrl.Result{}, nil
		}
		reconcileErr = wrapOperatorError(err, "failed to fetch MCPServer", map[string]any{
			"name":      req.Name,
			"namespace": req.Namespace,
		})
		return ctrl.Result{}, reconcileErr
	}

	logger.Info("Reconciling MCPServer", "name", server.Name, "namespace", server.Namespace)

	if invalidReason, invalidMsg := r.validateSpec(&server); invalidReason != "" {
		logger.Info("MCPServer spec is not reconcilable", "reason", invalidReason, "detail", invalidMsg)
		if err := r.patchServerStatus(ctx, &server, func(st *mcpv1alpha1.MCPServerStatus) {
			st.Ready = false
			st.ReadyReplicas = 0
			setCondition(&st.Conditions, ConditionReady, metav1.ConditionFalse, invalidReason, invalidMsg)
			now := metav1.Now()
			st.LastSyncTime = &now
		}); err != nil {
			reconcileErr = err
			return ctrl.Result{}, reconcileErr
		}
		// An invalid spec only converges through a spec edit, which
		// triggers its own event; the slow requeue is a safety net.
		return ctrl.Result{RequeueAfter: r.Config.InvalidSpecRequeue()}, nil
	}

	matched, err := gatherSatellites(ctx, r.Client, &server)
	if err != nil {
		reconcileErr = wrapOperatorError(err, "failed to gather satellites", map[string]any{
			"server":    server.Name,
			"namespace": server.Namespace,
		})
		return ctrl.Result{}, reconcileErr
	}
	recordManagedCounts(server.Name, server.Namespace, matched)

	if err := r.applyChildren(ctx, &server, matched); err != nil {
		if errors.Is(err, errForeignOwner) {
			logOperatorError(logger, err, "Refusing to adopt foreign object")
			if statusErr := r.patchServerStatus(ctx, &server, func(st *mcpv1alpha1.MCPServerStatus) {
				st.Ready = false
				setCondition(&st.Conditions, ConditionReady, metav1.ConditionFalse,
					ReasonOwnershipConflict, err.Error())
			}); statusErr != nil {
				reconcileErr = statusErr
				return ctrl.Result{}, reconcileErr
			}
			reconcileErr = err
			return ctrl.Result{}, reconcileErr
		}
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	ready, readyReplicas, err := r.checkDeploymentReadiness(ctx, &server)
	if err != nil {
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	storeOK, storeMsg := r.probeBackingStore(ctx, &server)

	if err := r.patchServerStatus(ctx, &server, func(st *mcpv1alpha1.MCPServerStatus) {
		st.Ready = ready
		st.ReadyReplicas = readyReplicas
		st.ToolCount = int32(len(matched.Tools))
		st.PromptCount = int32(len(matched.Prompts))
		st.ResourceCount = int32(len(matched.Resources))
		now := metav1.Now()
		st.LastSyncTime = &now

		if ready {
			setCondition(&st.Conditions, ConditionReady, metav1.ConditionTrue,
				ReasonDeploymentReady, "All replicas are ready")
		} else {
			setCondition(&st.Conditions, ConditionReady, metav1.ConditionFalse,
				ReasonDeploymentNotReady,
				fmt.Sprintf("%d/%d replicas ready", readyReplicas, *serverReplicas(&server)))
		}
		if r.Config.ProbeBackingStore && r.StateStore != nil {
			reason := ReasonStoreReachable
			if !storeOK {
				reason = ReasonStoreUnreachable
			}
			setCondition(&st.Conditions, ConditionBackingStore, conditionStatus(storeOK), reason, storeMsg)
		}
	}); err != nil {
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	if !ready {
		return ctrl.Result{RequeueAfter: r.Config.RequeueDelay()}, nil
	}

	logger.Info("MCPServer reconciled",
		"name", server.Name,
		"tools", len(matched.Tools),
		"prompts", len(matched.Prompts),
		"resources", len(matched.Resources))
	return ctrl.Result{}, nil
}

// validateSpec checks the preconditions that make a server permanently
// unreconcilable until edited. It returns an empty reason when the spec is
// acceptable.
func (r *MCPServerReconciler) validateSpec(server *mcpv1alpha1.MCPServer) (reason, message string) {
	if selectorIsEmpty(&server.Spec.ToolSelector) {
		return ReasonEmptyToolSelector, "toolSelector is empty; an empty selector matches no satellites"
	}
	if _, err := matchesSelector(&server.Spec.ToolSelector, nil); err != nil {
		return ReasonInvalidSpec, fmt.Sprintf("toolSelector is malformed: %v", err)
	}
	if server.Spec.Redis.ServiceName == "" {
		return ReasonInvalidSpec, "redis.serviceName is required"
	}
	return "", ""
}

// applyChildren converges every child object. The ConfigMap goes first so a
// fresh pod never starts against a stale catalog.
func (r *MCPServerReconciler) applyChildren(ctx context.Context, server *mcpv1alpha1.MCPServer, matched *matchedSatellites) error {
	if _, err := r.applyConfigMap(ctx, server, matched); err != nil {
		return err
	}
	if _, err := r.applyDeployment(ctx, server); err != nil {
		return err
	}
	if _, err := r.applyService(ctx, server); err != nil {
		return err
	}
	if _, err := r.applyIngress(ctx, server); err != nil {
		return err
	}
	return nil
}

func (r *MCPServerReconciler) checkDeploymentReadiness(ctx context.Context, server *mcpv1alpha1.MCPServer) (bool, int32, error) {
	var deployment appsv1.Deployment
	key := client.ObjectKey{Name: childName(server), Namespace: server.Namespace}
	if err := r.Get(ctx, key, &deployment); err != nil {
		if apierrors.IsNotFound(err) {
			return false, 0, nil
		}
		return false, 0, wrapOperatorError(err, "failed to fetch Deployment", map[string]any{
			"name":      key.Name,
			"namespace": key.Namespace,
		})
	}
	desired := *serverReplicas(server)
	readyReplicas := deployment.Status.ReadyReplicas
	return readyReplicas == desired && desired > 0, readyReplicas, nil
}

func (r *MCPServerReconciler) probeBackingStore(ctx context.Context, server *mcpv1alpha1.MCPServer) (bool, string) {
	if !r.Config.ProbeBackingStore || r.StateStore == nil {
		return true, ""
	}
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.StateStore.PingService(probeCtx, server.Spec.Redis.ServiceName, server.Namespace); err != nil {
		return false, fmt.Sprintf("session store %q unreachable: %v", server.Spec.Redis.ServiceName, err)
	}
	return true, fmt.Sprintf("session store %q reachable", server.Spec.Redis.ServiceName)
}

// SetupWithManager wires the controller: it owns the synthesized children
// and watches the three satellite kinds so label changes anywhere in the
// namespace re-trigger the owning servers.
func (r *MCPServerReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&mcpv1alpha1.MCPServer{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&networkingv1.Ingress{}).
		Watches(&mcpv1alpha1.MCPTool{}, handler.EnqueueRequestsFromMapFunc(r.mapSatelliteToServers)).
		Watches(&mcpv1alpha1.MCPPrompt{}, handler.EnqueueRequestsFromMapFunc(r.mapSatelliteToServers)).
		Watches(&mcpv1alpha1.MCPResource{}, handler.EnqueueRequestsFromMapFunc(r.mapSatelliteToServers)).
		WithOptions(controller.Options{
			MaxConcurrentReconciles: r.Config.MaxConcurrentReconciles,
			RateLimiter: workqueue.NewItemExponentialFailureRateLimiter(
				r.Config.BackoffBase(), r.Config.BackoffMax()),
		}).
		Complete(r)
}
