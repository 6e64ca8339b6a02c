package operator

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/util/retry"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/log"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

// MCPToolReconciler validates MCPTool specs and resolves the backing
// Service into a cluster-internal endpoint URL. Aggregation into server
// catalogs happens in the MCPServer controller; this one only judges the
// tool on its own merits.
type MCPToolReconciler struct {
	client.Client
	Scheme *runtime.Scheme
	Config *OperatorConfig
}

// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcptools,verbs=get;list;watch
// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcptools/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=services,verbs=get;list;watch

func (r *MCPToolReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, reconcileErr error) {
	logger := log.FromContext(ctx)
	start := time.Now()
	defer func() { observeReconciliation("mcptool", start, reconcileErr) }()

	var tool mcpv1alpha1.MCPTool
	if err := r.Get(ctx, req.NamespacedName, &tool); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	if tool.Spec.InputSchema != nil {
		if err := ValidateInputSchema(tool.Spec.InputSchema.Raw); err != nil {
			logger.Info("MCPTool rejected", "name", tool.Name, "error", err.Error())
			if statusErr := r.patchToolStatus(ctx, &tool, func(st *mcpv1alpha1.MCPToolStatus) {
				st.Ready = false
				st.ResolvedEndpoint = ""
				setCondition(&st.Conditions, ConditionReady, metav1.ConditionFalse,
					ReasonInvalidInputSchema, err.Error())
			}); statusErr != nil {
				reconcileErr = statusErr
				return ctrl.Result{}, reconcileErr
			}
			return ctrl.Result{RequeueAfter: r.Config.InvalidSpecRequeue()}, nil
		}
	}
	if err := ValidateToolSpec(&tool.Spec); err != nil {
		logger.Info("MCPTool rejected", "name", tool.Name, "error", err.Error())
		if statusErr := r.patchToolStatus(ctx, &tool, func(st *mcpv1alpha1.MCPToolStatus) {
			st.Ready = false
			st.ResolvedEndpoint = ""
			setCondition(&st.Conditions, ConditionReady, metav1.ConditionFalse,
				ReasonInvalidSpec, err.Error())
		}); statusErr != nil {
			reconcileErr = statusErr
			return ctrl.Result{}, reconcileErr
		}
		return ctrl.Result{RequeueAfter: r.Config.InvalidSpecRequeue()}, nil
	}

	serviceNamespace := tool.Spec.Service.Namespace
	if serviceNamespace == "" {
		serviceNamespace = tool.Namespace
	}
	var backing corev1.Service
	err := r.Get(ctx, client.ObjectKey{Name: tool.Spec.Service.Name, Namespace: serviceNamespace}, &backing)
	if err != nil {
		if !apierrors.IsNotFound(err) {
			reconcileErr = wrapOperatorError(err, "failed to fetch backing Service", map[string]any{
				"tool":    tool.Name,
				"service": tool.Spec.Service.Name,
			})
			return ctrl.Result{}, reconcileErr
		}
		logger.Info("Backing Service not found", "tool", tool.Name,
			"service", tool.Spec.Service.Name, "namespace", serviceNamespace)
		if statusErr := r.patchToolStatus(ctx, &tool, func(st *mcpv1alpha1.MCPToolStatus) {
			st.Ready = false
			st.ResolvedEndpoint = ""
			setCondition(&st.Conditions, ConditionReady, metav1.ConditionFalse,
				ReasonServiceNotFound,
				fmt.Sprintf("service %s/%s does not exist", serviceNamespace, tool.Spec.Service.Name))
		}); statusErr != nil {
			reconcileErr = statusErr
			return ctrl.Result{}, reconcileErr
		}
		return ctrl.Result{RequeueAfter: r.Config.RequeueDelay()}, nil
	}

	endpoint := resolveServiceEndpoint(tool.Spec.Service, tool.Namespace)
	if err := r.patchToolStatus(ctx, &tool, func(st *mcpv1alpha1.MCPToolStatus) {
		st.Ready = true
		st.ResolvedEndpoint = endpoint
		now := metav1.Now()
		st.LastSyncTime = &now
		setCondition(&st.Conditions, ConditionReady, metav1.ConditionTrue,
			ReasonServiceResolved, fmt.Sprintf("resolved to %s", endpoint))
	}); err != nil {
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	logger.Info("MCPTool reconciled", "name", tool.Name, "endpoint", endpoint)
	return ctrl.Result{}, nil
}

func (r *MCPToolReconciler) patchToolStatus(ctx context.Context, tool *mcpv1alpha1.MCPTool, mutate func(*mcpv1alpha1.MCPToolStatus)) error {
	key := client.ObjectKeyFromObject(tool)
	return retry.RetryOnConflict(retry.DefaultBackoff, func() error {
		var current mcpv1alpha1.MCPTool
		if err := r.Get(ctx, key, &current); err != nil {
			return err
		}
		mutate(&current.Status)
		return r.Status().Update(ctx, &current)
	})
}

func (r *MCPToolReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&mcpv1alpha1.MCPTool{}).
		WithOptions(controller.Options{
			MaxConcurrentReconciles: r.Config.MaxConcurrentReconciles,
			RateLimiter: workqueue.NewItemExponentialFailureRateLimiter(
				r.Config.BackoffBase(), r.Config.BackoffMax()),
		}).
		Complete(r)
}
