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

// MCPResourceReconciler validates MCPResource operations and inline
// content, checks that every operation's Service exists, and keeps
// operationCount current in status.
type MCPResourceReconciler struct {
	client.Client
	Scheme *runtime.Scheme
	Config *OperatorConfig
}

// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcpresources,verbs=get;list;watch
// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcpresources/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=services,verbs=get;list;watch

func (r *MCPResourceReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, reconcileErr error) {
	logger := log.FromContext(ctx)
	start := time.Now()
	defer func() { observeReconciliation("mcpresource", start, reconcileErr) }()

	var resource mcpv1alpha1.MCPResource
	if err := r.Get(ctx, req.NamespacedName, &resource); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	if err := ValidateResourceSpec(&resource.Spec); err != nil {
		logger.Info("MCPResource rejected", "name", resource.Name, "error", err.Error())
		reason := ReasonInvalidSpec
		if resourceSpecIsEmpty(&resource.Spec) {
			reason = ReasonEmptyContent
		}
		if statusErr := r.patchResourceStatus(ctx, &resource, func(st *mcpv1alpha1.MCPResourceStatus) {
			st.Ready = false
			st.OperationCount = 0
			setCondition(&st.Conditions, ConditionReady, metav1.ConditionFalse, reason, err.Error())
		}); statusErr != nil {
			reconcileErr = statusErr
			return ctrl.Result{}, reconcileErr
		}
		return ctrl.Result{RequeueAfter: r.Config.InvalidSpecRequeue()}, nil
	}

	// Every operation's Service must exist before the resource is usable.
	for _, op := range resource.Spec.Operations {
		serviceNamespace := op.Service.Namespace
		if serviceNamespace == "" {
			serviceNamespace = resource.Namespace
		}
		var backing corev1.Service
		err := r.Get(ctx, client.ObjectKey{Name: op.Service.Name, Namespace: serviceNamespace}, &backing)
		if err == nil {
			continue
		}
		if !apierrors.IsNotFound(err) {
			reconcileErr = wrapOperatorError(err, "failed to fetch operation Service", map[string]any{
				"resource": resource.Name,
				"service":  op.Service.Name,
			})
			return ctrl.Result{}, reconcileErr
		}
		logger.Info("Operation Service not found", "resource", resource.Name,
			"service", op.Service.Name, "namespace", serviceNamespace)
		if statusErr := r.patchResourceStatus(ctx, &resource, func(st *mcpv1alpha1.MCPResourceStatus) {
			st.Ready = false
			st.OperationCount = 0
			setCondition(&st.Conditions, ConditionReady, metav1.ConditionFalse,
				ReasonServiceNotFound,
				fmt.Sprintf("service %s/%s does not exist", serviceNamespace, op.Service.Name))
		}); statusErr != nil {
			reconcileErr = statusErr
			return ctrl.Result{}, reconcileErr
		}
		return ctrl.Result{RequeueAfter: r.Config.RequeueDelay()}, nil
	}

	reason := ReasonOperationsValid
	message := "all operations reference an existing service"
	if len(resource.Spec.Operations) == 0 {
		reason = ReasonContentValid
		message = "inline content is well formed"
	}
	if err := r.patchResourceStatus(ctx, &resource, func(st *mcpv1alpha1.MCPResourceStatus) {
		st.Ready = true
		st.OperationCount = int32(len(resource.Spec.Operations))
		now := metav1.Now()
		st.LastSyncTime = &now
		setCondition(&st.Conditions, ConditionReady, metav1.ConditionTrue, reason, message)
	}); err != nil {
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	logger.Info("MCPResource reconciled", "name", resource.Name,
		"operations", len(resource.Spec.Operations))
	return ctrl.Result{}, nil
}

func (r *MCPResourceReconciler) patchResourceStatus(ctx context.Context, resource *mcpv1alpha1.MCPResource, mutate func(*mcpv1alpha1.MCPResourceStatus)) error {
	key := client.ObjectKeyFromObject(resource)
	return retry.RetryOnConflict(retry.DefaultBackoff, func() error {
		var current mcpv1alpha1.MCPResource
		if err := r.Get(ctx, key, &current); err != nil {
			return err
		}
		mutate(&current.Status)
		return r.Status().Update(ctx, &current)
	})
}

func (r *MCPResourceReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&mcpv1alpha1.MCPResource{}).
		WithOptions(controller.Options{
			MaxConcurrentReconciles: r.Config.MaxConcurrentReconciles,
			RateLimiter: workqueue.NewItemExponentialFailureRateLimiter(
				r.Config.BackoffBase(), r.Config.BackoffMax()),
		}).
		Complete(r)
}
