package operator

import (
	"context"
	"fmt"
	"strings"
	"time"

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

// MCPPromptReconciler validates prompt templates against their declared
// variables. Validation fails both ways: a template referencing an
// undeclared variable and a declared variable the template never uses.
type MCPPromptReconciler struct {
	client.Client
	Scheme *runtime.Scheme
	Config *OperatorConfig
}

// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcpprompts,verbs=get;list;watch
// +kubebuilder:rbac:groups=mcpoperator.org,resources=mcpprompts/status,verbs=get;update;patch

func (r *MCPPromptReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, reconcileErr error) {
	logger := log.FromContext(ctx)
	start := time.Now()
	defer func() { observeReconciliation("mcpprompt", start, reconcileErr) }()

	var prompt mcpv1alpha1.MCPPrompt
	if err := r.Get(ctx, req.NamespacedName, &prompt); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	unused, err := ValidatePromptSpec(&prompt.Spec)
	if err != nil {
		logger.Info("MCPPrompt rejected", "name", prompt.Name, "error", err.Error())
		if statusErr := r.patchPromptStatus(ctx, &prompt, func(st *mcpv1alpha1.MCPPromptStatus) {
			st.Validated = false
			now := metav1.Now()
			st.LastValidationTime = &now
			setCondition(&st.Conditions, ConditionValidated, metav1.ConditionFalse,
				ReasonUndeclaredVariables, err.Error())
		}); statusErr != nil {
			reconcileErr = statusErr
			return ctrl.Result{}, reconcileErr
		}
		return ctrl.Result{RequeueAfter: r.Config.InvalidSpecRequeue()}, nil
	}

	if len(unused) > 0 {
		message := fmt.Sprintf("declared but unused variables: %s", strings.Join(unused, ", "))
		logger.Info("MCPPrompt rejected", "name", prompt.Name, "unusedVariables", unused)
		if statusErr := r.patchPromptStatus(ctx, &prompt, func(st *mcpv1alpha1.MCPPromptStatus) {
			st.Validated = false
			now := metav1.Now()
			st.LastValidationTime = &now
			setCondition(&st.Conditions, ConditionValidated, metav1.ConditionFalse,
				ReasonUnusedVariables, message)
		}); statusErr != nil {
			reconcileErr = statusErr
			return ctrl.Result{}, reconcileErr
		}
		return ctrl.Result{RequeueAfter: r.Config.InvalidSpecRequeue()}, nil
	}

	if err := r.patchPromptStatus(ctx, &prompt, func(st *mcpv1alpha1.MCPPromptStatus) {
		st.Validated = true
		now := metav1.Now()
		st.LastValidationTime = &now
		setCondition(&st.Conditions, ConditionValidated, metav1.ConditionTrue,
			ReasonTemplateValid, "template and declared variables agree")
	}); err != nil {
		reconcileErr = err
		return ctrl.Result{}, reconcileErr
	}

	logger.Info("MCPPrompt validated", "name", prompt.Name)
	return ctrl.Result{}, nil
}

func (r *MCPPromptReconciler) patchPromptStatus(ctx context.Context, prompt *mcpv1alpha1.MCPPrompt, mutate func(*mcpv1alpha1.MCPPromptStatus)) error {
	key := client.ObjectKeyFromObject(prompt)
	return retry.RetryOnConflict(retry.DefaultBackoff, func() error {
		var current mcpv1alpha1.MCPPrompt
		if err := r.Get(ctx, key, &current); err != nil {
			return err
		}
		mutate(&current.Status)
		return r.Status().Update(ctx, &current)
	})
}

func (r *MCPPromptReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&mcpv1alpha1.MCPPrompt{}).
		WithOptions(controller.Options{
			MaxConcurrentReconciles: r.Config.MaxConcurrentReconciles,
			RateLimiter: workqueue.NewItemExponentialFailureRateLimiter(
				r.Config.BackoffBase(), r.Config.BackoffMax()),
		}).
		Complete(r)
}
