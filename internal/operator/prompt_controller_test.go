package operator

import (
	"context"
	"strings"
	"testing"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

func promptRequest(name string) ctrl.Request {
	return ctrl.Request{NamespacedName: types.NamespacedName{Name: name, Namespace: "default"}}
}

func TestPromptReconcileValidTemplate(t *testing.T) {
	scheme := newTestScheme(t)
	prompt := makePrompt("greeting", "demo")
	c := newTestClient(t, scheme, prompt)
	r := &MCPPromptReconciler{Client: c, Scheme: scheme, Config: testConfig()}

	if _, err := r.Reconcile(context.Background(), promptRequest("greeting")); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	var updated mcpv1alpha1.MCPPrompt
	if err := c.Get(context.Background(), types.NamespacedName{Name: "greeting", Namespace: "default"}, &updated); err != nil {
		t.Fatalf("failed to fetch prompt: %v", err)
	}
	if !updated.Status.Validated {
		t.Error("validated = false for a consistent template")
	}
	if updated.Status.LastValidationTime == nil {
		t.Error("lastValidationTime not set")
	}
	cond := meta.FindStatusCondition(updated.Status.Conditions, ConditionValidated)
	if cond == nil || cond.Status != metav1.ConditionTrue || cond.Reason != ReasonTemplateValid {
		t.Errorf("Validated condition = %+v, want True/%s", cond, ReasonTemplateValid)
	}
}

func TestPromptReconcileUndeclaredVariable(t *testing.T) {
	scheme := newTestScheme(t)
	prompt := makePrompt("greeting", "demo", func(prompt *mcpv1alpha1.MCPPrompt) {
		prompt.Spec.Template = "Summarize {{topic}} for {{audience}}"
	})
	c := newTestClient(t, scheme, prompt)
	r := &MCPPromptReconciler{Client: c, Scheme: scheme, Config: testConfig()}

	result, err := r.Reconcile(context.Background(), promptRequest("greeting"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.RequeueAfter != testConfig().InvalidSpecRequeue() {
		t.Errorf("RequeueAfter = %v, want slow retry", result.RequeueAfter)
	}

	var updated mcpv1alpha1.MCPPrompt
	if err := c.Get(context.Background(), types.NamespacedName{Name: "greeting", Namespace: "default"}, &updated); err != nil {
		t.Fatalf("failed to fetch prompt: %v", err)
	}
	if updated.Status.Validated {
		t.Error("validated = true with undeclared variable")
	}
	cond := meta.FindStatusCondition(updated.Status.Conditions, ConditionValidated)
	if cond == nil || cond.Reason != ReasonUndeclaredVariables {
		t.Errorf("Validated condition = %+v, want reason %s", cond, ReasonUndeclaredVariables)
	}
	if cond != nil && !strings.Contains(cond.Message, "audience") {
		t.Errorf("condition message %q does not name the variable", cond.Message)
	}
}

func TestPromptReconcileUnusedVariable(t *testing.T) {
	scheme := newTestScheme(t)
	prompt := makePrompt("greeting", "demo", func(prompt *mcpv1alpha1.MCPPrompt) {
		prompt.Spec.Variables = append(prompt.Spec.Variables, mcpv1alpha1.PromptVariable{Name: "tone"})
	})
	c := newTestClient(t, scheme, prompt)
	r := &MCPPromptReconciler{Client: c, Scheme: scheme, Config: testConfig()}

	result, err := r.Reconcile(context.Background(), promptRequest("greeting"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.RequeueAfter != testConfig().InvalidSpecRequeue() {
		t.Errorf("RequeueAfter = %v, want slow retry", result.RequeueAfter)
	}

	var updated mcpv1alpha1.MCPPrompt
	if err := c.Get(context.Background(), types.NamespacedName{Name: "greeting", Namespace: "default"}, &updated); err != nil {
		t.Fatalf("failed to fetch prompt: %v", err)
	}
	if updated.Status.Validated {
		t.Error("validated = true with a declared but unused variable")
	}
	cond := meta.FindStatusCondition(updated.Status.Conditions, ConditionValidated)
	if cond == nil || cond.Status != metav1.ConditionFalse || cond.Reason != ReasonUnusedVariables {
		t.Errorf("Validated condition = %+v, want False/%s", cond, ReasonUnusedVariables)
	}
	if cond != nil && !strings.Contains(cond.Message, "tone") {
		t.Errorf("condition message %q does not name the unused variable", cond.Message)
	}
}
