package operator

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

func toolRequest(name string) ctrl.Request {
	return ctrl.Request{NamespacedName: types.NamespacedName{Name: name, Namespace: "default"}}
}

func backingService(name, namespace string) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: corev1.ServiceSpec{
			Ports: []corev1.ServicePort{{Port: 9000}},
		},
	}
}

func TestToolReconcileResolvesEndpoint(t *testing.T) {
	scheme := newTestScheme(t)
	tool := makeTool("search", "demo")
	c := newTestClient(t, scheme, tool, backingService("search-svc", "default"))
	r := &MCPToolReconciler{Client: c, Scheme: scheme, Config: testConfig()}

	result, err := r.Reconcile(context.Background(), toolRequest("search"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.RequeueAfter != 0 {
		t.Errorf("RequeueAfter = %v, want 0 for a resolved tool", result.RequeueAfter)
	}

	var updated mcpv1alpha1.MCPTool
	if err := c.Get(context.Background(), types.NamespacedName{Name: "search", Namespace: "default"}, &updated); err != nil {
		t.Fatalf("failed to fetch tool: %v", err)
	}
	if !updated.Status.Ready {
		t.Error("ready = false with backing service present")
	}
	want := "http://search-svc.default.svc.cluster.local:9000/invoke"
	if updated.Status.ResolvedEndpoint != want {
		t.Errorf("resolvedEndpoint = %q, want %q", updated.Status.ResolvedEndpoint, want)
	}
	if updated.Status.LastSyncTime == nil {
		t.Error("lastSyncTime not set")
	}
	cond := meta.FindStatusCondition(updated.Status.Conditions, ConditionReady)
	if cond == nil || cond.Reason != ReasonServiceResolved {
		t.Errorf("Ready condition = %+v, want reason %s", cond, ReasonServiceResolved)
	}
}

func TestToolReconcileMissingService(t *testing.T) {
	scheme := newTestScheme(t)
	tool := makeTool("search", "demo")
	c := newTestClient(t, scheme, tool)
	r := &MCPToolReconciler{Client: c, Scheme: scheme, Config: testConfig()}

	result, err := r.Reconcile(context.Background(), toolRequest("search"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.RequeueAfter != testConfig().RequeueDelay() {
		t.Errorf("RequeueAfter = %v, want %v to retry resolution", result.RequeueAfter, testConfig().RequeueDelay())
	}

	var updated mcpv1alpha1.MCPTool
	if err := c.Get(context.Background(), types.NamespacedName{Name: "search", Namespace: "default"}, &updated); err != nil {
		t.Fatalf("failed to fetch tool: %v", err)
	}
	if updated.Status.Ready {
		t.Error("ready = true without backing service")
	}
	cond := meta.FindStatusCondition(updated.Status.Conditions, ConditionReady)
	if cond == nil || cond.Reason != ReasonServiceNotFound {
		t.Errorf("Ready condition = %+v, want reason %s", cond, ReasonServiceNotFound)
	}
}

func TestToolReconcileServiceInOtherNamespace(t *testing.T) {
	scheme := newTestScheme(t)
	tool := makeTool("search", "demo", func(tool *mcpv1alpha1.MCPTool) {
		tool.Spec.Service.Namespace = "backends"
	})
	c := newTestClient(t, scheme, tool, backingService("search-svc", "backends"))
	r := &MCPToolReconciler{Client: c, Scheme: scheme, Config: testConfig()}

	if _, err := r.Reconcile(context.Background(), toolRequest("search")); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	var updated mcpv1alpha1.MCPTool
	if err := c.Get(context.Background(), types.NamespacedName{Name: "search", Namespace: "default"}, &updated); err != nil {
		t.Fatalf("failed to fetch tool: %v", err)
	}
	want := "http://search-svc.backends.svc.cluster.local:9000/invoke"
	if updated.Status.ResolvedEndpoint != want {
		t.Errorf("resolvedEndpoint = %q, want %q", updated.Status.ResolvedEndpoint, want)
	}
}

func TestToolReconcileInvalidSchema(t *testing.T) {
	scheme := newTestScheme(t)
	tool := makeTool("search", "demo", func(tool *mcpv1alpha1.MCPTool) {
		tool.Spec.InputSchema = &runtime.RawExtension{Raw: []byte(`{"type":12}`)}
	})
	c := newTestClient(t, scheme, tool, backingService("search-svc", "default"))
	r := &MCPToolReconciler{Client: c, Scheme: scheme, Config: testConfig()}

	result, err := r.Reconcile(context.Background(), toolRequest("search"))
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if result.RequeueAfter != testConfig().InvalidSpecRequeue() {
		t.Errorf("RequeueAfter = %v, want slow retry for invalid schema", result.RequeueAfter)
	}

	var updated mcpv1alpha1.MCPTool
	if err := c.Get(context.Background(), types.NamespacedName{Name: "search", Namespace: "default"}, &updated); err != nil {
		t.Fatalf("failed to fetch tool: %v", err)
	}
	if updated.Status.Ready {
		t.Error("ready = true with invalid schema")
	}
	cond := meta.FindStatusCondition(updated.Status.Conditions, ConditionReady)
	if cond == nil || cond.Reason != ReasonInvalidInputSchema {
		t.Errorf("Ready condition = %+v, want reason %s", cond, ReasonInvalidInputSchema)
	}
}

func TestToolReconcileMissingToolIsNoop(t *testing.T) {
	scheme := newTestScheme(t)
	c := newTestClient(t, scheme)
	r := &MCPToolReconciler{Client: c, Scheme: scheme, Config: testConfig()}

	if _, err := r.Reconcile(context.Background(), toolRequest("gone")); err != nil {
		t.Fatalf("Reconcile() error = %v for deleted tool", err)
	}
}
