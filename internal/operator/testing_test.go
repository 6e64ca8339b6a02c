package operator

import (
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	mcpv1alpha1 "mcp-operator/api/v1alpha1"
)

func newTestScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := mcpv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add mcp scheme: %v", err)
	}
	if err := appsv1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add apps scheme: %v", err)
	}
	if err := corev1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add core scheme: %v", err)
	}
	if err := networkingv1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add networking scheme: %v", err)
	}
	return scheme
}

func newTestClient(t *testing.T, scheme *runtime.Scheme, objs ...client.Object) client.Client {
	t.Helper()
	return fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objs...).
		WithStatusSubresource(
			&mcpv1alpha1.MCPServer{},
			&mcpv1alpha1.MCPTool{},
			&mcpv1alpha1.MCPPrompt{},
			&mcpv1alpha1.MCPResource{},
			&appsv1.Deployment{},
		).
		Build()
}

func testConfig() *OperatorConfig {
	return &OperatorConfig{
		RequeueDelaySeconds:       RequeueDelayNotReady,
		InvalidSpecRequeueSeconds: RequeueDelayInvalidSpec,
		MaxConcurrentReconciles:   1,
		BackoffBaseSeconds:        0.5,
		BackoffMaxSeconds:         300,
	}
}

func makeServer(name string, mutate ...func(*mcpv1alpha1.MCPServer)) *mcpv1alpha1.MCPServer {
	server := &mcpv1alpha1.MCPServer{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			UID:       types.UID("uid-" + name),
		},
		Spec: mcpv1alpha1.MCPServerSpec{
			Image: "example.com/mcp-server:1.0",
			Redis: mcpv1alpha1.RedisConfig{ServiceName: "redis-master"},
			ToolSelector: metav1.LabelSelector{
				MatchLabels: map[string]string{"server": name},
			},
		},
	}
	for _, fn := range mutate {
		fn(server)
	}
	return server
}

func makeTool(name, server string, mutate ...func(*mcpv1alpha1.MCPTool)) *mcpv1alpha1.MCPTool {
	tool := &mcpv1alpha1.MCPTool{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			Labels:    map[string]string{"server": server},
		},
		Spec: mcpv1alpha1.MCPToolSpec{
			Name:        name,
			Description: "test tool",
			Service: mcpv1alpha1.ServiceReference{
				Name: name + "-svc",
				Port: 9000,
				Path: "/invoke",
			},
		},
	}
	for _, fn := range mutate {
		fn(tool)
	}
	return tool
}

func makePrompt(name, server string, mutate ...func(*mcpv1alpha1.MCPPrompt)) *mcpv1alpha1.MCPPrompt {
	prompt := &mcpv1alpha1.MCPPrompt{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			Labels:    map[string]string{"server": server},
		},
		Spec: mcpv1alpha1.MCPPromptSpec{
			Name:     name,
			Template: "Summarize {{topic}}",
			Variables: []mcpv1alpha1.PromptVariable{
				{Name: "topic", Required: true},
			},
		},
	}
	for _, fn := range mutate {
		fn(prompt)
	}
	return prompt
}

func makeResource(name, server string, mutate ...func(*mcpv1alpha1.MCPResource)) *mcpv1alpha1.MCPResource {
	resource := &mcpv1alpha1.MCPResource{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			Labels:    map[string]string{"server": server},
		},
		Spec: mcpv1alpha1.MCPResourceSpec{
			Name: name,
			Content: &mcpv1alpha1.InlineContent{
				URI:  "doc://" + name,
				Text: "inline text",
			},
		},
	}
	for _, fn := range mutate {
		fn(resource)
	}
	return resource
}
