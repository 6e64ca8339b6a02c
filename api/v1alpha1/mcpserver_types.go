package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

//+kubebuilder:object:generate=true

// RedisConfig references the backing Redis service used by MCP server pods
// for sessions, caching, and rate limiting.
type RedisConfig struct {
	// ServiceName is the name of the Redis service in the same namespace.
	ServiceName string `json:"serviceName"`
}

//+kubebuilder:object:generate=true

// IngressConfig describes how the MCP server is exposed outside the cluster.
// If omitted, no Ingress is created.
type IngressConfig struct {
	// Host is the hostname for the ingress rule.
	Host string `json:"host,omitempty"`

	// TLSSecretName is the name of the TLS secret, passed through verbatim.
	TLSSecretName string `json:"tlsSecretName,omitempty"`

	// PathPrefix is the path prefix routed to the server (defaults to "/mcp").
	PathPrefix string `json:"pathPrefix,omitempty"`
}

//+kubebuilder:object:generate=true

// ServerConfig holds runtime configuration for the MCP server pods.
type ServerConfig struct {
	// RequestTimeout is the per-request timeout, e.g. "30s".
	RequestTimeout string `json:"requestTimeout,omitempty"`

	// MaxConcurrentRequests caps in-flight requests per pod.
	MaxConcurrentRequests int32 `json:"maxConcurrentRequests,omitempty"`
}

//+kubebuilder:object:generate=true

// MCPServerSpec defines the desired state of MCPServer
type MCPServerSpec struct {
	// Replicas is the number of desired replicas (defaults to 1)
	Replicas *int32 `json:"replicas,omitempty"`

	// Image is the container image for the MCP server pods.
	Image string `json:"image,omitempty"`

	// Redis references the backing state store service.
	Redis RedisConfig `json:"redis"`

	// ToolSelector selects the MCPTool/MCPPrompt/MCPResource objects aggregated
	// by this server. Labels are the only discovery mechanism; an empty selector
	// matches nothing.
	ToolSelector metav1.LabelSelector `json:"toolSelector"`

	// Ingress, if set, exposes the server through an Ingress.
	Ingress *IngressConfig `json:"ingress,omitempty"`

	// Config holds runtime configuration passed to the server pods.
	Config *ServerConfig `json:"config,omitempty"`
}

//+kubebuilder:object:generate=true

// MCPServerStatus defines the observed state of MCPServer
type MCPServerStatus struct {
	// Ready indicates the deployment is fully available.
	Ready bool `json:"ready,omitempty"`

	// ReadyReplicas is the number of ready pods behind the server.
	ReadyReplicas int32 `json:"readyReplicas,omitempty"`

	// ToolCount is the number of MCPTools matched by the selector.
	ToolCount int32 `json:"toolCount,omitempty"`

	// PromptCount is the number of MCPPrompts matched by the selector.
	PromptCount int32 `json:"promptCount,omitempty"`

	// ResourceCount is the number of MCPResources matched by the selector.
	ResourceCount int32 `json:"resourceCount,omitempty"`

	// Conditions represent the latest available observations
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// LastSyncTime is when the aggregate was last reconciled successfully.
	LastSyncTime *metav1.Time `json:"lastSyncTime,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Ready",type="boolean",JSONPath=".status.ready"
//+kubebuilder:printcolumn:name="Tools",type="integer",JSONPath=".status.toolCount"
//+kubebuilder:printcolumn:name="Prompts",type="integer",JSONPath=".status.promptCount"
//+kubebuilder:printcolumn:name="Resources",type="integer",JSONPath=".status.resourceCount"
//+kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// MCPServer is the Schema for the mcpservers API
type MCPServer struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MCPServerSpec   `json:"spec,omitempty"`
	Status MCPServerStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// MCPServerList contains a list of MCPServer
type MCPServerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MCPServer `json:"items"`
}

func init() {
	SchemeBuilder.Register(&MCPServer{}, &MCPServerList{})
}
