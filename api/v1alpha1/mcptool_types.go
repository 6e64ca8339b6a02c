package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

//+kubebuilder:object:generate=true

// ServiceReference points at a Kubernetes service backing a tool or resource
// operation.
type ServiceReference struct {
	// Name is the service name.
	Name string `json:"name"`

	// Namespace is the service namespace (defaults to the object's namespace).
	Namespace string `json:"namespace,omitempty"`

	// Port is the service port to call.
	Port int32 `json:"port"`

	// Path is the HTTP path appended to the resolved endpoint (defaults to "/").
	Path string `json:"path,omitempty"`
}

//+kubebuilder:object:generate=true

// MCPToolSpec defines the desired state of MCPTool
type MCPToolSpec struct {
	// Name is the tool name exposed to MCP clients.
	Name string `json:"name"`

	// Description is a human-readable description of the tool.
	Description string `json:"description,omitempty"`

	// Service is the backend service invoked when the tool is called.
	Service ServiceReference `json:"service"`

	// InputSchema is the JSON Schema describing the tool's arguments.
	//+kubebuilder:pruning:PreserveUnknownFields
	InputSchema *runtime.RawExtension `json:"inputSchema,omitempty"`

	// Method is the HTTP method used to invoke the tool (defaults to POST).
	Method string `json:"method,omitempty"`

	// IngressPath optionally overrides the path exposed through the ingress.
	IngressPath string `json:"ingressPath,omitempty"`
}

//+kubebuilder:object:generate=true

// MCPToolStatus defines the observed state of MCPTool
type MCPToolStatus struct {
	// Ready indicates the backing service resolved successfully.
	Ready bool `json:"ready,omitempty"`

	// ResolvedEndpoint is the cluster-internal URL of the backing service.
	ResolvedEndpoint string `json:"resolvedEndpoint,omitempty"`

	// LastSyncTime is when the tool was last reconciled.
	LastSyncTime *metav1.Time `json:"lastSyncTime,omitempty"`

	// Conditions represent the latest available observations
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Ready",type="boolean",JSONPath=".status.ready"
//+kubebuilder:printcolumn:name="Endpoint",type="string",JSONPath=".status.resolvedEndpoint"
//+kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// MCPTool is the Schema for the mcptools API
type MCPTool struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MCPToolSpec   `json:"spec,omitempty"`
	Status MCPToolStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// MCPToolList contains a list of MCPTool
type MCPToolList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MCPTool `json:"items"`
}

func init() {
	SchemeBuilder.Register(&MCPTool{}, &MCPToolList{})
}
