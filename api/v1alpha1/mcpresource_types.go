package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

//+kubebuilder:object:generate=true

// OperationParameter describes a parameter accepted by a resource operation.
type OperationParameter struct {
	// Name is the parameter name.
	Name string `json:"name"`

	// In is where the parameter is carried: path, query, or header.
	In string `json:"in"`

	// Required marks the parameter as mandatory.
	Required bool `json:"required,omitempty"`

	// Description is a human-readable description of the parameter.
	Description string `json:"description,omitempty"`
}

//+kubebuilder:object:generate=true

// ResourceOperation describes an HTTP operation backing a resource.
type ResourceOperation struct {
	// Method is the HTTP method of the operation.
	Method string `json:"method"`

	// IngressPath is the path the operation is exposed under.
	IngressPath string `json:"ingressPath"`

	// Service is the backend service handling the operation.
	Service ServiceReference `json:"service"`

	// Parameters declares the operation's parameters.
	Parameters []OperationParameter `json:"parameters,omitempty"`
}

//+kubebuilder:object:generate=true

// InlineContent holds static content served directly by the MCP server.
type InlineContent struct {
	// URI identifies the content to MCP clients.
	URI string `json:"uri"`

	// MIMEType is the content type (defaults to "text/plain").
	MIMEType string `json:"mimeType,omitempty"`

	// Text is the content as plain text.
	Text string `json:"text,omitempty"`

	// Blob is base64-encoded binary content.
	Blob string `json:"blob,omitempty"`
}

//+kubebuilder:object:generate=true

// MCPResourceSpec defines the desired state of MCPResource. Exactly one of
// Operations or Content should be set.
type MCPResourceSpec struct {
	// Name is the resource name exposed to MCP clients.
	Name string `json:"name"`

	// Description is a human-readable description of the resource.
	Description string `json:"description,omitempty"`

	// Operations is the list of HTTP operations backing the resource.
	Operations []ResourceOperation `json:"operations,omitempty"`

	// Content is inline content served directly.
	Content *InlineContent `json:"content,omitempty"`
}

//+kubebuilder:object:generate=true

// MCPResourceStatus defines the observed state of MCPResource
type MCPResourceStatus struct {
	// Ready indicates the resource definition validated successfully.
	Ready bool `json:"ready,omitempty"`

	// OperationCount is the number of validated operations.
	OperationCount int32 `json:"operationCount,omitempty"`

	// LastSyncTime is when the resource was last reconciled.
	LastSyncTime *metav1.Time `json:"lastSyncTime,omitempty"`

	// Conditions represent the latest available observations
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Ready",type="boolean",JSONPath=".status.ready"
//+kubebuilder:printcolumn:name="Operations",type="integer",JSONPath=".status.operationCount"
//+kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// MCPResource is the Schema for the mcpresources API
type MCPResource struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MCPResourceSpec   `json:"spec,omitempty"`
	Status MCPResourceStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// MCPResourceList contains a list of MCPResource
type MCPResourceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MCPResource `json:"items"`
}

func init() {
	SchemeBuilder.Register(&MCPResource{}, &MCPResourceList{})
}
