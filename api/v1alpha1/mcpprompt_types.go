package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

//+kubebuilder:object:generate=true

// PromptVariable declares a variable used in a prompt template.
type PromptVariable struct {
	// Name is the variable name as it appears in {{name}} placeholders.
	Name string `json:"name"`

	// Description is a human-readable description of the variable.
	Description string `json:"description,omitempty"`

	// Required marks the variable as mandatory when the prompt is rendered.
	Required bool `json:"required,omitempty"`

	// Default is the value used when the variable is not supplied.
	Default string `json:"default,omitempty"`
}

//+kubebuilder:object:generate=true

// MCPPromptSpec defines the desired state of MCPPrompt
type MCPPromptSpec struct {
	// Name is the prompt name exposed to MCP clients.
	Name string `json:"name"`

	// Description is a human-readable description of the prompt.
	Description string `json:"description,omitempty"`

	// Template is the prompt template with {{variable}} placeholders.
	Template string `json:"template"`

	// Variables declares every variable used in the template.
	Variables []PromptVariable `json:"variables,omitempty"`

	// IngressPath optionally overrides the path exposed through the ingress.
	IngressPath string `json:"ingressPath,omitempty"`
}

//+kubebuilder:object:generate=true

// MCPPromptStatus defines the observed state of MCPPrompt
type MCPPromptStatus struct {
	// Validated indicates the template and declared variables are consistent.
	Validated bool `json:"validated,omitempty"`

	// LastValidationTime is when the prompt was last validated.
	LastValidationTime *metav1.Time `json:"lastValidationTime,omitempty"`

	// Conditions represent the latest available observations
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Validated",type="boolean",JSONPath=".status.validated"
//+kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// MCPPrompt is the Schema for the mcpprompts API
type MCPPrompt struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MCPPromptSpec   `json:"spec,omitempty"`
	Status MCPPromptStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// MCPPromptList contains a list of MCPPrompt
type MCPPromptList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MCPPrompt `json:"items"`
}

func init() {
	SchemeBuilder.Register(&MCPPrompt{}, &MCPPromptList{})
}
