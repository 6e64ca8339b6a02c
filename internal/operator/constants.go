// Package operator provides the Kubernetes controllers for the MCP serving
// topology: the MCPServer aggregate and its MCPTool/MCPPrompt/MCPResource
// satellites.
package operator

// Child object naming.
const (
	// ChildNamePrefix prefixes every synthesized child object name.
	ChildNamePrefix = "mcp-server-"
	// ConfigMapNameSuffix is appended to the child name for the ConfigMap.
	ConfigMapNameSuffix = "-config"
)

// MCPServer defaults.
const (
	// DefaultReplicas is the default number of replicas.
	DefaultReplicas = 1
	// MCPPort is the fixed port MCP server pods listen on.
	MCPPort = 8080
	// DefaultImage is the container image used when the spec does not name one.
	DefaultImage = "ghcr.io/mcp-operator/mcp-server:latest"
	// DefaultPathPrefix is the default ingress path prefix.
	DefaultPathPrefix = "/mcp"
	// DefaultRequestTimeout is the default per-request timeout.
	DefaultRequestTimeout = "30s"
	// DefaultMaxConcurrentRequests is the default in-flight request cap.
	DefaultMaxConcurrentRequests = 100
	// ConfigMountPath is where the catalog ConfigMap is mounted in the pod.
	ConfigMountPath = "/etc/mcp/config"
)

// Labels used by the operator.
const (
	// LabelName is the standard name label key.
	LabelName = "app.kubernetes.io/name"
	// LabelInstance is the standard instance label key.
	LabelInstance = "app.kubernetes.io/instance"
	// LabelManagedBy is the label indicating the managing controller.
	LabelManagedBy = "app.kubernetes.io/managed-by"
	// LabelServer ties a child object back to its owning MCPServer.
	LabelServer = "mcpoperator.org/server"
	// LabelNameValue is the value of the name label on every child.
	LabelNameValue = "mcp-server"
	// LabelManagedByValue is the value for the managed-by label.
	LabelManagedByValue = "mcp-operator"
)

// ConfigMap catalog keys consumed by the MCP server pods.
const (
	// CatalogKeyTools holds the JSON array of aggregated tools.
	CatalogKeyTools = "tools.json"
	// CatalogKeyPrompts holds the JSON array of aggregated prompts.
	CatalogKeyPrompts = "prompts.json"
	// CatalogKeyResources holds the JSON array of aggregated resources.
	CatalogKeyResources = "resources.json"
)

// Condition types written to status subresources.
const (
	// ConditionReady is the readiness condition type.
	ConditionReady = "Ready"
	// ConditionValidated is the prompt validation condition type.
	ConditionValidated = "Validated"
	// ConditionBackingStore reports reachability of the Redis state store.
	ConditionBackingStore = "BackingStoreReady"
)

// Condition reasons.
const (
	ReasonDeploymentReady     = "DeploymentReady"
	ReasonDeploymentNotReady  = "DeploymentNotReady"
	ReasonEmptyToolSelector   = "EmptyToolSelector"
	ReasonInvalidSpec         = "InvalidSpec"
	ReasonOwnershipConflict   = "OwnershipConflict"
	ReasonServiceNotFound     = "ServiceNotFound"
	ReasonServiceResolved     = "ServiceResolved"
	ReasonInvalidInputSchema  = "InvalidInputSchema"
	ReasonUndeclaredVariables = "UndeclaredVariables"
	ReasonUnusedVariables     = "UnusedVariables"
	ReasonTemplateValid       = "TemplateValid"
	ReasonContentValid        = "ContentValid"
	ReasonEmptyContent        = "EmptyContent"
	ReasonOperationsValid     = "OperationsValid"
	ReasonStoreReachable      = "StoreReachable"
	ReasonStoreUnreachable    = "StoreUnreachable"
)

// Requeue delays for reconciliation.
const (
	// RequeueDelayNotReady is the delay in seconds before requeueing when
	// resources are not ready.
	RequeueDelayNotReady = 10
	// RequeueDelayInvalidSpec is the slow-retry delay in seconds for
	// validation failures; the input will not change until someone edits it.
	RequeueDelayInvalidSpec = 300
)
