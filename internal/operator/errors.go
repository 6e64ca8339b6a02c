package operator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-logr/logr"
)

// errForeignOwner aborts an apply when a child object with the expected name
// exists but is controlled by something other than the reconciled MCPServer.
// The engine must neither adopt nor delete the foreign object.
var errForeignOwner = errors.New("existing object is not controlled by this MCPServer")

// operatorError is an error enriched with a context map for structured logging.
type operatorError struct {
	message string
	context map[string]any
	cause   error
}

func (e *operatorError) Error() string {
	if len(e.context) == 0 {
		if e.cause != nil {
			return fmt.Sprintf("%s: %v", e.message, e.cause)
		}
		return e.message
	}

	keys := make([]string, 0, len(e.context))
	for k := range e.context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.context[k]))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.message, strings.Join(parts, ", "), e.cause)
	}
	return fmt.Sprintf("%s (%s)", e.message, strings.Join(parts, ", "))
}

func (e *operatorError) Unwrap() error { return e.cause }

// newOperatorError creates an error with a context map.
func newOperatorError(message string, context map[string]any) *operatorError {
	return &operatorError{message: message, context: context}
}

// wrapOperatorError wraps an underlying error with a message and context map.
func wrapOperatorError(err error, message string, context map[string]any) *operatorError {
	return &operatorError{message: message, context: context, cause: err}
}

// logOperatorError logs an error with its context map as structured key/values.
func logOperatorError(logger logr.Logger, err error, msg string) {
	var opErr *operatorError
	if errors.As(err, &opErr) {
		kv := make([]any, 0, len(opErr.context)*2)
		keys := make([]string, 0, len(opErr.context))
		for k := range opErr.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			kv = append(kv, k, opErr.context[k])
		}
		logger.Error(err, msg, kv...)
		return
	}
	logger.Error(err, msg)
}
