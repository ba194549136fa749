package registry

// ValidationError indicates invalid input to a registry operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "webhook validation: " + e.Field + ": " + e.Message
}

// AuthorizationError indicates the caller lacks the required capability.
// It carries no information about existing records.
type AuthorizationError struct {
	Capability string
}

func (e *AuthorizationError) Error() string {
	return "webhook authorization: missing capability " + e.Capability
}
