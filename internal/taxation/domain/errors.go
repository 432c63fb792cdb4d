package domain

// ConfigurationError means the merchant's setup is incomplete (missing item
// code, unresolvable level or member). Not transient; the remote service
// must not be called.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

func NewConfigurationError(reason string) error {
	return &ConfigurationError{Reason: reason}
}

// DataError means the response was structurally valid but missing the fields
// this use case requires.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return e.Reason
}

func NewDataError(reason string) error {
	return &DataError{Reason: reason}
}
