package catalog

import "fmt"

// UnknownChannelError indicates a channel key that is not registered.
type UnknownChannelError struct {
	Key string
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("unknown channel: %s", e.Key)
}

// InvalidCatalogError indicates a vocabulary that violates catalog invariants.
type InvalidCatalogError struct {
	Message string
}

func (e *InvalidCatalogError) Error() string {
	return fmt.Sprintf("invalid catalog: %s", e.Message)
}
