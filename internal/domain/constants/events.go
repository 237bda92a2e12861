// Package constants holds configuration values shared across layers.
package constants

// Event bus providers accepted in events.provider.
const (
	EventProviderNone   = ""
	EventProviderLocal  = "local"
	EventProviderGoogle = "google"
	EventProviderKafka  = "kafka"
)
