// Package constants holds shared domain constants.
package constants

const (
	// EnvDevelop marks a local development deployment.
	EnvDevelop = "develop"
	// EnvProduction marks a production deployment.
	EnvProduction = "production"
)

const (
	// PubSubProviderLocal selects the local HTTP publisher for development.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle selects Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
)
