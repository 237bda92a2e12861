package constants

// Deployment environments accepted in env.env.
const (
	EnvLocal      = "local"
	EnvDevelop    = "develop"
	EnvProduction = "production"
)
