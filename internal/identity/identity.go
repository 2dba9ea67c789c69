package identity

const (
	BrandName = "GridCast"
	// AppSlug is the canonical identifier for user-facing and on-disk state.
	// It intentionally matches the only supported CLI binary name.
	AppSlug = "gridcast"
	CLIName = "gridcast"

	ProjectConfigFileYML  = ".gridcast.yml"
	ProjectConfigFileYAML = ".gridcast.yaml"

	GlobalConfigFile = "config.yml"
)
