package buildinfo

const (
	// AppName is the product name stamped into persisted state and backups.
	AppName = "Gestão MPE"
	// AppSlug prefixes exported file names.
	AppSlug = "gestao-mpe"
	// AppVersion is the data-model release written to meta.appVersion.
	AppVersion = "0.3"
)

var (
	// Version will be set via ldflags during build.
	Version = "dev"
	// Commit will be set via ldflags during build.
	Commit = "none"
	// Date will be set via ldflags during build.
	Date = "unknown"
)
