package config

const (
	// MaxReportNameLength is the maximum length for report names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxReportNameLength = 255

	// MaxNodeNameLength is the maximum length for folder, file and
	// library directory names.
	MaxNodeNameLength = 255

	// MaxNamePrefixLength bounds the prefix of a batch apply. The prefix is
	// prepended to existing names, so it must leave room for them.
	MaxNamePrefixLength = 100

	// MaxBatchSize is the maximum number of documents a single LinkMany
	// call or library selection may carry.
	MaxBatchSize = 500

	// MaxUploadSize is the maximum accepted upload body (50 MB).
	MaxUploadSize = 50 << 20
)
