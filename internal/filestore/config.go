package filestore

// Provider identifies the file source backend.
type Provider string

const (
	ProviderLocal Provider = "local"
	ProviderMinIO Provider = "minio"
)

// Config holds all settings needed to open a file source.
type Config struct {
	// Provider is the source backend (e.g. ProviderLocal).
	Provider Provider

	// Root is the directory the local provider serves keys from.
	Root string

	// Endpoint is the host:port of the object storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID (MinIO / S3 style).
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends (e.g. AWS S3).
	// Leave empty for MinIO.
	Region string

	// Bucket is the bucket the minio provider serves keys from.
	Bucket string
}

// DefaultConfig returns a local source rooted at dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		Provider: ProviderLocal,
		Root:     dir,
	}
}
