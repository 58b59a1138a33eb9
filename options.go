package refound

import "go.uber.org/zap"

// Option configures the embedded Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs            []string
	password         string
	keyPrefix        string
	vectorDimensions int
	embedder         Embedder
	logger           *zap.Logger
}

// WithRedis configures the Redis connection.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithKeyPrefix namespaces all storage keys. Defaults to "refound:".
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithVectorDimensions pins the accepted feature vector length.
// Defaults to 768.
func WithVectorDimensions(dims int) Option {
	return func(c *clientConfig) {
		c.vectorDimensions = dims
	}
}

// WithEmbedder sets the image embedding provider. Without one, Report
// returns an error; read-side operations still work.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
