package config

type GeneralConfig struct {
	BindAddress     string   `yaml:"bindAddress"`
	Port            int      `yaml:"port"`
	LogDirectory    string   `yaml:"logDirectory"`
	LogColors       bool     `yaml:"logColors"`
	JsonLogs        bool     `yaml:"jsonLogs"`
	LogLevel        string   `yaml:"logLevel"`
	TrustAnyForward bool     `yaml:"trustAnyForwardedAddress"`
	TrustedProxies  []string `yaml:"trustedProxies,flow"`
	ExposeErrors    bool     `yaml:"exposeErrors"`
	MediaEndpoint   string   `yaml:"mediaEndpoint"`
	MaxRequestBytes int64    `yaml:"maxRequestBytes"`
}

type DatabaseConfig struct {
	Engine                string `yaml:"engine"`
	MongoUri              string `yaml:"mongoUri"`
	DatabaseName          string `yaml:"databaseName"`
	StoriesCollection     string `yaml:"storiesCollection"`
	ConnectTimeoutSeconds int    `yaml:"connectTimeoutSeconds"`
}

type DatastoreConfig struct {
	Type    string            `yaml:"type"`
	Options map[string]string `yaml:"opts,flow"`
}

type CategoryUploadsConfig struct {
	AllowedTypes []string `yaml:"allowedTypes,flow"`
	MaxSizeBytes int64    `yaml:"maxBytes"`
}

type UploadsConfig struct {
	Photos CategoryUploadsConfig `yaml:"photos"`
	Videos CategoryUploadsConfig `yaml:"videos"`
}

type StoriesConfig struct {
	SearchLimit    int    `yaml:"searchLimit"`
	DefaultCountry string `yaml:"defaultCountry"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Enabled           bool    `yaml:"enabled"`
	BurstCount        int     `yaml:"burst"`
}

type MetricsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BindAddress string `yaml:"bindAddress"`
	Port        int    `yaml:"port"`
}

type SentryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dsn         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
}

type MainRepoConfig struct {
	General   GeneralConfig   `yaml:"repo"`
	Database  DatabaseConfig  `yaml:"database"`
	Datastore DatastoreConfig `yaml:"datastore"`
	Uploads   UploadsConfig   `yaml:"uploads"`
	Stories   StoriesConfig   `yaml:"stories"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Sentry    SentryConfig    `yaml:"sentry"`
}
