package config

func NewDefaultMainConfig() MainRepoConfig {
	return MainRepoConfig{
		General: GeneralConfig{
			BindAddress:     "127.0.0.1",
			Port:            8000,
			LogDirectory:    "logs",
			LogColors:       false,
			JsonLogs:        false,
			LogLevel:        "info",
			TrustAnyForward: false,
			TrustedProxies: []string{
				"127.0.0.0/8",
				"::1/128",
				"10.0.0.0/8",
				"172.16.0.0/12",
				"192.168.0.0/16",
				"fc00::/7",
			},
			ExposeErrors:    false,
			MediaEndpoint:   "/api/get-veterans",
			MaxRequestBytes: 106954752, // 102mb, room for multipart framing around a 100mb video
		},
		Database: DatabaseConfig{
			Engine:                "mongo",
			MongoUri:              "mongodb://localhost:27017",
			DatabaseName:          "yusanstories",
			StoriesCollection:     "betweenmeandyusan",
			ConnectTimeoutSeconds: 10,
		},
		Datastore: DatastoreConfig{
			Type:    "gridfs",
			Options: map[string]string{},
		},
		Uploads: UploadsConfig{
			Photos: CategoryUploadsConfig{
				AllowedTypes: []string{
					"image/jpeg",
					"image/jpg",
					"image/png",
					"image/webp",
				},
				MaxSizeBytes: 10485760, // 10mb
			},
			Videos: CategoryUploadsConfig{
				AllowedTypes: []string{
					"video/mp4",
					"video/webm",
					"video/mov",
				},
				MaxSizeBytes: 104857600, // 100mb
			},
		},
		Stories: StoriesConfig{
			SearchLimit:    50,
			DefaultCountry: "United States",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 5,
			BurstCount:        10,
		},
		Metrics: MetricsConfig{
			Enabled:     false,
			BindAddress: "localhost",
			Port:        9000,
		},
		Sentry: SentryConfig{
			Enabled:     false,
			Dsn:         "not supplied",
			Environment: "",
			Debug:       false,
		},
	}
}
