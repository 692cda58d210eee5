package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetPageURL() string
	GetSignInURL() string
}

// APIConfig describes where the remote match tracker API lives and how to talk to it.
type APIConfig interface {
	EnvConfig
	GetProductionAPIURL() string
	GetLocalAPIURL() string
	GetAPIBasePath() string
	GetRequestTimeout() time.Duration
}

type StorageConfig interface {
	GetStoragePrefix() string
	GetStorageFile() string
	GetStorageKey() string
}

type mainConfig struct {
	API
	Storage
}

func New() Config {
	return mainConfig{}
}
