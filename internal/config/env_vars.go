package config

import (
	"os"
	"strings"
)

const (
	appNameVar   = "APP_NAME"
	envVar       = "ENV"
	pageURLVar   = "PAGE_URL"
	signInURLVar = "SIGN_IN_URL"

	// EnvDevelopment is the environment name used when ENV is unset.
	EnvDevelopment = "DEV"
	// EnvProduction selects the production API URL override.
	EnvProduction = "PROD"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Match Tracker")
}

// GetEnv returns the upper-cased environment name. "production" and "prod" both map to PROD.
func (EnvVars) GetEnv() string {
	env := strings.ToUpper(strings.TrimSpace(os.Getenv(envVar)))
	switch env {
	case "":
		return EnvDevelopment
	case "PRODUCTION":
		return EnvProduction
	case "DEVELOPMENT":
		return EnvDevelopment
	}
	return env
}

// GetPageURL returns the origin the consuming UI was loaded from, e.g. "https://league.example.com".
// Empty when the consumer is not page based.
func (EnvVars) GetPageURL() string {
	return GetEnv(pageURLVar, "")
}

// GetSignInURL is where users are sent once their session can no longer be refreshed.
func (EnvVars) GetSignInURL() string {
	return GetEnv(signInURLVar, "/login")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
