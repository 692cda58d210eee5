package config

import "time"

const (
	productionAPIURLVar = "API_URL"
	localAPIURLVar      = "LOCAL_API_URL"
	apiBasePathVar      = "API_BASE_PATH"
	requestTimeoutVar   = "REQUEST_TIMEOUT"

	defaultLocalAPIURL    = "http://localhost:8000"
	defaultAPIBasePath    = "/api/v1"
	defaultRequestTimeout = 30 * time.Second
)

type API struct {
	EnvVars
}

var _ APIConfig = API{}

// GetProductionAPIURL returns the explicit production API override (API_URL), or "".
func (API) GetProductionAPIURL() string {
	return GetEnv(productionAPIURLVar, "")
}

func (API) GetLocalAPIURL() string {
	return GetEnv(localAPIURLVar, defaultLocalAPIURL)
}

func (API) GetAPIBasePath() string {
	return GetEnv(apiBasePathVar, defaultAPIBasePath)
}

// GetRequestTimeout parses REQUEST_TIMEOUT as a Go duration ("15s"). Invalid values fall back to 30s.
func (API) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(requestTimeoutVar, ""))
	if err != nil || d <= 0 {
		return defaultRequestTimeout
	}
	return d
}
