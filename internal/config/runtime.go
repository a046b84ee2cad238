package config

import (
	"os"
	"strconv"
)

type Runtime struct {
	HTTPAddr         string
	CacheMaxItems    int
	DecisionMaxDepth int
	ObsBuffer        int
	LogLevel         string
}

func Load() Runtime {
	return Runtime{
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		CacheMaxItems:    getenvInt("MODEL_CACHE_MAX_ITEMS", 1024, 1),
		DecisionMaxDepth: getenvInt("DECISION_MAX_DEPTH", 256, 1),
		ObsBuffer:        getenvInt("DECISION_OBS_BUFFER", 4096, 1),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback, min int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		return fallback
	}
	return v
}
