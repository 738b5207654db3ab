package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load .env before any of the configuration variables below are evaluated.
var _ = godotenv.Load()

var (
	BENCHMARK_DEVICE       = StringEnv("BENCHMARK_DEVICE", "cuda")
	BENCHMARK_DTYPE        = StringEnv("BENCHMARK_DTYPE", "float32")
	BENCHMARK_REPEAT       = IntEnv("BENCHMARK_REPEAT", 50)
	BENCHMARK_OUTPUT_DIR   = StringEnv("BENCHMARK_OUTPUT_DIR", "benchmark_logs")
	BENCHMARK_CLEAR_CACHES = BoolEnv("BENCHMARK_CLEAR_CACHES", false)
	BENCHMARK_DB_URL       = StringEnv("BENCHMARK_DB_URL", "")
	BENCHMARK_DB_TOKEN     = StringEnv("BENCHMARK_DB_TOKEN", "")
)

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
