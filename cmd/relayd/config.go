package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// loadEnv reads the .env file from the current working directory into the
// environment.  A missing .env is not an error, system env and defaults
// apply.
func loadEnv() error {
	return godotenv.Load()
}

// getEnv returns the value of the environment variable named by key, or
// fallback if the variable is unset or empty
func getEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// getEnvInt returns the integer value of the environment variable named by
// key, or fallback if the variable is unset, empty, or not a valid integer
func getEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}
