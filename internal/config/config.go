// Package config provides runtime configuration values for the service.
package config

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// Config holds configuration for the HTTP server, database and token signing.
type Config struct {
	HTTPAddr   string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	CORSOrigin string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load collects configuration from the environment with defaults.
// JWT_SECRET has no default; tokens signed with a guessable key are worthless.
func Load() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("env JWT_SECRET is not set")
	}
	return Config{
		HTTPAddr:   getenv("HTTP_ADDR", ":5000"),
		MongoURI:   getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getenv("MONGO_DB", "cruddb"),
		JWTSecret:  secret,
		CORSOrigin: getenv("CORS_ORIGIN", "http://localhost:3000"),
	}, nil
}

// LoadEnvFile seeds the process environment from a KEY=VALUE file, skipping
// blank lines, comments and keys already set. Missing files are ignored.
func LoadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" {
			continue
		}
		if strings.HasPrefix(ln, "#") {
			continue
		}
		if strings.HasPrefix(ln, "export ") {
			ln = strings.TrimSpace(ln[len("export "):])
		}
		i := strings.IndexByte(ln, '=')
		if i <= 0 {
			continue
		}
		k := strings.TrimSpace(ln[:i])
		v := strings.TrimSpace(ln[i+1:])
		if k == "" {
			continue
		}
		if os.Getenv(k) != "" {
			continue
		}
		os.Setenv(k, v)
	}
}
