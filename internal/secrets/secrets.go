// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Recognized key files: twitter-consumer-api-key, twitter-consumer-api-secret,
// twitter-access-token, twitter-access-token-secret, twitter-bearer-token,
// redis-password.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// configKeys maps secret file names to configuration keys.
var configKeys = map[string]string{
	"twitter-consumer-api-key":    "twitter.consumer_key",
	"twitter-consumer-api-secret": "twitter.consumer_secret",
	"twitter-access-token":        "twitter.access_token",
	"twitter-access-token-secret": "twitter.access_token_secret",
	"twitter-bearer-token":        "twitter.bearer_token",
	"redis-password":              "checkpoint.redis_password",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ConfigValues translates loaded secrets into configuration key/value pairs.
// Files with unrecognized names are ignored.
func ConfigValues(secrets map[string]string) map[string]string {
	out := make(map[string]string)
	for name, value := range secrets {
		if key, ok := configKeys[name]; ok {
			out[key] = value
		}
	}
	return out
}

// Names returns the sorted secret names, for logging without values.
func Names(secrets map[string]string) []string {
	keys := make([]string, 0, len(secrets))
	for k := range secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
