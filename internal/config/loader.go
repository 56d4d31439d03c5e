package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load layers defaults, the YAML file at path, a .env file and finally the
// process environment. Environment keys use the upper-cased service name as
// prefix: CATALOG_SERVER_PORT sets server.port. Missing files are skipped.
func Load(service, path string) (Config, error) {
	var cfg Config
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", path, err)
		}
	}

	prefix := strings.ToUpper(service) + "_"
	toKey := func(key string) string {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(prefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	dotenv, err := godotenv.Read(".env")
	switch {
	case err == nil:
		m := make(map[string]any, len(dotenv))
		for key, value := range dotenv {
			if strings.HasPrefix(key, prefix) {
				m[toKey(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
			return cfg, fmt.Errorf("load .env: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return cfg, fmt.Errorf("read .env: %w", err)
	}

	if err := k.Load(env.Provider(prefix, ".", toKey), nil); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
