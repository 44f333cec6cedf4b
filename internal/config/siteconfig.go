package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// SiteConfig holds the shared site configuration document. Values are opaque
// except for the specific numeric keys callers ask for.
type SiteConfig map[string]any

// LoadSiteConfig parses the site configuration file. A missing file yields an
// empty document with no error.
func LoadSiteConfig(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return SiteConfig{}, nil
		}
		return nil, fmt.Errorf("read site config: %w", err)
	}
	var cfg SiteConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	return cfg, nil
}

// Port returns the numeric value stored under key, or zero when the key is
// absent or not a usable number. Ports are sometimes recorded as strings.
func (c SiteConfig) Port(key string) int {
	switch v := c[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
