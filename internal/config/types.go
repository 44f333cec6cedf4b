package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration for YAML unmarshalling.
type Duration struct {
	time.Duration
	explicit bool
}

// UnmarshalText parses a textual duration, accepting empty strings.
func (d *Duration) UnmarshalText(text []byte) error {
	d.explicit = true
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// MarshalText renders the duration using time.Duration formatting.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// IsSet reports whether the duration was explicitly provided or non-zero.
func (d Duration) IsSet() bool {
	return d.explicit || d.Duration != 0
}

// Manifest mirrors the shutdown.yaml document structure. The manifest is
// optional; when absent the built-in role set is used instead.
type Manifest struct {
	Version string      `yaml:"version"`
	Roles   []*RoleSpec `yaml:"roles"`
}

// RoleSpec describes one shutdown target as declared in the manifest.
type RoleSpec struct {
	Name    string      `yaml:"name"`
	PidFile string      `yaml:"pidFile"`
	Port    *PortSource `yaml:"port"`
	Pattern string      `yaml:"pattern"`
	Timeout Duration    `yaml:"timeout"`
}

// PortSource names where a role's listening port can be read from. At most
// one of RedisConf and SiteKey may be set; Default is used when the named
// source yields nothing.
type PortSource struct {
	RedisConf string `yaml:"redisConf"`
	SiteKey   string `yaml:"siteKey"`
	Default   int    `yaml:"default"`
}

// Clone creates a deep copy of the port source.
func (p *PortSource) Clone() *PortSource {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Role is a fully materialised shutdown target: all paths absolute, all
// defaults applied. Roles are constructed once per run and never mutated.
type Role struct {
	Name    string
	PidFile string
	Port    *PortSource
	Pattern string
	Timeout time.Duration
}

// ApplyDefaults fills unset per-role values on the manifest.
func (m *Manifest) ApplyDefaults() error {
	for i, role := range m.Roles {
		if role == nil {
			return fmt.Errorf("role %d is null", i)
		}
		if !role.Timeout.IsSet() {
			role.Timeout = Duration{Duration: DefaultGrace}
		}
	}
	return nil
}

// Validate enforces schema invariants.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if len(m.Roles) == 0 {
		return fmt.Errorf("at least one role must be defined")
	}
	seen := make(map[string]struct{}, len(m.Roles))
	for i, role := range m.Roles {
		if role.Name == "" {
			return fmt.Errorf("role %d missing name", i)
		}
		if _, dup := seen[role.Name]; dup {
			return fmt.Errorf("role %s declared more than once", role.Name)
		}
		seen[role.Name] = struct{}{}
		if role.PidFile == "" && role.Port == nil && role.Pattern == "" {
			return fmt.Errorf("role %s declares no resolution strategy", role.Name)
		}
		if role.Port != nil && role.Port.RedisConf != "" && role.Port.SiteKey != "" {
			return fmt.Errorf("role %s port source sets both redisConf and siteKey", role.Name)
		}
		if role.Timeout.Duration <= 0 {
			return fmt.Errorf("role %s timeout must be positive", role.Name)
		}
	}
	return nil
}
