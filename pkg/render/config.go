package render

import (
	"fmt"
	"math"
)

// ConfigError reports a configuration value that failed validation before
// any render stage ran.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("render: config %q: %s", e.Key, e.Reason)
}

// Config is a string-keyed bag of renderer settings, mirroring the
// original scene-file `Config::get(key, default)` pattern: every setting
// has a hardcoded default and an explicit type, so an unrecognized or
// unset key never silently falls through to a zero value.
type Config struct {
	values map[string]any
}

// defaults mirrors the original source's config keys, one per renderer
// setting, with the same default values PathTracingRenderer::initialize
// and MCMCPTRenderer::initialize fall back to.
var defaults = map[string]any{
	"direct_lighting":       true,
	"direct_lighting_bsdf":  1,
	"direct_lighting_light": 1,
	"full_direct_lighting":  false,
	"sampler":               "prand",
	"luminance_clamping":    0.0,
	"russian_roulette":      true,
	"min_path_length":       1,
	"max_path_length":       8,
	"large_step_prob":       0.3,
	"estimation_rounds":     1.0,
	"mutation_strength":     1.0,
	"num_workers":           0,
}

// NewConfig builds a Config from overrides layered onto the defaults above,
// and validates it immediately: an unknown sampler name, a zero sum of
// direct_lighting_bsdf + direct_lighting_light, or a non-finite literal
// fails construction with a *ConfigError rather than surfacing later.
func NewConfig(overrides map[string]any) (*Config, error) {
	values := make(map[string]any, len(defaults))
	for k, v := range defaults {
		values[k] = v
	}
	for k, v := range overrides {
		if _, known := defaults[k]; !known {
			return nil, &ConfigError{Key: k, Reason: "unknown configuration key"}
		}
		values[k] = v
	}
	cfg := &Config{values: values}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Int("direct_lighting_bsdf")+c.Int("direct_lighting_light") == 0 {
		return &ConfigError{Key: "direct_lighting_bsdf", Reason: "direct_lighting_bsdf + direct_lighting_light must not both be 0"}
	}
	for _, key := range []string{"luminance_clamping", "large_step_prob", "estimation_rounds", "mutation_strength"} {
		if v := c.Float(key); math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigError{Key: key, Reason: "must be a finite number"}
		}
	}
	if name := c.String("sampler"); name != "prand" {
		return &ConfigError{Key: "sampler", Reason: fmt.Sprintf("unknown sampler %q", name)}
	}
	return nil
}

// Bool returns the bool value for key, panicking if key is absent or not a
// bool — every key in defaults is accessed with its one fixed type, so a
// mismatch here is a programming error, not a data condition.
func (c *Config) Bool(key string) bool {
	v, ok := c.values[key].(bool)
	if !ok {
		panic(fmt.Sprintf("render: config %q is not a bool", key))
	}
	return v
}

// Int returns the int value for key, accepting a float64 override (the
// common case when overrides come from a JSON-decoded map).
func (c *Config) Int(key string) int {
	switch v := c.values[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		panic(fmt.Sprintf("render: config %q is not a number", key))
	}
}

// Float returns the float64 value for key, accepting an int override.
func (c *Config) Float(key string) float64 {
	switch v := c.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		panic(fmt.Sprintf("render: config %q is not a number", key))
	}
}

// String returns the string value for key, panicking if key is absent or
// not a string.
func (c *Config) String(key string) string {
	v, ok := c.values[key].(string)
	if !ok {
		panic(fmt.Sprintf("render: config %q is not a string", key))
	}
	return v
}
