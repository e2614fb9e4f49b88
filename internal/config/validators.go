package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/waveformhq/wavetray/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

// validatorRegistry manages the set of registered validators.
type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

var registry = &validatorRegistry{validators: make(map[string]Validator)}

// RegisterValidator registers a validator for a configuration key.
func RegisterValidator(key string, v Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.validators[key] = v
}

// getValidator returns the validator for a key, or nil if not registered.
func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// PositiveIntValidator returns a validator that ensures a value is a
// positive integer.
func PositiveIntValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a positive integer, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// EnumValidator returns a validator that ensures a value is one of the
// allowed enum values.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		valueLower := strings.ToLower(value)
		if !allowed[valueLower] {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be one of: %s; using default: %s", key, value, allowedValues(allowed), defaultValue))
			return defaultValue, nil
		}
		return valueLower, nil
	}
}

// BoolValidator returns a validator that normalizes and validates boolean
// values.
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			colors.Warning(fmt.Sprintf("invalid boolean value for %s: '%s', must be one of: 1, true, yes, on, 0, false, no, off; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return normalized, nil
	}
}

// OriginValidator returns a validator that ensures a value is an absolute
// URL with one of the allowed schemes.
func OriginValidator(schemes ...string) Validator {
	allowed := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		allowed[s] = true
	}
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		u, err := url.Parse(value)
		if err != nil || u.Host == "" || !allowed[u.Scheme] {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an absolute URL with scheme %s; using default: %s", key, value, strings.Join(schemes, "/"), defaultValue))
			return defaultValue, nil
		}
		return strings.TrimRight(value, "/"), nil
	}
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for v := range allowed {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}

// initValidators registers all configuration validators.
func initValidators() {
	positiveInt := PositiveIntValidator()
	RegisterValidator("reconnect_delay_seconds", positiveInt)
	RegisterValidator("page_limit", positiveInt)
	RegisterValidator("log_max_files", positiveInt)

	boolValidator := BoolValidator()
	RegisterValidator("insecure_skip_auth", boolValidator)
	RegisterValidator("cache_enabled", boolValidator)
	RegisterValidator("log_enabled", boolValidator)
	RegisterValidator("quiet", boolValidator)
	RegisterValidator("debug", boolValidator)

	RegisterValidator("log_level", EnumValidator(map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}))

	RegisterValidator("api_origin", OriginValidator("http", "https"))
	RegisterValidator("push_origin", OriginValidator("ws", "wss"))
}
