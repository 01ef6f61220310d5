package config

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/magiconair/properties"

	"practice-api-tester/internal/errs"
	"practice-api-tester/internal/resource"
	"practice-api-tester/internal/types"
)

// ResourceName is the logical name of the configuration source
const ResourceName = "config/config.properties"

// Recognized keys
const (
	KeyContentType = "api.content.type"
	KeyAuthHeader  = "api.auth.header"
	KeyTimeout     = "http.timeout.seconds"
	KeyReportDir   = "report.output.dir"
	KeyMaxWorkers  = "run.max.workers"
)

// Defaults for optional keys
const (
	DefaultContentType = "application/json"
	DefaultAuthHeader  = "x-api-key"
	DefaultProfile     = "practice"
	DefaultTimeout     = 30 * time.Second
	DefaultReportDir   = "reports"
	DefaultMaxWorkers  = 1
)

// Config holds the resolved key=value settings. Profile keys taken from the
// environment sit in a separate layer: lookups see them, Has does not. It is
// immutable once loaded and safe to share between goroutines.
type Config struct {
	values map[string]string
	keys   []string
	env    map[string]string
	origin string
}

// Profile holds the settings for one named target service
type Profile struct {
	Name        string
	BaseURL     string
	APIKey      string
	OpenAPIPath string
	hasKey      bool
}

// HasAPIKey reports whether the profile has a usable (present, non-blank) credential
func (p Profile) HasAPIKey() bool {
	return p.hasKey && strings.TrimSpace(p.APIKey) != ""
}

// Load resolves the configuration source from the given root, falling back to
// src/test/resources/config/config.properties
func Load(root fs.FS) (*Config, error) {
	return LoadSource(resource.NewSource(root, ResourceName))
}

// LoadSource reads and parses the configuration from src
func LoadSource(src resource.Source) (*Config, error) {
	data, origin, err := src.Read()
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, origin)
	if err != nil {
		return nil, errs.ResourceUnreadable(src.Name, err)
	}
	return cfg, nil
}

// Parse builds a Config from key=value text
func Parse(data []byte, origin string) (*Config, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties: %w", err)
	}

	cfg := &Config{
		values: make(map[string]string, props.Len()),
		env:    map[string]string{},
		origin: origin,
	}
	for _, key := range props.Keys() {
		value, _ := props.Get(key)
		cfg.set(key, value)
	}

	// Override profile credentials from environment variables if set
	for _, name := range cfg.ProfileNames() {
		if key := os.Getenv(envKeyFor(name)); key != "" {
			cfg.env[profileKey(name, "key")] = key
		}
	}

	return cfg, nil
}

// FromMap builds a Config from an in-memory mapping. Keys are ordered lexically.
func FromMap(values map[string]string) *Config {
	cfg := &Config{values: make(map[string]string, len(values)), env: map[string]string{}, origin: "memory"}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cfg.set(k, values[k])
	}
	return cfg
}

func (c *Config) set(key, value string) {
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Origin describes where the configuration was loaded from
func (c *Config) Origin() string {
	return c.origin
}

// Get returns the value for key, or def when the key is absent
func (c *Config) Get(key, def string) string {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	return def
}

// Has reports whether key is present in the source, even if its value is empty
func (c *Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Lookup returns the value for key and whether it was present, preferring an
// environment override
func (c *Config) Lookup(key string) (string, bool) {
	if v, ok := c.env[key]; ok {
		return v, true
	}
	v, ok := c.values[key]
	return v, ok
}

// ContentType returns the request content type
func (c *Config) ContentType() string {
	return c.Get(KeyContentType, DefaultContentType)
}

// AuthHeader returns the header name used to send API keys
func (c *Config) AuthHeader() string {
	return c.Get(KeyAuthHeader, DefaultAuthHeader)
}

// PracticeBaseURL returns the base URL of the practice profile. It has no default.
func (c *Config) PracticeBaseURL() (string, error) {
	p, err := c.Profile(DefaultProfile)
	if err != nil {
		return "", err
	}
	return p.BaseURL, nil
}

// PracticeAPIKey returns the practice API key and whether it was configured
func (c *Config) PracticeAPIKey() (string, bool) {
	return c.Lookup(profileKey(DefaultProfile, "key"))
}

// HasPracticeAPIKey reports whether a non-blank practice API key is configured
func (c *Config) HasPracticeAPIKey() bool {
	key, ok := c.PracticeAPIKey()
	return ok && strings.TrimSpace(key) != ""
}

// Profile resolves the named target profile. A missing base URL is a usage error.
func (c *Config) Profile(name string) (Profile, error) {
	baseKey := profileKey(name, "base.url")
	baseURL, ok := c.Lookup(baseKey)
	if !ok || strings.TrimSpace(baseURL) == "" {
		return Profile{}, errs.MissingSetting(baseKey)
	}
	apiKey, hasKey := c.Lookup(profileKey(name, "key"))
	return Profile{
		Name:        name,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		OpenAPIPath: c.Get(profileKey(name, "openapi"), ""),
		hasKey:      hasKey,
	}, nil
}

// HasProfile reports whether a base URL is configured for the named profile
func (c *Config) HasProfile(name string) bool {
	return c.Has(profileKey(name, "base.url"))
}

// ProfileFor returns the profile name bound to a resource
func (c *Config) ProfileFor(res types.Resource) string {
	return c.Get("api."+string(res)+".profile", DefaultProfile)
}

// Timeout returns the transport timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.intValue(KeyTimeout, int(DefaultTimeout/time.Second))) * time.Second
}

// ReportDir returns the directory reports are written to
func (c *Config) ReportDir() string {
	return c.Get(KeyReportDir, DefaultReportDir)
}

// MaxWorkers returns how many suites may run at once
func (c *Config) MaxWorkers() int {
	return c.intValue(KeyMaxWorkers, DefaultMaxWorkers)
}

func (c *Config) intValue(key string, def int) int {
	raw, ok := c.Lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// ProfileNames returns practice followed by every other name with an
// api.<name>.base.url key, in source order
func (c *Config) ProfileNames() []string {
	names := []string{DefaultProfile}
	for _, key := range c.keys {
		rest, ok := strings.CutPrefix(key, "api.")
		if !ok {
			continue
		}
		name, ok := strings.CutSuffix(rest, ".base.url")
		if !ok || name == "" || name == DefaultProfile || strings.Contains(name, ".") {
			continue
		}
		names = append(names, name)
	}
	return names
}

func profileKey(profile, suffix string) string {
	return "api." + profile + "." + suffix
}

// envKeyFor returns the environment variable overriding a profile key, e.g. API_PRACTICE_KEY
func envKeyFor(profile string) string {
	return "API_" + strings.ToUpper(strings.ReplaceAll(profile, "-", "_")) + "_KEY"
}
