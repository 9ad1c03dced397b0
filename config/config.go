package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultEnvFile            = ".env"

	defaultBasicDailySwipes     = 20
	defaultBasicRadiusKm        = 10
	defaultVIPDailySwipes       = 50
	defaultVIPRadiusKm          = 50
	defaultTimezone             = "UTC"
	defaultLocationInterval     = 2 * time.Hour
	defaultGeocoderBaseURL      = "https://nominatim.openstreetmap.org"
	defaultGeocoderUserAgent    = "spark-geocoder"
	defaultGeocoderTimeout      = 10 * time.Second
	defaultGeocoderCacheTTL     = 24 * time.Hour
	defaultImagesBucketURL      = "mem://"
	defaultImagesPrefix         = "images"
	defaultImagesMaxSize        = 5 << 20
	defaultBcryptCost           = 12
	defaultAccessTokenTTL       = 15 * time.Minute
	defaultRefreshTokenTTL      = 7 * 24 * time.Hour
	defaultStorageDriver        = StorageDriverPostgres
	defaultSlowQueryThreshold   = 200 * time.Millisecond
	defaultPubSubProvider       = PubSubProviderNoop
	defaultSessionSweepInterval = time.Hour
)

// Storage drivers.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Pub/Sub providers.
const (
	PubSubProviderNoop   = "noop"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Storage *StorageConfig `json:"storage" yaml:"storage"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Subscription holds the per-tier swipe quota and discovery radius
	Subscription *SubscriptionConfig `json:"subscription" yaml:"subscription"`

	Location *LocationConfig `json:"location" yaml:"location"`

	Geocoder *GeocoderConfig `json:"geocoder" yaml:"geocoder"`

	// Redis backs the geocode cache; leave addr empty to disable caching
	Redis *RedisConfig `json:"redis" yaml:"redis"`

	// PubSub configuration for match event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	Images *ImagesConfig `json:"images" yaml:"images"`
}

// StorageConfig selects the persistence driver
type StorageConfig struct {
	// Driver is "postgres" or "memory"
	Driver             string        `json:"driver" yaml:"driver"`
	AutoMigrate        bool          `json:"autoMigrate" yaml:"autoMigrate"`
	SlowQueryThreshold time.Duration `json:"slowQueryThreshold" yaml:"slowQueryThreshold"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost      int           `json:"bcryptCost" yaml:"bcryptCost"`
	AccessTokenTTL  time.Duration `json:"accessTokenTtl" yaml:"accessTokenTtl"`
	RefreshTokenTTL time.Duration `json:"refreshTokenTtl" yaml:"refreshTokenTtl"`
	// SessionSweepInterval is how often expired refresh tokens are purged
	SessionSweepInterval time.Duration `json:"sessionSweepInterval" yaml:"sessionSweepInterval"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// TierConfig is the allowance of one subscription tier
type TierConfig struct {
	DailySwipes int     `json:"dailySwipes" yaml:"dailySwipes"`
	RadiusKm    float64 `json:"radiusKm" yaml:"radiusKm"`
}

// SubscriptionConfig defines the basic and VIP tiers
type SubscriptionConfig struct {
	Basic TierConfig `json:"basic" yaml:"basic"`
	VIP   TierConfig `json:"vip" yaml:"vip"`

	// Timezone is the IANA zone whose calendar day bounds the daily swipe quota
	Timezone string `json:"timezone" yaml:"timezone"`
}

// LocationConfig defines the location update gate
type LocationConfig struct {
	UpdateInterval time.Duration `json:"updateInterval" yaml:"updateInterval"`
}

// GeocoderConfig defines the Nominatim-compatible geocoder
type GeocoderConfig struct {
	BaseURL   string        `json:"baseUrl" yaml:"baseUrl"`
	UserAgent string        `json:"userAgent" yaml:"userAgent"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	CacheTTL  time.Duration `json:"cacheTtl" yaml:"cacheTtl"`
}

// RedisConfig defines the Redis connection
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "noop", "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// ImagesConfig defines where profile images are stored
type ImagesConfig struct {
	// BucketURL is a gocloud blob URL: mem://, file:///path, s3://bucket, gs://bucket
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	MaxSize   int64  `json:"maxSize" yaml:"maxSize"`
}

// LoadWithEnv decodes <name>.yaml, found in the working directory or one of
// dirs, into T. Environment variables override file values; their segments
// are matched against the keys already present so POSTGRES_SSLMODE lands on
// postgres.sslMode.
func LoadWithEnv[T any](name string, dirs ...string) (*T, error) {
	path, err := locate(name+".yaml", dirs)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	known := k.Raw()
	overrides := env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return canonicalizeEnvKey(key, known), value
		},
	})
	if err := k.Load(overrides, nil); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}

	out := new(T)
	err = k.UnmarshalWithConf("", out, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			MatchName:        strings.EqualFold,
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	return out, nil
}

func locate(filename string, dirs []string) (string, error) {
	candidates := []string{filepath.Join(defaultPath, filename)}
	if len(dirs) > 0 {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "working directory")
		}
		for _, dir := range dirs {
			candidates = append(candidates, filepath.Join(wd, dir, filename))
		}
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", errors.Errorf("%s not found in %v", filename, candidates)
}

func New() (*Config, error) {
	if err := loadDotEnv(defaultEnvFile); err != nil {
		return nil, err
	}

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// loadDotEnv exports the variables of path into the process environment.
// Variables that are already set win, and a missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrapf(err, "stat %s", path)
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}

	return nil
}

// applyDefaults fills every optional section and validates the result.
func (cfg *Config) applyDefaults() error {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = defaultStorageDriver
	}
	if cfg.Storage.SlowQueryThreshold <= 0 {
		cfg.Storage.SlowQueryThreshold = defaultSlowQueryThreshold
	}
	switch cfg.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if cfg.Postgres == nil {
			return errors.New("storage driver postgres requires a postgres section")
		}
	default:
		return errors.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = defaultBcryptCost
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		cfg.Auth.AccessTokenTTL = defaultAccessTokenTTL
	}
	if cfg.Auth.RefreshTokenTTL <= 0 {
		cfg.Auth.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if cfg.Auth.SessionSweepInterval <= 0 {
		cfg.Auth.SessionSweepInterval = defaultSessionSweepInterval
	}

	if cfg.Subscription == nil {
		cfg.Subscription = &SubscriptionConfig{}
	}
	if cfg.Subscription.Basic.DailySwipes <= 0 {
		cfg.Subscription.Basic.DailySwipes = defaultBasicDailySwipes
	}
	if cfg.Subscription.Basic.RadiusKm <= 0 {
		cfg.Subscription.Basic.RadiusKm = defaultBasicRadiusKm
	}
	if cfg.Subscription.VIP.DailySwipes <= 0 {
		cfg.Subscription.VIP.DailySwipes = defaultVIPDailySwipes
	}
	if cfg.Subscription.VIP.RadiusKm <= 0 {
		cfg.Subscription.VIP.RadiusKm = defaultVIPRadiusKm
	}
	if cfg.Subscription.Timezone == "" {
		cfg.Subscription.Timezone = defaultTimezone
	}
	if _, err := time.LoadLocation(cfg.Subscription.Timezone); err != nil {
		return errors.Wrapf(err, "invalid subscription timezone %q", cfg.Subscription.Timezone)
	}

	if cfg.Location == nil {
		cfg.Location = &LocationConfig{}
	}
	if cfg.Location.UpdateInterval <= 0 {
		cfg.Location.UpdateInterval = defaultLocationInterval
	}

	if cfg.Geocoder == nil {
		cfg.Geocoder = &GeocoderConfig{}
	}
	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = defaultGeocoderBaseURL
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = defaultGeocoderUserAgent
	}
	if cfg.Geocoder.Timeout <= 0 {
		cfg.Geocoder.Timeout = defaultGeocoderTimeout
	}
	if cfg.Geocoder.CacheTTL <= 0 {
		cfg.Geocoder.CacheTTL = defaultGeocoderCacheTTL
	}

	if cfg.PubSub == nil {
		cfg.PubSub = &PubSubConfig{}
	}
	if cfg.PubSub.Provider == "" {
		cfg.PubSub.Provider = defaultPubSubProvider
	}

	if cfg.Images == nil {
		cfg.Images = &ImagesConfig{}
	}
	if cfg.Images.BucketURL == "" {
		cfg.Images.BucketURL = defaultImagesBucketURL
	}
	if cfg.Images.Prefix == "" {
		cfg.Images.Prefix = defaultImagesPrefix
	}
	if cfg.Images.MaxSize <= 0 {
		cfg.Images.MaxSize = defaultImagesMaxSize
	}

	return nil
}

func canonicalizeEnvKey(raw string, known map[string]any) string {
	var path []string
	level := known

	for _, part := range strings.Split(raw, "_") {
		if part == "" {
			continue
		}
		part = strings.ToLower(part)

		match, child := matchKey(level, part)
		if match == "" {
			path = append(path, part)
			level = nil

			continue
		}
		path = append(path, match)
		level = child
	}

	return strings.Join(path, ".")
}

// matchKey finds the key of level equal to part once case and punctuation
// are ignored, along with its nested map if it has one.
func matchKey(level map[string]any, part string) (string, map[string]any) {
	want := fold(part)
	for key, value := range level {
		if fold(key) == want {
			child, _ := value.(map[string]any)

			return key, child
		}
	}

	return "", nil
}

func fold(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}

		return -1
	}, s)
}

// buildReplicasFromEnv reads read replicas from POSTGRES_REPLICAS_<n>_HOST,
// _PORT, _USERNAME and _PASSWORD, stopping at the first index without both a
// host and a port.
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig
	for n := 0; ; n++ {
		get := func(field string) string {
			return os.Getenv("POSTGRES_REPLICAS_" + strconv.Itoa(n) + "_" + field)
		}
		if get("HOST") == "" || get("PORT") == "" {
			return replicas
		}
		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     get("HOST"),
			Port:     get("PORT"),
			UserName: get("USERNAME"),
			Password: get("PASSWORD"),
		})
	}
}
