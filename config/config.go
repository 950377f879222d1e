package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/billow-homes/homes-api/store"
)

const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"

	UploadDisk = "disk"
	UploadS3   = "s3"
)

type Config struct {
	Port     string
	MongoURI string
	DB       string

	Redis RedisConfig
	Cache CacheConfig

	JWTKey string

	Upload UploadConfig

	PublicBaseURL      string
	AllowedOrigins     []string
	RateLimitPerMinute int

	StoreTimeout     time.Duration
	MatchPolicy      store.MatchPolicy
	PageLimitDefault int
	PageLimitMax     int

	LogFile string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	Backend string
	TTL     time.Duration
	Timeout time.Duration
}

type UploadConfig struct {
	Backend           string
	Dir               string
	MaxBytes          int64
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Load reads .env (if present), then the optional YAML file named by
// CONFIG_FILE, then the process environment. Environment values win over
// the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	file := map[string]string{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		if file, err = readFile(path); err != nil {
			return nil, err
		}
	}
	return FromLookup(lookupChain(os.LookupEnv, file))
}

// FromLookup builds a Config from any key lookup. Tests feed it maps.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	s := &source{lookup: lookup, errs: validation.Errors{}}

	cfg := &Config{
		Port:     s.str("PORT", "8080"),
		MongoURI: s.str("MONGOURI", ""),
		DB:       s.str("DB", "homes"),
		Redis: RedisConfig{
			Addr:     s.str("REDIS_ADD", "localhost:6379"),
			Password: s.str("REDIS_PASS", ""),
			DB:       s.integer("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(s.str("CACHE_BACKEND", CacheRedis)),
			TTL:     s.duration("CACHE_TTL", 24*time.Hour),
			Timeout: s.duration("CACHE_TIMEOUT", 500*time.Millisecond),
		},
		JWTKey: s.str("JWT_KEY", ""),
		Upload: UploadConfig{
			Backend:           strings.ToLower(s.str("UPLOAD_BACKEND", UploadDisk)),
			Dir:               s.str("UPLOAD_DIR", "uploads"),
			MaxBytes:          int64(s.integer("MAX_UPLOAD_BYTES", 32<<20)),
			S3Bucket:          s.str("S3_BUCKET", ""),
			S3Region:          s.str("S3_REGION", "us-east-1"),
			S3Endpoint:        s.str("S3_ENDPOINT", ""),
			S3AccessKeyID:     s.str("S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: s.str("S3_SECRET_ACCESS_KEY", ""),
		},
		PublicBaseURL:      strings.TrimRight(s.str("PUBLIC_BASE_URL", ""), "/"),
		AllowedOrigins:     s.list("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: s.integer("RATE_LIMIT_PER_MINUTE", 120),
		StoreTimeout:       s.duration("STORE_TIMEOUT", 5*time.Second),
		PageLimitDefault:   s.integer("PAGE_LIMIT_DEFAULT", 10),
		PageLimitMax:       s.integer("PAGE_LIMIT_MAX", 100),
		LogFile:            s.str("LOG_FILE", ""),
	}

	policy, err := store.ParseMatchPolicy(s.str("MATCH_POLICY", string(store.MatchFirst)))
	if err != nil {
		s.errs["MATCH_POLICY"] = err
	}
	cfg.MatchPolicy = policy

	if len(s.errs) > 0 {
		return nil, fmt.Errorf("config: %w", s.errs)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.Errors{
		"MONGOURI": validation.Validate(c.MongoURI, validation.Required),
		"JWT_KEY":  validation.Validate(c.JWTKey, validation.Required),
		"DB":       validation.Validate(c.DB, validation.Required),
		"CACHE_BACKEND": validation.Validate(c.Cache.Backend,
			validation.In(CacheRedis, CacheMemory, CacheNone)),
		"REDIS_ADD": validation.Validate(c.Redis.Addr,
			validation.When(c.Cache.Backend == CacheRedis, validation.Required)),
		"UPLOAD_BACKEND": validation.Validate(c.Upload.Backend,
			validation.In(UploadDisk, UploadS3)),
		"UPLOAD_DIR": validation.Validate(c.Upload.Dir,
			validation.When(c.Upload.Backend == UploadDisk, validation.Required)),
		"S3_BUCKET": validation.Validate(c.Upload.S3Bucket,
			validation.When(c.Upload.Backend == UploadS3, validation.Required)),
		"MAX_UPLOAD_BYTES":      validation.Validate(c.Upload.MaxBytes, validation.Min(int64(1))),
		"PAGE_LIMIT_DEFAULT":    validation.Validate(c.PageLimitDefault, validation.Min(1)),
		"PAGE_LIMIT_MAX":        validation.Validate(c.PageLimitMax, validation.Min(c.PageLimitDefault)),
		"RATE_LIMIT_PER_MINUTE": validation.Validate(c.RateLimitPerMinute, validation.Min(0)),
	}.Filter()
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case []interface{}:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			out[strings.ToUpper(k)] = strings.Join(parts, ",")
		case nil:
		default:
			out[strings.ToUpper(k)] = fmt.Sprint(val)
		}
	}
	return out, nil
}

func lookupChain(env func(string) (string, bool), file map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := env(key); ok && v != "" {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}
}

type source struct {
	lookup func(string) (string, bool)
	errs   validation.Errors
}

func (s *source) str(key, defaultVal string) string {
	if val, ok := s.lookup(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return defaultVal
}

func (s *source) integer(key string, defaultVal int) int {
	val := s.str(key, "")
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		s.errs[key] = fmt.Errorf("must be an integer, got %q", val)
		return defaultVal
	}
	return i
}

// duration accepts Go duration strings ("30s") or a bare number of seconds.
func (s *source) duration(key string, defaultVal time.Duration) time.Duration {
	val := s.str(key, "")
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		s.errs[key] = fmt.Errorf("must be a duration or seconds, got %q", val)
		return defaultVal
	}
	return d
}

func (s *source) list(key string, defaultVal []string) []string {
	val := s.str(key, "")
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
