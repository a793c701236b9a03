package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	ImageHostCloudinary = "cloudinary"
	ImageHostS3         = "s3"

	GeocoderGoogle = "google"
)

type Config struct {
	Environment string // ENV: production, development, etc.
	Port        string
	LogLevel    string
	BaseURL     string // Used to build password reset links

	MongoURI      string
	MongoDatabase string
	RedisURI      string

	SessionSecret string
	AdminCode     string

	GeocoderProvider string
	GeocoderAPIKey   string

	ImageHost   string // cloudinary or s3
	ImageFolder string

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string // Optional, for S3-compatible services
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicURL       string // Base URL objects are served from

	AllowedOrigins []string
}

// Load reads configuration from the environment. Call godotenv.Load first to
// pick up a local .env file.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_NAME", "campsite")
	v.SetDefault("REDIS_URI", "redis://localhost:6379/0")
	v.SetDefault("GEOCODER_PROVIDER", GeocoderGoogle)
	v.SetDefault("IMAGE_HOST", ImageHostCloudinary)
	v.SetDefault("IMAGE_FOLDER", "campsite")
	v.SetDefault("S3_REGION", "us-east-1")

	port := v.GetString("PORT")
	baseURL := v.GetString("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	mongoURI := v.GetString("DATABASE_URL")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017/" + v.GetString("DB_NAME")
	}

	// CLOUDINARY_FOLDER is kept as an alias for older deployments
	folder := v.GetString("CLOUDINARY_FOLDER")
	if folder == "" {
		folder = v.GetString("IMAGE_FOLDER")
	}

	allowedOrigins := parseOrigins(v.GetString("ALLOWED_ORIGINS"))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{strings.TrimRight(baseURL, "/")}
	}

	return &Config{
		Environment:         strings.ToLower(strings.TrimSpace(v.GetString("ENV"))),
		Port:                port,
		LogLevel:            v.GetString("LOG_LEVEL"),
		BaseURL:             strings.TrimRight(baseURL, "/"),
		MongoURI:            mongoURI,
		MongoDatabase:       v.GetString("DB_NAME"),
		RedisURI:            v.GetString("REDIS_URI"),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		AdminCode:           v.GetString("ADMIN_CODE"),
		GeocoderProvider:    strings.ToLower(v.GetString("GEOCODER_PROVIDER")),
		GeocoderAPIKey:      v.GetString("GEOCODER_API_KEY"),
		ImageHost:           strings.ToLower(v.GetString("IMAGE_HOST")),
		ImageFolder:         folder,
		CloudinaryName:      v.GetString("CLOUDINARY_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),
		S3Bucket:            v.GetString("S3_BUCKET"),
		S3Region:            v.GetString("S3_REGION"),
		S3Endpoint:          v.GetString("S3_ENDPOINT"),
		S3AccessKeyID:       v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:   v.GetString("S3_SECRET_ACCESS_KEY"),
		S3PublicURL:         strings.TrimRight(v.GetString("S3_PUBLIC_URL"), "/"),
		AllowedOrigins:      allowedOrigins,
	}
}

// Validate reports every missing secret at once. Secrets never have defaults.
func (c *Config) Validate() error {
	var errs []error

	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}

	switch c.GeocoderProvider {
	case GeocoderGoogle:
		if c.GeocoderAPIKey == "" {
			errs = append(errs, errors.New("GEOCODER_API_KEY is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported GEOCODER_PROVIDER %q", c.GeocoderProvider))
	}

	switch c.ImageHost {
	case ImageHostCloudinary:
		if c.CloudinaryName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			errs = append(errs, errors.New("CLOUDINARY_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required"))
		}
	case ImageHostS3:
		if c.S3Bucket == "" || c.S3PublicURL == "" {
			errs = append(errs, errors.New("S3_BUCKET and S3_PUBLIC_URL are required"))
		}
		if c.S3AccessKeyID == "" || c.S3SecretAccessKey == "" {
			errs = append(errs, errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported IMAGE_HOST %q", c.ImageHost))
	}

	return errors.Join(errs...)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
