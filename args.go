package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dealership/api"
)

func ParseArgs() Args {
	// server config
	pflag.String("server-url", "0.0.0.0:8080", "")

	// db config
	pflag.String("database-url", "", "PostgreSQL connection URL, SQLite is used when empty")
	pflag.String("db-path", "cars.db", "")
	pflag.String("db-sslmode", "require", "")

	// upload config
	pflag.String("upload-dir", api.DefaultUploadDir, "")
	pflag.String("upload-url-prefix", api.DefaultUploadURLPrefix, "")
	pflag.Int64("upload-max-size", 5<<20, "")

	// s3 config
	pflag.String("s3-endpoint", "", "")
	pflag.String("s3-region", "auto", "")
	pflag.String("s3-bucket", "", "")
	pflag.String("s3-prefix", "uploads", "")
	pflag.String("s3-public-base-url", "", "")
	pflag.String("s3-access-key-id", "", "")
	pflag.String("s3-secret-access-key", "", "")

	// session config
	pflag.String("session-cookie-key", "dealership_session", "")
	pflag.Duration("session-max-age", 24*time.Hour, "")
	pflag.Bool("session-cookie-secure", false, "")
	pflag.String("session-cookie-samesite", "lax", "")

	// redis config
	pflag.String("redis-url", "", "")
	pflag.String("redis-key-prefix", "dealership:", "")

	// mail config
	pflag.String("mail-host", "", "")
	pflag.Int("mail-port", 587, "")
	pflag.String("mail-username", "", "")
	pflag.String("mail-password", "", "")
	pflag.String("mail-from", "", "")

	// seed and listing config
	pflag.String("admin-password", "", "")
	pflag.Int("per-page", 6, "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("DEALERSHIP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	// 託管平台只會提供沒有前綴的 DATABASE_URL
	viper.BindEnv("database-url", "DEALERSHIP_DATABASE_URL", "DATABASE_URL")

	// initial arguments
	return Args{
		ServerURL: viper.GetString("server-url"),
		ServerConfig: api.ServerConfig{
			DB: api.DBConfig{
				URL:     viper.GetString("database-url"),
				Path:    viper.GetString("db-path"),
				SSLMode: viper.GetString("db-sslmode"),
			},
			Upload: api.UploadConfig{
				Dir:       viper.GetString("upload-dir"),
				URLPrefix: viper.GetString("upload-url-prefix"),
				MaxSize:   viper.GetInt64("upload-max-size"),
			},
			S3: api.S3Config{
				Endpoint:        viper.GetString("s3-endpoint"),
				Region:          viper.GetString("s3-region"),
				Bucket:          viper.GetString("s3-bucket"),
				Prefix:          viper.GetString("s3-prefix"),
				PublicBaseURL:   viper.GetString("s3-public-base-url"),
				AccessKeyID:     viper.GetString("s3-access-key-id"),
				SecretAccessKey: viper.GetString("s3-secret-access-key"),
			},
			Session: api.SessionConfig{
				KeyForCookie:   viper.GetString("session-cookie-key"),
				CookieMaxAge:   viper.GetDuration("session-max-age"),
				CookieSecure:   viper.GetBool("session-cookie-secure"),
				CookieSameSite: viper.GetString("session-cookie-samesite"),
			},
			Redis: api.RedisConfig{
				URL:       viper.GetString("redis-url"),
				KeyPrefix: viper.GetString("redis-key-prefix"),
			},
			Mail: api.MailConfig{
				Host:     viper.GetString("mail-host"),
				Port:     viper.GetInt("mail-port"),
				Username: viper.GetString("mail-username"),
				Password: viper.GetString("mail-password"),
				From:     viper.GetString("mail-from"),
			},
			Seed: api.SeedConfig{
				AdminPassword: viper.GetString("admin-password"),
			},
			Listing: api.ListingConfig{
				PerPage: viper.GetInt("per-page"),
			},
		},
	}
}

type Args struct {
	ServerURL    string
	ServerConfig api.ServerConfig
}

func (args Args) Validate() error {
	var errs []error
	if args.ServerURL == "" {
		errs = append(errs, errors.New("server-url is required"))
	}
	if args.ServerConfig.DB.URL == "" && args.ServerConfig.DB.Path == "" {
		errs = append(errs, errors.New("either database-url or db-path is required"))
	}
	if args.ServerConfig.Listing.PerPage <= 0 {
		errs = append(errs, errors.New("per-page must be positive"))
	}
	if s3 := args.ServerConfig.S3; s3.Enabled() {
		if u, err := url.Parse(s3.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("s3-public-base-url must be an absolute URL, got %q", s3.PublicBaseURL))
		}
	}
	if args.ServerConfig.Mail.Host != "" && args.ServerConfig.Mail.Port <= 0 {
		errs = append(errs, errors.New("mail-port must be positive"))
	}
	return errors.Join(errs...)
}
