package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	// Config holds the app-wide configuration, loaded once at startup.
	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		AppName          string
		SecretKey        string
		Build            string
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		AdminEmail       mail.Address
		SendgridApiKey   string
		RollbarToken     string
		SessionFile      string

		Server   ServerConfig
		Database DatabaseConfig
		Submit   SubmitConfig
	}

	ServerConfig struct {
		Host                      string
		Port                      int
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine     string // memory | redis | postgres
		Host       string
		Port       int
		Name       string
		User       string
		Password   string
		DisableTLS bool
		RedisURL   string
	}

	SubmitConfig struct {
		MaxAttempts int
		BaseDelay   time.Duration
		MaxDelay    time.Duration
	}
)

func (c ServerConfig) Address() string   { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
func (c DatabaseConfig) Address() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// LoadConfig reads the configuration from the environment, falling back on
// hardcoded defaults. A config/.env.<env> file is loaded first if it exists.
func LoadConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "AlYusr Institute")
	conf.SetDefault("secretKey", "x9dm(3#a&yusr!w+2b$ql@8_iu^e5t*0c7hz-r4nk6jfpgo1sv")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@alyusrinstitute.org")
	conf.SetDefault("adminEmail", "admin@alyusrinstitute.org")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sessionFile", filepath.Join(os.TempDir(), "alyusr-session"))

	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverPort", 8000)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	conf.SetDefault("dbEngine", "memory")
	conf.SetDefault("dbHost", "localhost")
	conf.SetDefault("dbPort", 5432)
	conf.SetDefault("dbName", "alyusr")
	conf.SetDefault("dbUser", "alyusr")
	conf.SetDefault("dbPassword", "")
	conf.SetDefault("dbDisableTLS", true)
	// hardcoded fallback; deployments must override REDIS_URL
	conf.SetDefault("redisURL", "redis://localhost:6379/0")

	conf.SetDefault("submitMaxAttempts", 3)
	conf.SetDefault("submitBaseDelay", time.Second)
	conf.SetDefault("submitMaxDelay", 10*time.Second)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.Set("testMode", true)
	case "QA", "PROD":
		conf.Set("debug", false)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		Env:              env,
		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		Build:            conf.GetString("build"),
		WorkDir:          Getwd(),
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		AdminEmail:       mail.Address{Name: "Admin", Address: conf.GetString("adminEmail")},
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		SessionFile:      conf.GetString("sessionFile"),
		Server: ServerConfig{
			Host:                      conf.GetString("serverHost"),
			Port:                      conf.GetInt("serverPort"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:     conf.GetString("dbEngine"),
			Host:       conf.GetString("dbHost"),
			Port:       conf.GetInt("dbPort"),
			Name:       conf.GetString("dbName"),
			User:       conf.GetString("dbUser"),
			Password:   conf.GetString("dbPassword"),
			DisableTLS: conf.GetBool("dbDisableTLS"),
			RedisURL:   conf.GetString("redisURL"),
		},
		Submit: SubmitConfig{
			MaxAttempts: conf.GetInt("submitMaxAttempts"),
			BaseDelay:   conf.GetDuration("submitBaseDelay"),
			MaxDelay:    conf.GetDuration("submitMaxDelay"),
		},
	}
}
