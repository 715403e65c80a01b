package config

import (
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

type FilesConfig struct {
	UploadsDir string `yaml:"uploads_dir"`
}

// AuthConfig carries the signing secret and token lifetimes so services get
// them at construction instead of reading package-level state.
type AuthConfig struct {
	JWTSecret            string `yaml:"jwt_secret"`
	SessionTTLDays       int    `yaml:"session_ttl_days"`
	VerificationTTLHours int    `yaml:"verification_ttl_hours"`
	OTPTTLMinutes        int    `yaml:"otp_ttl_minutes"`
}

type URLConfig struct {
	ClientURL    string `yaml:"client_url"`
	BackendURL   string `yaml:"backend_url"`
	MobileScheme string `yaml:"mobile_scheme"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth  AuthConfig  `yaml:"auth"`
	URLs  URLConfig   `yaml:"urls"`
	Files FilesConfig `yaml:"files"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Files.UploadsDir == "" {
		cfg.Files.UploadsDir = "./uploads"
	}
	if cfg.Auth.SessionTTLDays == 0 {
		cfg.Auth.SessionTTLDays = 7
	}
	if cfg.Auth.VerificationTTLHours == 0 {
		cfg.Auth.VerificationTTLHours = 24
	}
	if cfg.Auth.OTPTTLMinutes == 0 {
		cfg.Auth.OTPTTLMinutes = 10
	}
	if cfg.URLs.MobileScheme == "" {
		cfg.URLs.MobileScheme = "expensestracker"
	}
	return &cfg
}

func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLDays) * 24 * time.Hour
}

func (a AuthConfig) VerificationTTL() time.Duration {
	return time.Duration(a.VerificationTTLHours) * time.Hour
}

func (a AuthConfig) OTPTTL() time.Duration {
	return time.Duration(a.OTPTTLMinutes) * time.Minute
}
