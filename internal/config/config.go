package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server Server `yaml:"server"`

	Database Database `yaml:"database"`

	JWT JWT `yaml:"jwt"`

	Storage Storage `yaml:"storage"`

	AI AI `yaml:"ai"`

	Bootstrap Bootstrap `yaml:"bootstrap"`
}

type Server struct {
	Address string `yaml:"address"`
}

type JWT struct {
	Secret string `yaml:"secret"`
	// Token lifetimes in hours. The staff path predates the customer
	// path and kept its shorter expiry; the mismatch is intentional.
	StaffExpiresIn    int `yaml:"staff_expires_in"`
	CustomerExpiresIn int `yaml:"customer_expires_in"`
}

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type Storage struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Key      string `yaml:"key"`
	Secret   string `yaml:"secret"`
	Endpoint string `yaml:"endpoint"` // leave empty for real AWS
}

type AI struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Bootstrap holds the first-admin credentials created at startup when
// no admin account exists yet.
type Bootstrap struct {
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

func Load() (*Config, error) {
	configPath := "configs/development.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.overrideFromEnv()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":3000"
	}
	if c.JWT.StaffExpiresIn == 0 {
		c.JWT.StaffExpiresIn = 1
	}
	if c.JWT.CustomerExpiresIn == 0 {
		c.JWT.CustomerExpiresIn = 24
	}
	if c.Storage.Region == "" {
		c.Storage.Region = "us-east-1"
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "https://api.openai.com/v1"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4.1"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
}

// overrideFromEnv lets deployment environments inject secrets without
// writing them into the config file.
func (c *Config) overrideFromEnv() {
	setString(&c.Server.Address, "SERVER_ADDRESS")
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.DBName, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.Storage.Bucket, "AWS_S3_BUCKET_NAME")
	setString(&c.Storage.Region, "AWS_REGION")
	setString(&c.Storage.Key, "AWS_ACCESS_KEY_ID")
	setString(&c.Storage.Secret, "AWS_SECRET_ACCESS_KEY")
	setString(&c.Storage.Endpoint, "AWS_S3_ENDPOINT")
	setString(&c.AI.APIKey, "OPENAI_API_KEY")
	setString(&c.AI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.AI.Model, "OPENAI_MODEL")
	setString(&c.Bootstrap.AdminEmail, "ADMIN_EMAIL")
	setString(&c.Bootstrap.AdminPassword, "ADMIN_PASSWORD")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
