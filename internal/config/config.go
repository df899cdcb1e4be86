package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env-default:"local"`
	HTTP        HTTPConfig        `yaml:"http"`
	Storage     StorageConfig     `yaml:"storage"`
	Redis       RedisConf         `yaml:"redis"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Thumbnails  ThumbnailConfig   `yaml:"thumbnails"`
	Votes       VotesConfig       `yaml:"votes"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

// StorageConfig selects the document store driver. The whole application
// state lives in one document, so "path" is a single file for the file
// driver and "key" a single key for the redis driver.
type StorageConfig struct {
	Driver string `yaml:"driver" env-default:"file"`
	Path   string `yaml:"path" env-default:"data.json"`
	Key    string `yaml:"key" env-default:"photopick:document"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"static/photos"`
	BaseURL string `yaml:"base_url" env-default:"/photos"`
	MaxSize int64  `yaml:"max_size"`
}

type ThumbnailConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"static/thumbs"`
	BaseURL string `yaml:"base_url" env-default:"/thumbs"`
	// MaxDim bounds both thumbnail dimensions; originals are never upscaled.
	MaxDim uint `yaml:"max_dim" env-default:"400"`
}

// VotesConfig controls how write operations treat unknown references:
// "lenient" silently drops a vote on an unknown list and treats a caption
// update on an unknown item as success, "strict" surfaces not-found errors.
type VotesConfig struct {
	Policy string `yaml:"policy" env-default:"lenient"`
}

const (
	PolicyLenient = "lenient"
	PolicyStrict  = "strict"
)

func (v VotesConfig) Strict() bool {
	return v.Policy == PolicyStrict
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
