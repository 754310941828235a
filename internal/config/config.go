package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// MustLoad читает конфигурацию из файла, указанного в CONFIG_PATH
// (по умолчанию ./config.yaml). Паникует при любой ошибке — без
// валидной конфигурации сервис бессмысленен.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
