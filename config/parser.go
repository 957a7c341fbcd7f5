package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Parse generates a new Config instance starting from the
// configuration file, if any, with environment variables on top. A
// missing file yields the defaults, not an error.
func Parse() (*Config, error) {
	config := Default()

	path, err := xdg.ConfigFile(filepath.Join("harmonix", "config.yml"))
	if err == nil {
		if file, err := os.Open(path); err == nil {
			defer file.Close()
			if err := yaml.NewDecoder(file).Decode(config); err != nil {
				return nil, err
			}
		}
	}

	config.loadEnv()
	return config, nil
}

// loadEnv applies HARMONIX_* overrides, sourcing a .env file when one
// sits in the working directory
func (config *Config) loadEnv() {
	_ = godotenv.Load()

	for variable, target := range map[string]*string{
		"HARMONIX_NODE_HOST":     &config.Node.Host,
		"HARMONIX_NODE_PASSWORD": &config.Node.Password,
		"HARMONIX_STORE_URL":     &config.Store.URL,
		"HARMONIX_STORE_KEY":     &config.Store.Key,
		"HARMONIX_ADDRESS":       &config.Server.Address,
	} {
		if value := os.Getenv(variable); value != "" {
			*target = value
		}
	}
}
