package utils

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// LoadConfig loads a .env file from path if present. Missing files are fine;
// real deployments configure through the environment.
func LoadConfig(path string) {
	envPath := filepath.Join(path, ".env")
	if err := godotenv.Load(envPath); err != nil {
		logrus.Debugf("[CONFIG] no .env file loaded from %s: %v", envPath, err)
		return
	}
	logrus.Infof("[CONFIG] environment loaded from %s", envPath)
}
