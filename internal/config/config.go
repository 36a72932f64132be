// config.go
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	RabbitURL   string
	Port        string
	LogLevel    string
}

func Load() *Config {
	// .env es opcional; en despliegue todo llega por entorno
	_ = godotenv.Load()

	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "dossier_status_db"),
		RabbitURL:   getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
