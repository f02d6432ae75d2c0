// Package config loads configuration structs from environment variables.
//
// Structs declare their sources with `env` and `envDefault` field tags
// (github.com/caarlos0/env); a .env file in the working directory is loaded
// once per process via github.com/joho/godotenv before the first parse.
//
//	type AppConfig struct {
//		Database string `env:"DATABASE_NAME" envDefault:"billing"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
package config
