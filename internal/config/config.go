package config

// Config is the root configuration for Wardlink.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type GatewayConfig struct {
	// SendBuffer is the per-connection outbound event queue depth.
	// A client that falls this far behind is disconnected.
	SendBuffer int `yaml:"send_buffer"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     3040,
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Path: "~/.config/wardlink/wardlink.db",
		},
		Gateway: GatewayConfig{
			SendBuffer: 64,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}
