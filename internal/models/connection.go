package models

import "fmt"

// PostgresConfig describes a PostgreSQL data source
type PostgresConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port" mapstructure:"port"`
	Database   string `yaml:"database" mapstructure:"database"`
	User       string `yaml:"user" mapstructure:"user"`
	Password   string `yaml:"-" mapstructure:"password"`
	SSLMode    string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	UseKeyring bool   `yaml:"use_keyring" mapstructure:"use_keyring"`
}

// KeyringKey identifies the connection's password in the OS keyring
func (c PostgresConfig) KeyringKey() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.Port, c.Database)
}
