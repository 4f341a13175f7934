package database

import "time"

type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

type Connection struct {
	Host     string `yaml:"host" envconfig:"DBKIT_DB_HOST"`
	Port     string `yaml:"port" envconfig:"DBKIT_DB_PORT"`
	User     string `yaml:"user" envconfig:"DBKIT_DB_USER"`
	Password string `yaml:"password" envconfig:"DBKIT_DB_PASSWORD"`
	DbName   string `yaml:"db_name" envconfig:"DBKIT_DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"DBKIT_DB_SSL_MODE"`
}

type ConnectionDetails struct {
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"DBKIT_DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"DBKIT_DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"DBKIT_DB_CONN_MAX_LIFETIME"`
}
