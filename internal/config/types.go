// Package config provides layered configuration loading for the mailcrate service.
package config

import (
	"net"
	"net/url"
	"strconv"
)

// Settings is the complete application configuration. It is loaded once at
// startup and never mutated afterwards.
type Settings struct {
	Server   ServerSettings   `yaml:"server"`
	Database DatabaseSettings `yaml:"database"`
	Logging  LoggingSettings  `yaml:"logging"`
}

// ServerSettings holds the HTTP listener configuration.
type ServerSettings struct {
	Host         string `yaml:"host"`
	Port         uint16 `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout"`  // seconds
}

// Address returns the bind address as "host:port". A port of 0 asks the OS
// for any available port.
func (s ServerSettings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(int(s.Port)))
}

// DatabaseUser holds database credentials. The password is a Secret and is
// redacted on every formatting and logging path.
type DatabaseUser struct {
	Name     string `yaml:"name"`
	Password Secret `yaml:"password"`
}

// DatabaseSettings holds the Postgres connection configuration.
type DatabaseSettings struct {
	Name     string       `yaml:"name"`
	Host     string       `yaml:"host"`
	Port     uint16       `yaml:"port"`
	User     DatabaseUser `yaml:"user"`
	MaxConns int          `yaml:"max_conns"`
	MinConns int          `yaml:"min_conns"`
}

// LoggingSettings holds the log filter configuration.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// ConnectionString returns the connection URI for the configured database.
// The result embeds the raw password, so it is wrapped in a Secret.
func (d DatabaseSettings) ConnectionString() Secret {
	return d.connectionString(d.Name)
}

// MaintenanceConnectionString returns a connection URI for the server-level
// "postgres" database, used when provisioning new databases.
func (d DatabaseSettings) MaintenanceConnectionString() Secret {
	return d.connectionString("postgres")
}

func (d DatabaseSettings) connectionString(dbName string) Secret {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User.Name, d.User.Password.ExposeSecret()),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(int(d.Port))),
		Path:   "/" + dbName,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return NewSecret(u.String())
}
