package db

import (
	"fmt"
	"net/url"
	"strings"
)

// Config describes the ledger database. Pool durations are in seconds.
type Config struct {
	Type            string
	AppName         string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// DSN renders the driver connection string for c.Type. All sessions run in UTC
// and sqlite enforces foreign keys.
func (c Config) DSN() (string, error) {
	switch c.Type {
	case "postgres":
		appName := strings.TrimSpace(c.AppName)
		if appName == "" {
			appName = "estate"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s application_name=%s TimeZone=UTC",
			c.Host, c.Port, c.User, c.Password, c.Name, orDefault(c.SSLMode, "disable"), appName), nil
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name), nil
	case "sqlite":
		params := url.Values{}
		params.Set("_foreign_keys", "1")
		params.Set("_busy_timeout", "5000")
		return orDefault(c.Name, "estate.db") + "?" + params.Encode(), nil
	default:
		return "", fmt.Errorf("unsupported database type %q", c.Type)
	}
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
