package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNPerDialect(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "postgres",
			cfg:  Config{Type: "postgres", Host: "db", Port: "5432", User: "ledger", Password: "secret", Name: "estate"},
			want: "host=db port=5432 user=ledger password=secret dbname=estate sslmode=disable application_name=estate TimeZone=UTC",
		},
		{
			name: "mysql",
			cfg:  Config{Type: "mysql", Host: "db", Port: "3306", User: "ledger", Password: "secret", Name: "estate"},
			want: "ledger:secret@tcp(db:3306)/estate?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "sqlite default file",
			cfg:  Config{Type: "sqlite"},
			want: "estate.db?_busy_timeout=5000&_foreign_keys=1",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dsn, err := tc.cfg.DSN()
			require.NoError(t, err)
			assert.Equal(t, tc.want, dsn)
		})
	}
}

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(Config{Type: "oracle"})
	assert.ErrorContains(t, err, "unsupported database type")
}
