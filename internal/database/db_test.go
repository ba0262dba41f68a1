package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/workspace-sessions/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{User: "app", Pass: "s3cret", Host: "db", Port: "3307", Name: "ws"})
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q): %v", dsn, err)
	}
	if mc.User != "app" || mc.Passwd != "s3cret" || mc.Addr != "db:3307" || mc.DBName != "ws" {
		t.Fatalf("parsed = %+v", mc)
	}
	if !mc.ParseTime || mc.Loc.String() != "UTC" {
		t.Fatalf("ParseTime = %v, Loc = %v", mc.ParseTime, mc.Loc)
	}
}
