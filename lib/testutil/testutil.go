package testutil

import (
	"database/sql"
	"fmt"
	"railwatch/lib/sqliteutil"
	"railwatch/lib/telemetry"
	"testing"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(fmt.Sprintf("test:%s", params.Name))

	if params.DbSchema == "" {
		return ServiceResult{}, cleanup
	}

	dbpath := ":memory:"
	if params.DbPath != "" {
		dbpath = params.DbPath
	}
	db, err := sqliteutil.Config{File: dbpath}.OpenDB(params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{DB: db}, func() {
		db.Close()
		cleanup()
	}
}
