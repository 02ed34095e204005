package sqliteutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `create table if not exists visit (
	id integer primary key autoincrement,
	name text not null
);`

func TestOpenDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "railwatch.db")

	db, err := Config{File: path}.OpenDB(testSchema)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec("insert into visit(name) values (?)", "dhaka")
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	// reopening applies the schema again without complaint and keeps rows
	db, err = Config{File: path}.OpenDB(testSchema)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	err = db.QueryRow("select count(*) from visit").Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, count)
}

func TestOpenDBRequiresPath(t *testing.T) {
	_, err := Config{}.OpenDB(testSchema)
	require.Error(t, err)
}
