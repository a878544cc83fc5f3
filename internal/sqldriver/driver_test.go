// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqldriver_test

import (
	"database/sql"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/vizc/internal/sqldriver"
)

func TestDriversRegistered(t *testing.T) {
	for _, name := range sqldriver.Supported() {
		assert.True(t, slices.Contains(sql.Drivers(), name), "%s driver should be registered", name)
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "sqlite", want: "sqlite"},
		{in: "SQLite3", want: "sqlite"},
		{in: "postgresql", want: "postgres"},
		{in: " pg ", want: "postgres"},
		{in: "mariadb", want: "mysql"},
		{in: "oracle", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := sqldriver.Name(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "supported: mysql, postgres, sqlite")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBasicQuery(t *testing.T) {
	name, err := sqldriver.Name("sqlite3")
	require.NoError(t, err)
	db, err := sql.Open(name, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE sales (region TEXT, revenue INTEGER)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO sales VALUES (?, ?)", "East", 100)
	require.NoError(t, err)

	var revenue int
	require.NoError(t, db.QueryRow("SELECT revenue FROM sales WHERE region = 'East'").Scan(&revenue))
	assert.Equal(t, 100, revenue)
}
