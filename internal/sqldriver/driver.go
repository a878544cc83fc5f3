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

package sqldriver

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	_ "github.com/lib/pq"              // registers "postgres"
	_ "modernc.org/sqlite"             // registers "sqlite" (pure Go)
)

var aliases = map[string]string{
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"pg":         "postgres",
	"mysql":      "mysql",
	"mariadb":    "mysql",
}

// Supported lists the registered driver names.
func Supported() []string {
	return []string{"mysql", "postgres", "sqlite"}
}

// Name returns the registered driver name for driver, or an error naming the
// supported drivers.
func Name(driver string) (string, error) {
	name, ok := aliases[strings.ToLower(strings.TrimSpace(driver))]
	if !ok {
		return "", fmt.Errorf("unsupported SQL driver %q (supported: %s)", driver, strings.Join(Supported(), ", "))
	}
	return name, nil
}
