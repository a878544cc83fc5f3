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

// Package sqldriver registers the database/sql drivers tables can be queried
// from and maps user-facing driver names onto them.
//
// Import it for side effects where a *sql.DB is opened:
//
//	import "github.com/teradata-labs/vizc/internal/sqldriver"
//
//	db, err := sql.Open(sqldriver.Name(cfg.Driver), cfg.DSN)
package sqldriver
