// Package migrations embeds database schema migrations.
package migrations

import "embed"

// ClickHouse holds the ClickHouse migrations under the "clickhouse" directory.
//
//go:embed clickhouse/*.sql
var ClickHouse embed.FS
