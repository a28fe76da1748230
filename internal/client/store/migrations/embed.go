// Package migrations embeds the schema for the client's durable state store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
