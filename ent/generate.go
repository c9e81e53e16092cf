// Package ent holds the declarative schemas for the immowert tables.
// internal/store builds the same tables with the ent SQL builder; its
// schema test keeps both in agreement.
package ent

//go:generate go run -mod=mod entgo.io/ent/cmd/ent generate ./schema
