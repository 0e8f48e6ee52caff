// Package postgres provides the PostgreSQL implementation of the
// store.TranslationStore interface defined in internal/store, together with
// the embedded goose migrations for its schema. It handles query execution,
// error mapping, and the mapping between domain entities and rows.
package postgres
