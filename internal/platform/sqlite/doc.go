// Package sqlite provides an embedded SQLite implementation of the
// store.TranslationStore interface, backed by the pure-Go modernc.org/sqlite
// driver. It is used for single-node deployments and for hermetic tests.
package sqlite
