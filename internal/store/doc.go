// Package store defines interfaces for translation persistence.
// These interfaces abstract the underlying data storage mechanism from
// the service layer, allowing business rules to remain independent of
// the database in use (PostgreSQL or SQLite).
package store
