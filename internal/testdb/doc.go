// Package testdb provides database helpers for tests.
//
// SQLite databases are created per test in a temporary directory, so tests
// using them are hermetic and need no external services. PostgreSQL helpers
// connect to the database named by DATABASE_URL (or LOCALE_TEST_DB_URL) and
// skip the test when neither is set. Each PostgreSQL test runs inside a
// transaction that is rolled back when the test completes:
//
//	func TestFeature(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresTranslationStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
