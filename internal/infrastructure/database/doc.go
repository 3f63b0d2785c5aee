// Package database provides SQLite connectivity for staffgate.
//
// This package manages:
//   - Database connection with foreign keys enforced and WAL mode
//   - Schema migrations applied from an fs.FS (see the migrations package)
//   - Classification of constraint failures (unique, foreign key)
//
// All queries use parameterised statements. The database file is created
// with 0600 permissions.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive. Each version has an .up.sql file and, where
// rollback makes sense, a .down.sql file.
package database
