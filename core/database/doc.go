// Package database handles tracker database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that
// configures either a SQLite or a MySQL connection based on the application's
// configuration. SQLite is the default: the tracker is usually a single-host
// CLI agent and the job state machine only needs a local store with atomic
// guarded updates. MySQL is available when several agents share one tracker
// database.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
