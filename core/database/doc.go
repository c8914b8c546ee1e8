// Package database handles database connections for the lending engine.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection according to the configured
// driver. MySQL is the production driver; SQLite (including the in-memory
// variant) backs local runs and the test suite.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
