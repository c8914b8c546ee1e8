// Package config provides configuration management for the lending engine.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Database: connection details (driver, host, credentials)
//   - Log: logging level and format
//   - Lending: the lending policy (loan period, renewal limits, fine rate)
//
// The lending policy is deliberately a plain value handed to the components
// that need it, not process-wide state.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Lending.MaxRenewals)
package config
