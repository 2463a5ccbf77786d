// Package config provides configuration management for holocron.
//
// Values come from environment variables, optionally seeded from a .env file
// through godotenv. Defaults live next to each field in `default:` struct tags
// and are registered with Viper by reflection.
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Log: level and format
//   - Store: directory holding encyclopedia.db and collection.db
//   - Storage: S3/MinIO credentials and the dataset bucket
//   - Dataset: where the bundled dataset is read from and its version override
//   - Stats: statistics cache TTL
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Store.DataDir())
package config
