// Package config provides configuration management for the SRE test service.
//
// Configuration is loaded from an optional YAML file and from environment
// variables using the env package. All configuration values have sensible
// defaults, so the service runs with no configuration at all.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
