// Package config loads auctiond configuration from YAML.
//
// Files support ${VAR} environment substitution. Load parses, defaults
// fill optional fields, and Validate rejects configs the server cannot
// run with. Seed items let an operator preload the auction house at
// startup.
package config
