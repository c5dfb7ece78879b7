// Package config provides centralized configuration for the wardriving
// analyzer. Values are loaded from an optional YAML file, overridden by
// WARDRIVE_* environment variables, defaulted, and validated.
//
// # Configuration Sources
//
// In order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (WARDRIVE_CONFIG, default config.yaml)
//	3. Built-in defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables use the WARDRIVE_ prefix:
//
//	WARDRIVE_SERVER_PORT=8080
//	WARDRIVE_LOGGING_LEVEL=debug
//	WARDRIVE_INTERFERENCE_CONGESTION_PERCENTILE=90
//	WARDRIVE_GEOSPATIAL_MAX_GRID_CELLS=900
//	WARDRIVE_GEOSPATIAL_CLUSTER_DISTANCE_METERS=50
package config
