// Package config loads the configuration of the feature builder.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command line flags (applied by the command after Load)
//	2. Environment variables
//	3. A YAML configuration file
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// Every field can be set through an OLIST_* variable named after its
// section and field:
//
//	OLIST_DATA_DIR=/srv/olist/csv
//	OLIST_DATA_FILE_SUFFIXES=_dataset.csv,.csv
//	OLIST_FEATURES_WITH_DISTANCE=true
//	OLIST_OUTPUT_FORMAT=xlsx
//	OLIST_LOGGING_LEVEL=debug
//
// # Configuration File
//
// When no path is given, Load looks for config.yaml and configs/config.yaml:
//
//	data:
//	  dir: data/csv
//	  file_prefix: olist_
//	features:
//	  is_delivered: true
//	  with_distance: true
//	output:
//	  path: reports/training.csv
//	  format: csv
//
// # Validation
//
// Load validates the result with validator tags and returns a CONFIG error
// naming the failing fields.
//
// # Testing
//
// Default returns a configuration that needs no file or environment.
package config
