// SPDX-License-Identifier: MPL-2.0

// Package config handles mx configuration using Viper with TOML as the file format.
//
// Configuration is read from mx.toml in the working directory, or from an explicit
// path given with --config. The file is decoded with go-toml, validated against an
// embedded CUE schema (config_schema.cue) and merged over built-in defaults held by
// Viper. Scalar settings can also be supplied through MX_* environment variables.
//
// The [runtimes] table is kept out of Viper because Viper folds keys to lower case
// and language identifiers are case-sensitive.
package config
