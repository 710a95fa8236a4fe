// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates user configuration.
//
// Configuration lives in a CUE file validated against an embedded schema,
// with defaults and environment overrides layered through Viper.
package config
