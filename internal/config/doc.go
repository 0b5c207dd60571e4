// Package config provides environment-based configuration.
//
// Loads env vars into a Config struct, validates required fields
// (database URL, JWT secret, Cloudinary credentials) and applies
// defaults for the rest.
package config
