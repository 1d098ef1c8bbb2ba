// Package config provides configuration structures and utilities for bookdiff.
// It defines the comparison parameters (threshold, hash algorithm, banding,
// move detection), fingerprinting and cache settings, and report output
// preferences, and loads optional defaults from a .bookdiff YAML file.
package config
