// Package config provides the run configuration of slashannots: the
// redaction policy options, output and report preferences, the optional
// YAML configuration file with named profiles, and XDG directory helpers.
package config
