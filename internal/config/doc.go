// Package config handles configuration loading, parsing, and validation
// from a flat properties file and PERSONA_ environment variables. It provides
// type-safe access to the settings needed by the connection manager, the
// worker pool and logging while keeping configuration details separate from
// data-access logic.
package config
