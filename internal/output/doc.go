// Package output renders resolved values as plain lines, shell assignments,
// JSON or YAML.
package output
