// Package application provides application initialization and dependency wiring.
// It turns the loaded configuration into ordered resolution requests (property
// file, environment variable, default), runs them through the resolver and
// validates each value, keeping the main package focused on CLI parsing and
// orchestration.
package application
