// Package toolchain validates resolved configuration values before a build
// uses them: SDK roots must be directories holding their expected files and
// version codes must be integers.
package toolchain
