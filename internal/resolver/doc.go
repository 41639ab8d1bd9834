// Package resolver resolves a required configuration value, such as an SDK
// install location, from an ordered list of sources. The first source holding
// a non-blank value wins; if every source is exhausted the resolver returns a
// MissingConfigurationError naming the key and the sources it tried.
//
// Sources are passed in explicitly, so resolution never reaches into the
// process environment or file system on its own.
package resolver
