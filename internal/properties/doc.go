// Package properties parses flat key=value property files such as the
// local.properties file generated next to Android projects. Comment lines start
// with '#' or '!', and malformed lines are skipped unless Strict parsing is
// requested.
package properties
