// Package prompt builds the instruction text sent to the generation backend
// for each artifact kind.
//
// Each kind has a text/template compiled into the binary. A template
// directory may be configured to override individual kinds with a
// <kind>.tmpl file; kinds without an override keep the built-in template.
package prompt
