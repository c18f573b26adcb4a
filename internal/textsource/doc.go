// Package textsource normalizes the ways notes enter a session (pasted text,
// plain-text uploads and PDF uploads) into a single text payload.
//
// Plain-text uploads must be valid UTF-8 and are returned byte for byte.
// PDF uploads are opened from memory and the plain text of every page is
// concatenated in page order with no separator between pages.
package textsource
