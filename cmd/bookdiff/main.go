// Package main provides the entry point for the bookdiff CLI.
//
// bookdiff compares two versions of a scanned book, each a directory of page
// images or a PDF file, and reports missing, inserted, moved and altered
// pages.
//
// Usage:
//
//	bookdiff compare <old> <new>
//	bookdiff hashcmp <image-a> <image-b>
//	bookdiff serve --addr 127.0.0.1:8080
//
// See --help for all available options.
package main

// main is the entry point for bookdiff.
func main() {
	Execute()
}
