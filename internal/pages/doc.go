// Package pages enumerates the page images of one document version.
//
// A version is either a directory of image files or a PDF. For a directory
// every regular, non-hidden file with an image extension is one page, and
// page order comes from the file names. For a PDF each PDF page is one page,
// represented by the largest image embedded in it.
package pages
