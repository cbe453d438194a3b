// Package archive handles the zip archives at the edges of the web
// workflow: extracting uploaded source trees and packing generated
// output for download.
package archive
