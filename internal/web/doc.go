// Package web exposes the generation pipeline over HTTP. Clients upload
// a zip archive of a source tree, pick a task, poll the resulting job
// and download the generated documents as a zip.
package web
