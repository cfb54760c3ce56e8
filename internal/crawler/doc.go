// Package crawler runs the one-level fetch, extract, and record pipeline over
// a fixed list of seed URLs. Each seed is processed by an independent unit of
// work; a failure in one unit never affects its siblings.
package crawler
