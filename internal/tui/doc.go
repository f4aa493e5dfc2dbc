// Package tui is the terminal front end of the client: one list per entity
// kind with forms for creating and editing entities, built on bubbletea.
package tui
