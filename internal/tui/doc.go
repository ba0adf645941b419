// Package tui renders sampling runs straight to a terminal stream.
package tui
