// Package listview provides a scrolling list component for Bubble Tea programs.
//
// Only the rows inside the viewport, plus a small buffer, are rendered, so
// long activity histories stay responsive.
package listview
