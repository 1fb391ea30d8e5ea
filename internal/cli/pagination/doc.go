// Package pagination provides the paging and sorting used by list commands.
//
// Two mutually exclusive paging modes are supported:
//   - Offset-based: --limit and --offset
//   - Page-based: --page and --page-size
//
// Sort expressions take the form "field" or "field:order".
package pagination
