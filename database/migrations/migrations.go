// Package migrations registers the SQL schema migrations. It is imported
// by cmd/bazaar so `bazaar migrate` sees them; MongoDB needs none.
package migrations
