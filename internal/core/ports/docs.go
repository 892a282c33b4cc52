// Package ports declares the interfaces the application core needs from the outside
// world: persistence, the product catalog, push transport and event publishing.
package ports
