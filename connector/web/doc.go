// Package web implements the live web page connector.
//
// The connector runs the query terms against an HTML search endpoint, follows
// the top result links, and extracts readable page text with langchaingo's
// HTML document loader. Each followed page becomes one ContentItem.
package web
