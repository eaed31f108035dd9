// Package arxiv implements the academic-paper connector against the arXiv
// Atom query API (https://info.arxiv.org/help/api/).
package arxiv
