// Package pubmed implements the biomedical-literature connector against the
// NCBI E-utilities API (esearch + esummary,
// https://www.ncbi.nlm.nih.gov/books/NBK25500/).
package pubmed
