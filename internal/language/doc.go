// Package language decides which quote language a document uses.
//
// Service.Resolve runs detection on the document's root file, recovers
// unsupported results by toggling the "-ucs" suffix, falls back to the
// configured default when all else fails, and caches the outcome in the
// document's settings. Every outcome is reported through a StatusFunc.
package language
