// Package settings stores per-document state.
//
// A Store is the key-value store attached to one document. MemoryStore
// backs unsaved documents and tests; StateFile persists the stores of
// many documents in a single msgpack file. Accessor layers the
// smart-quote keys on top of a Store.
package settings
