// Package refcore is a reference-first retrieval core over a workspace of
// session transcripts and prose memory files.
//
// Callers get back small, ordered sets of references — (path, line-range,
// preview) tuples — that can be lazily expanded into bounded text windows.
// A second engine retrieves over structured transcripts through a
// prebuilt inverted index and a three-tier query pipeline, kept fresh by
// incremental indexing. A bounded recursive loop sits above both and derives
// follow-up queries from expanded snippets. See SPEC_FULL.md for the full
// component breakdown.
package refcore
