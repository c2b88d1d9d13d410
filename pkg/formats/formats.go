// Package formats provides the box model document: its types, the JSON
// reader/writer and the schema validator that guards it.
//
// A document is a forest of named ModelRenderers (pivots), each owning
// cubes and child renderers. Untrusted JSON is validated before it is
// mapped into typed values; nothing that fails validation is ever returned
// as a Model.
package formats
