// Package format renders a pipeline result into the stable JSON
// response schema. Field names and truncation rules are fixed;
// a result that cannot satisfy the schema is an error, never a
// silently malformed document.
package format
