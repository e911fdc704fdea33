package output

// SchemaVersion is the current version of the NDJSON record schema.
// Increment it when a record changes incompatibly.
const SchemaVersion = 1
