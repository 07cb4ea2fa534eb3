// Package config provides configuration structures for fixture builders and
// the fixture command.
//
// Configuration only exists during initialization: builders copy what they
// need out of a BuilderConfig and resolve named collaborators (observers)
// through registries, so JSON files can select them by name.
//
// # Merging
//
// Every configuration type has a Default constructor and a Merge method.
// Loaded files merge over defaults:
//
//	cfg := config.DefaultConfig()
//	var loaded config.Config
//	json.Unmarshal(data, &loaded)
//	cfg.Merge(&loaded)
//
// Merge semantics by field type:
//
//   - Strings: merge if source is non-empty
//   - Integers: merge if source is greater than zero
//   - Slices: merge if source is non-empty
//   - Nested configs: recursive merge
package config
