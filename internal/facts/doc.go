// Package facts holds the measurements collected for one scan target.
//
// A Store is an immutable mapping from Key to a typed value. Every key has a
// declared Kind in the schema (see Schema). A key is either absent or holds a
// fully-formed value of its kind; partially decoded values are rejected when
// a fact file is loaded.
//
// Values are produced by external scanners and loaded from JSON or YAML
// fact files with LoadFile or Decode.
package facts
