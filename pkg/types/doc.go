// Package types holds the shared data types of minipatch: the filesystem
// abstraction the whole pipeline runs against, and the tagged rule tree
// the evaluator dispatches on.
package types
