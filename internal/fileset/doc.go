// Package fileset holds the file-tree primitives every pipeline step is built
// from: glob selection with negations, structure-preserving copy, idempotent
// prune, and whole-file rewrites (prepend, atomic replace, rename).
//
// Patterns use doublestar syntax and are always relative to an explicit base
// directory:
//
//	files, err := fileset.Match(assets, []string{"fonts/**/*", "!**/*.ttf"})
package fileset
