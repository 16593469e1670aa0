// Package library manages the pre-existing image asset library: slug-named
// image files with YAML sidecar metadata (tags, description, source, date).
//
// Storyboards reference library assets by slug to skip image generation for
// scenes where a real photograph or prepared graphic exists. Slugs are
// lowercase alphanumeric with hyphen/underscore separators and are validated
// before any path is touched so a storyboard can never address files outside
// the library directory.
package library
