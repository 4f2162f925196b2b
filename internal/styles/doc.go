// Package styles builds the published stylesheets: Sass compilation through
// dart-sass, vendor prefixing through esbuild, output renaming and
// minification.
package styles
