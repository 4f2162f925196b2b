// Package dist builds the publishable design-system package: it resolves the
// build context from configuration and the project manifest, runs the
// canonical step list against a fresh output root, and records the outcome.
package dist
