// Package cli defines the Cobra command tree for catdiffuse-setup. The root
// command runs the setup; each other file registers one subcommand. Commands
// delegate to internal packages and only handle flags, I/O and exit status.
package cli
