// Package config resolves the settings of a setup run: interpreter, template
// and target paths, test target and bot entry point. Defaults are built in;
// a per-project .catdiffuse-setup.yaml and CATDIFFUSE_* environment variables
// override them. Settings files are validated against an embedded JSON schema.
package config
