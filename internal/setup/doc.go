// Package setup runs the ordered preparation of a bot checkout: interpreter
// check, dependency install, credential and framework-config scaffolding,
// the unit tests and an optional dry-run of the bot. The first failing step
// ends the run; nothing already done is rolled back.
package setup
