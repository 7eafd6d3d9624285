// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the execution lifecycle (load the sheet,
// apply edits, report values, save and optionally serve), decoupled from any
// specific entrypoint like a CLI.
package app
