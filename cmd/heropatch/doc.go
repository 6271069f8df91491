// Package main hosts the heropatch CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and the page catalog once,
// then hands the work to the internal packages: fetch, patch and run drive
// the workflow runner, catalog and history are read-only views, and config
// scaffolds and checks the configuration file.
//
// Keep this package lean: add behaviour to the internal packages first and
// surface it through commands or flags here.
package main
