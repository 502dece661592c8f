// Package pack coordinates bundler compilers behind named tasks.
//
// An Orchestrator resolves bundle configuration once per source, keeps one
// compiler per Instance and sequences build, watch and unwatch requests on
// it. Results are reported as log lines through an output.Logger.
//
// Lifecycle of an Instance:
//
//	Idle ──Build──▶ Building ──done──▶ Idle
//	Idle ──Watch──▶ Watching ──Unwatch/close──▶ Idle
//	Watching ──Build──▶ ClosingToRebuild ──close──▶ Watching (build done after first cycle)
package pack
