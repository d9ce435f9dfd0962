// Package runtime holds the pure decision logic of the page state machine:
// rendering a page into a Presentation and resolving a selection into an Outcome.
//
// Nothing here performs I/O, logs, or mutates its inputs. The root pageflow
// package wraps these functions with catalog lookup, fallbacks and hooks.
package runtime
