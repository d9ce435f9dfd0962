/*
Package pageflow is a deterministic conversation-flow engine for multi-channel chat assistants.

A conversation is a graph of pages. Each page presents a list menu, a button menu or a
plain text message, and carries a transition table keyed by selection id. Given a page
and an already-resolved selection id, the engine decides what happens next: move to
another page, hand off to a named sub-flow, or invoke a named backend function.

# Concept

The engine is pure decision logic. It performs no I/O once constructed: channel adapters
translate inbound payloads into (page, selection id) pairs and translate the returned
Presentation into their platform's message format. Session state, delivery and
free-text classification belong to the host.

# Key Features

  - Deterministic: the same page, selection and context always yield the same outcome.
  - Total: Render and Select never panic; missing pages and unknown selections become
    fallback presentations and unresolved outcomes the host can escalate.
  - Immutable catalog: pages are validated once and shared lock-free across sessions.
  - Enumerated placeholders: templates only substitute names the page declares.

# Usage

	eng, err := pageflow.New() // embedded clinic catalog
	if err != nil {
		log.Fatal(err)
	}

	uctx := domain.UserContext{"patient_name": "Ana"}
	pres, _ := eng.Render(ctx, "main_menu", uctx)
	// ... send pres to the channel, receive a selection id ...

	out := eng.Select(ctx, "main_menu", "appointments", uctx)
	if out.Resolved() {
		uctx.Merge(out.SetParameters)
	}

# Architecture

  - pkg/domain: pages, transitions, presentations and outcomes.
  - pkg/catalog: the immutable page catalog and its validation.
  - pkg/ports: interfaces for loaders, session stores, analytics and escalation.
  - pkg/adapters: memory, file, loam, redis, MQTT, Postgres, HTTP and MCP adapters.
  - pkg/conversation: a session-aware service on top of the engine.
*/
package pageflow
