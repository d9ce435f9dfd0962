/*
Package domain contains the core domain models of the pageflow engine.

It defines the conversation graph (Pages and their Transitions), the session-scoped
UserContext, and the values the engine hands back to its callers: the channel-agnostic
Presentation and the Outcome of resolving a selection. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Page: A named conversation state with a Content variant and a transition table.
  - Content: Tagged variant of what a page shows (InteractiveList, ButtonMenu, PlainText).
  - Transition: What happens when a selection id is chosen (page, flow or function).
  - UserContext: Session values read for template substitution.
  - Presentation: The rendered, channel-agnostic payload.
  - Outcome: Result of resolving a selection (Resolved with an Action, or Unresolved).
*/
package domain
