package domain

import "errors"

// ErrPageNotFound is returned when a page name is absent from the catalog.
var ErrPageNotFound = errors.New("page not found")

// ErrUnknownSelection is returned when a selection id has no transition on a page.
var ErrUnknownSelection = errors.New("unknown selection")

// ErrMalformedTransition is reported when a transition sets zero or several targets.
var ErrMalformedTransition = errors.New("malformed transition")

// ErrUnknownPresentationKind is returned when a page's content is not one of the known variants.
var ErrUnknownPresentationKind = errors.New("unknown presentation kind")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
