// Package model defines the declarative dialog definition consumed by the
// engine: a strict tree of Field definitions (containers own their children by
// value, no back-pointers), optional wizard Steps, action Buttons and the
// Response produced when a dialog resolves.
//
// Field kinds form a closed set. Every Kind is classified as a leaf control or
// a container through Kind.Class; an unknown kind is rejected while the dialog
// is constructed instead of falling through to a default. Containers (group,
// tabs) are never validated themselves, only their children.
//
// Conditions drive live visibility and required-ness. They reference another
// field by id and are evaluated by the rules package against the dialog's
// value store. Definitions carry both json and yaml tags so the config package
// can decode them straight from files.
package model
