// Package picker ties the catalog, converter, and change notifier into a
// selection session.
//
// A session exposes exactly one interface to the surrounding application:
// the attachments-picked delegate, invoked once per successful pick with
// the converted attachments in selection order. A failed conversion
// delivers nothing and leaves the session open for another attempt.
package picker
