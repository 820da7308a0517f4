// Package presenter holds the headless model behind the persons table.
//
// A Table owns the row list shown to the user. Its methods, and every
// continuation they schedule, run on the UI consumer, so the row list needs
// no locking. Database work goes through the asynchronous repository and
// user-facing messages go through a Notifier.
package presenter
