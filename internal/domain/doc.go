// Package domain holds the Person entity and the error vocabulary shared by
// every layer: the ErrorKind classification of failed data-access
// operations and the sentinel errors callers match with errors.Is.
package domain
