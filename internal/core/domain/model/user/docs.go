// Package user provides the actors of the load board: registered users, their
// fixed roles, and Identity, the authenticated actor passed into every operation.
package user
