// Package server wires the HTTP surface: routing, bearer-token auth,
// role-gated middleware and the JSON handlers for accounts, jobs and
// applications.
package server
