// Package app provides the application service layer.
//
// Orchestrates use cases: account registration and login, job postings,
// application submission with document uploads, and the employer/applicant
// read paths. Sits between HTTP handlers and domain repositories. Depends
// on domain interfaces, not concrete implementations.
package app
