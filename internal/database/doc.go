// Package database implements the domain repositories on PostgreSQL.
//
// One repository per aggregate (users, jobs, applications), all backed by
// a shared pgxpool. The UNIQUE (job_id, applicant_id) constraint on
// applications is the authoritative duplicate-application guard; the
// repositories translate its violation into domain.ErrAlreadyApplied.
package database
