// Package services contains the business logic layer between the HTTP
// handlers and the storage, decoding and analytics components.
//
// # Architecture
//
// Each service owns one concern:
//
//   - WorkbookService: upload, retrieval, listing and cross-period
//     comparison of monthly workbooks
//   - AuthService: the single credential pair and bearer sessions
//   - NotesService: delivery of analyst notes over the Resend API
//
// Services accept interfaces for their collaborators and return domain
// structs, so handlers stay thin and tests can substitute fakes.
//
// # Error Handling
//
// Services return the sentinel errors declared in errors.go. Handlers map
// them to RFC 7807 problem responses with errors.Is.
package services
