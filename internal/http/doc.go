// Package http provides HTTP handlers and middleware for the planning API.
//
// The router exposes the following endpoints:
//   - POST /rest-planning/periods: creates a validity period ("vigencia").
//     Body: {"name","from","to"}. Restricted to the full-access roles.
//   - GET /rest-planning/periods: lists validity periods, newest first.
//   - POST /rest-planning/bulk: submits the plan segments for one or more
//     agents, exchanging the `bulkRequest` payload defined in plan_handler.go.
//     The whole submission commits or fails as a unit.
//   - GET /rest-planning: queries stored plans. The global range comes from
//     either ?vigencia_id or ?from/?to; optional ?unit_id and ?agent_id narrow
//     the result on top of the caller's forced role scope.
//   - GET /healthz: liveness probe, no authentication.
//
// All planning routes require a bearer token carrying the caller's role and
// scope claims. Request/response DTOs live alongside their respective handlers
// so tests and documentation share the same ground truth.
package http
