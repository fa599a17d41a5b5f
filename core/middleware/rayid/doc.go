// Package rayid provides the request-ID middleware for the status API.
//
// Every request receives a ray_id (generated or propagated from the
// X-Ray-ID header) stored in the request locals, which logger.WithRayID
// attaches to log entries for correlation.
package rayid
