// Package pipelineapi provides an HTTP client for the pipeline service.
//
// # Overview
//
// The pipeline service generates synthetic streaming pipelines (a random
// stream, a Kafka external stream and a materialized view writing into it)
// from a natural-language question. This package is the dashboard's only
// window onto that service: it lists, fetches, creates and deletes pipelines
// and decodes the JSON payloads into typed structs.
//
// # Architecture
//
//   - client.go: Client, the API interface, request plumbing
//   - types.go: payload structs mirroring the service schema
//   - errors.go: RemoteError and detail extraction
//   - loader.go: LoadSummaries, the list + per-item write count merge
//   - apitest/: an in-memory fake of the service for tests
//
// # Endpoints
//
//	GET    /pipelines        -> {"pipelines": [...]}
//	GET    /pipelines/{id}   -> pipeline detail with live write_count
//	POST   /pipelines        <- {"question": "..."}
//	DELETE /pipelines/{id}
//
// # Error Handling
//
// Every call makes exactly one attempt. Failures come back as *RemoteError:
//
//   - Non-2xx response: Status is the HTTP code and Detail is the body's
//     "detail" string, or a generic "<METHOD> <path> returned status N".
//   - Transport failure: Status is StatusNone and Detail is the error text.
//
// Use errors.As to inspect a RemoteError, or Detail(err) to get the message
// meant for the user.
//
// # Usage Example
//
//	client, err := pipelineapi.NewClient("http://127.0.0.1:5002", 0)
//	if err != nil {
//		return err
//	}
//	summaries, err := pipelineapi.LoadSummaries(ctx, client, 0)
//	if err != nil {
//		fmt.Println("Error loading pipelines:", pipelineapi.Detail(err))
//	}
//
// Each request carries an X-Request-ID header so client and server logs can
// be correlated.
package pipelineapi
