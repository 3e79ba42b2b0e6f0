// Package input reads analysis files.
//
// An analysis file is YAML with an optional company name and optional scores
// and notes keyed by dimension slug:
//
//	company: Acme Pay
//	scores:
//	  integration: 80
//	  painPoint: 65
//	notes:
//	  integration: |
//	    Public API, webhooks and a sandbox.
//
// Files are checked against an embedded JSON Schema and then applied to a
// fresh session, so omitted dimensions keep the default score and scores
// outside [0, 100] fail with model.ErrOutOfRange.
package input
