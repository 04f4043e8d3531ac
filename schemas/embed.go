// Package schemas holds the JSON Schemas for the service's file and wire
// formats. They are embedded so the binary validates without the source tree.
package schemas

import _ "embed"

// Config is the schema for JSON configuration files.
//
//go:embed config.schema.json
var Config string

// ReportView is the schema for the report view returned by POST /report and
// streamed as SSE "report" events.
//
//go:embed report_view.schema.json
var ReportView string
