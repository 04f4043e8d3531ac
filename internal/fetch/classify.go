package fetch

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/pindora-shield/internal/types"
)

// Report payload fields, probed in order. The backend has returned each of
// these shapes at some point.
var reportFields = []string{"report", "data.report", "report_text"}

// SourceBody marks a report taken from the raw response body.
const SourceBody = "body"

// Classify turns a raw backend response into a report response. A body that
// is not JSON is not an error: it becomes the report text itself.
//
// Two cases do not fall back to the raw body verbatim. A report field that is
// present but blank yields an empty outcome, since the backend answered with
// no report. A successful HTML body is converted to markdown before it is
// used as the report.
func Classify(res *Result) types.ReportResponse {
	payload := parsePayload(res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		resp := types.NewReportFailure(types.FailureBackend, errorMessage(payload, res))
		resp.StatusCode = res.StatusCode
		return resp
	}

	status, _ := stringField(payload, "status")
	text, source := extractReport(payload, res)

	resp := types.NewReportSuccess(text, status)
	resp.Source = source
	resp.StatusCode = res.StatusCode
	return resp
}

// parsePayload returns the parsed body, or a zero Result when it is not JSON.
func parsePayload(body string) gjson.Result {
	if !gjson.Valid(body) {
		return gjson.Result{}
	}
	return gjson.Parse(body)
}

// stringField looks up a string at path. Present reports whether the field
// exists as a string at all, empty or not.
func stringField(payload gjson.Result, path string) (value string, present bool) {
	if !payload.IsObject() {
		return "", false
	}
	v := payload.Get(path)
	if v.Type != gjson.String {
		return "", false
	}
	return v.Str, true
}

// extractReport picks the report text and names where it came from. A probed
// field present but blank means the backend sent an empty report, which stops
// the search rather than falling back to the raw body.
func extractReport(payload gjson.Result, res *Result) (text, source string) {
	explicitEmpty := ""
	for _, field := range reportFields {
		v, present := stringField(payload, field)
		if strings.TrimSpace(v) != "" {
			return v, field
		}
		if present && explicitEmpty == "" {
			explicitEmpty = field
		}
	}
	if explicitEmpty != "" {
		return "", explicitEmpty
	}

	// JSON null is the absence sentinel, never report text.
	if payload.Type == gjson.Null && payload.Raw != "" {
		return "", SourceBody
	}

	body := res.Body
	if isHTML(res.ContentType) {
		if markdown, err := htmlToMarkdown(body); err == nil {
			body = markdown
		}
	}
	if strings.TrimSpace(body) == "" {
		return "", SourceBody
	}
	return body, SourceBody
}

// errorMessage picks the failure message: detail, message, body text, then
// a generic status line.
func errorMessage(payload gjson.Result, res *Result) string {
	if msg := detailMessage(payload); msg != "" {
		return msg
	}
	if msg, _ := stringField(payload, "message"); strings.TrimSpace(msg) != "" {
		return msg
	}
	if text := bodyText(res); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", res.StatusCode)
}

// detailMessage reads a FastAPI-style detail field, which is either a string
// or a list of validation errors carrying "msg".
func detailMessage(payload gjson.Result) string {
	if !payload.IsObject() {
		return ""
	}
	detail := payload.Get("detail")
	switch {
	case detail.Type == gjson.String:
		return strings.TrimSpace(detail.Str)
	case detail.IsArray():
		var msgs []string
		detail.ForEach(func(_, item gjson.Result) bool {
			if m := item.Get("msg"); m.Type == gjson.String && m.Str != "" {
				msgs = append(msgs, m.Str)
			} else if item.Type == gjson.String && item.Str != "" {
				msgs = append(msgs, item.Str)
			}
			return true
		})
		return strings.Join(msgs, "; ")
	case detail.IsObject():
		if m := detail.Get("msg"); m.Type == gjson.String && m.Str != "" {
			return m.Str
		}
		return detail.Raw
	case detail.Type == gjson.Number:
		return detail.Raw
	}
	return ""
}

// bodyText returns the visible text of an error body. HTML error pages from
// gateways are reduced to their text.
func bodyText(res *Result) string {
	if isHTML(res.ContentType) {
		if text, err := ExtractText(res.Body); err == nil && text != "" {
			return text
		}
	}
	if strings.TrimSpace(res.Body) == "" {
		return ""
	}
	return res.Body
}
