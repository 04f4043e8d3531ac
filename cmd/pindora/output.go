package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/pindora-shield/internal/normalize"
	"github.com/jonathan/pindora-shield/internal/pipeline"
	"github.com/jonathan/pindora-shield/internal/rendering"
)

// Output formats shared by the report and normalize commands.
const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatJSON     = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatMarkdown, formatHTML, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be one of markdown, html, json", format)
	}
}

// writeView writes one report view in the requested format.
func writeView(w io.Writer, view *pipeline.View, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view.Report())
	case formatHTML:
		html, err := rendering.RenderPage(rendering.Page{
			Identifier: view.Request.MoleculeIdentifier,
			Status:     view.Response.Status,
			Error:      view.Response.ErrorMessage(),
			Markdown:   view.Markdown(),
		})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	default:
		return writeMarkdown(w, view.Markdown())
	}
}

// writeDocument writes a normalized document in the requested format.
func writeDocument(w io.Writer, doc normalize.Document, format string) error {
	switch format {
	case formatJSON:
		sections := doc.Sections()
		if sections == nil {
			sections = []normalize.Section{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Title    string              `json:"title"`
			Subtitle string              `json:"subtitle,omitempty"`
			Sections []normalize.Section `json:"sections"`
			Markdown string              `json:"markdown"`
		}{doc.Title(), doc.Subtitle(), sections, doc.String()})
	case formatHTML:
		html, err := rendering.HTML(doc.String())
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	default:
		return writeMarkdown(w, doc.String())
	}
}

func writeMarkdown(w io.Writer, markdown string) error {
	if markdown == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, markdown)
	return err
}
