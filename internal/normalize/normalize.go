// Package normalize reshapes free-form report text into heading-structured
// markdown that a generic markdown renderer can display.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// BlockKind identifies the role of a block in a normalized document.
type BlockKind string

const (
	KindTitle    BlockKind = "title"
	KindSubtitle BlockKind = "subtitle"
	KindSection  BlockKind = "section"
	KindBody     BlockKind = "body"
)

const (
	titleUnderline = '='
	subtitleMarker = "## "
)

// Block is one unit of a normalized document.
type Block struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text"`
}

// Document is an ordered sequence of blocks. A non-empty document always
// starts with its title.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Section is a recognized heading together with the body text under it.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body,omitempty"`
}

// Normalize converts raw report text into a Document. It never fails: empty
// input yields an empty document.
//
// The first line becomes the title, the second line (when present, not blank
// and not a section line) the subtitle, and every line opening with a
// recognized section name becomes a section heading followed by the rest of
// that line. Text produced by Document.String is read back as the same
// blocks, so normalizing rendered output is stable.
func Normalize(raw string) Document {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if text == "" {
		return Document{}
	}

	lines := strings.Split(text, "\n")
	b := &builder{rendered: isRendered(lines)}

	if b.rendered {
		b.add(KindTitle, unescapeTitle(strings.TrimSpace(lines[0])))
		lines = lines[2:]
	} else {
		b.add(KindTitle, strings.TrimSpace(lines[0]))
		lines = lines[1:]
	}

	for _, line := range b.subtitle(lines) {
		b.line(line)
	}
	return b.document()
}

// String normalizes raw and renders the result as markdown.
func String(raw string) string {
	return Normalize(raw).String()
}

// String renders the document as markdown, blocks separated by blank lines.
// The title is a setext heading so a rendered document never collides with
// raw text whose first line happens to start with "#".
func (d Document) String() string {
	parts := make([]string, 0, len(d.Blocks))
	for _, block := range d.Blocks {
		switch block.Kind {
		case KindTitle:
			title := escapeTitle(block.Text)
			underline := strings.Repeat(string(titleUnderline), max(3, utf8.RuneCountInString(title)))
			parts = append(parts, title+"\n"+underline)
		case KindSubtitle, KindSection:
			parts = append(parts, subtitleMarker+block.Text)
		default:
			lines := strings.Split(block.Text, "\n")
			for i, line := range lines {
				lines[i] = escapeBody(line)
			}
			parts = append(parts, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(parts, "\n\n")
}

// IsEmpty reports whether the document has no blocks.
func (d Document) IsEmpty() bool {
	return len(d.Blocks) == 0
}

// Title returns the document title, or "" for an empty document.
func (d Document) Title() string {
	if len(d.Blocks) == 0 {
		return ""
	}
	return d.Blocks[0].Text
}

// Subtitle returns the subtitle if the document has one.
func (d Document) Subtitle() string {
	if len(d.Blocks) > 1 && d.Blocks[1].Kind == KindSubtitle {
		return d.Blocks[1].Text
	}
	return ""
}

// Sections returns the recognized sections in document order.
func (d Document) Sections() []Section {
	var sections []Section
	for _, block := range d.Blocks {
		switch block.Kind {
		case KindSection:
			sections = append(sections, Section{Heading: block.Text})
		case KindBody:
			if n := len(sections); n > 0 {
				if sections[n-1].Body != "" {
					sections[n-1].Body += "\n\n"
				}
				sections[n-1].Body += block.Text
			}
		}
	}
	return sections
}

type builder struct {
	blocks   []Block
	pending  []string
	rendered bool
}

// subtitle consumes the subtitle line, if any, and returns the remaining lines.
func (b *builder) subtitle(lines []string) []string {
	if b.rendered {
		i := 0
		for i < len(lines) && isBlank(lines[i]) {
			i++
		}
		if i < len(lines) {
			if text, ok := headingText(lines[i], subtitleMarker); ok && !IsSection(text) {
				b.add(KindSubtitle, text)
				return lines[i+1:]
			}
		}
		return lines
	}

	if len(lines) == 0 || isBlank(lines[0]) {
		return lines
	}
	if _, _, ok := matchSection(lines[0]); ok {
		return lines
	}
	text, ok := headingText(lines[0], subtitleMarker)
	if !ok {
		text = strings.TrimSpace(lines[0])
	} else if IsSection(text) {
		return lines
	}
	b.add(KindSubtitle, text)
	return lines[1:]
}

func (b *builder) line(line string) {
	if text, ok := headingText(line, subtitleMarker); ok && IsSection(text) {
		b.add(KindSection, text)
		return
	}
	if name, rest, ok := matchSection(line); ok {
		b.add(KindSection, name)
		if rest != "" {
			b.pending = append(b.pending, rest)
		}
		return
	}
	if b.rendered {
		line = unescapeBody(line)
	}
	b.pending = append(b.pending, line)
}

func (b *builder) add(kind BlockKind, text string) {
	b.flush()
	b.blocks = append(b.blocks, Block{Kind: kind, Text: text})
}

// flush turns pending body lines into a block, dropping blank edges.
func (b *builder) flush() {
	lines := b.pending
	b.pending = nil
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return
	}
	b.blocks = append(b.blocks, Block{Kind: KindBody, Text: strings.Join(lines, "\n")})
}

func (b *builder) document() Document {
	b.flush()
	return Document{Blocks: b.blocks}
}

// headingText strips a markdown heading marker, requiring text after it.
func headingText(line, marker string) (string, bool) {
	if !strings.HasPrefix(line, marker) {
		return "", false
	}
	text := strings.TrimSpace(line[len(marker):])
	if text == "" {
		return "", false
	}
	return text, true
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isRendered reports whether lines start with the setext title that
// Document.String emits: a title line, an underline, then a blank line or
// nothing.
func isRendered(lines []string) bool {
	if len(lines) < 2 || !isUnderline(lines[1]) {
		return false
	}
	return len(lines) == 2 || isBlank(lines[2])
}

func isUnderline(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.Trim(line, string(titleUnderline)) == ""
}

// escapeTitle backslash-escapes the leading character of a title when it
// would otherwise open another markdown block, such as an ATX heading, list
// item or quote.
func escapeTitle(s string) string {
	if s == "" {
		return s
	}
	if isASCIIPunct(s[0]) {
		return `\` + s
	}
	if n := leadingDigits(s); n > 0 && n < len(s) && strings.IndexByte(`.)\`, s[n]) >= 0 {
		return s[:n] + `\` + s[n:]
	}
	return s
}

func unescapeTitle(s string) string {
	if len(s) > 1 && s[0] == '\\' && isASCIIPunct(s[1]) {
		return s[1:]
	}
	if n := leadingDigits(s); n > 0 && n+1 < len(s) && s[n] == '\\' && strings.IndexByte(`.)\`, s[n+1]) >= 0 {
		return s[:n] + s[n+1:]
	}
	return s
}

// bodyEscapes are the leading characters that would turn a body line into a
// heading (or hide an escape) when the document is read back.
const bodyEscapes = `#=\`

func escapeBody(line string) string {
	i := len(line) - len(strings.TrimLeft(line, " \t"))
	if i < len(line) && strings.IndexByte(bodyEscapes, line[i]) >= 0 {
		return line[:i] + `\` + line[i:]
	}
	return line
}

func unescapeBody(line string) string {
	i := len(line) - len(strings.TrimLeft(line, " \t"))
	if i+1 < len(line) && line[i] == '\\' && strings.IndexByte(bodyEscapes, line[i+1]) >= 0 {
		return line[:i] + line[i+1:]
	}
	return line
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}
