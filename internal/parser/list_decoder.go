package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	listQuote     = '\''
	listEscape    = '\\'
	listSeparator = ','
)

var ErrNotList = errors.New("value is not a bracketed list")

// emptyListForms are the textual encodings of a list with no usable items.
var emptyListForms = map[string]bool{
	"":       true,
	"[]":     true,
	"['']":   true,
	`[""]`:   true,
	"[ ]":    true,
	"[ '' ]": true,
}

// ListDecoder turns pseudo-list strings such as "['item 1', 'item 2']" into
// string slices. Decode never fails: malformed input degrades to an empty
// slice and is reported through OnDegrade and a warning log.
type ListDecoder struct {
	OnDegrade func(err error)
}

// DecodeList decodes with a default decoder.
func DecodeList(raw any) []string {
	return (&ListDecoder{}).Decode(raw)
}

// Decode accepts an encoded string, an already structured []string (returned
// unchanged) or a []any of strings as produced by JSON decoding. A nil value
// is an absent field and yields an empty slice.
func (d *ListDecoder) Decode(raw any) (items []string) {
	defer func() {
		if r := recover(); r != nil {
			items = d.degrade(fmt.Errorf("list decode panic: %v", r))
		}
	}()

	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return d.degrade(fmt.Errorf("list item %d has type %T", i, item))
			}
			out = append(out, s)
		}
		return out
	case string:
		out, err := DecodeListStrict(v)
		if err != nil {
			return d.degrade(err)
		}
		return out
	default:
		return d.degrade(fmt.Errorf("unsupported list value of type %T", raw))
	}
}

func (d *ListDecoder) degrade(err error) []string {
	slog.Warn("List decode degraded to empty", "error", err)
	if d.OnDegrade != nil {
		d.OnDegrade(err)
	}
	return []string{}
}

// DecodeListStrict decodes one encoded list and reports malformed input
// instead of degrading.
//
// Scanning rules: a backslash copies itself and the next character verbatim;
// quotes toggle the quoted state and are never emitted; a quote directly
// followed by a comma closes the current item, and the separator, one space
// and the next opening quote are consumed. A comma inside a quoted item that
// directly follows a quote is therefore read as an item boundary.
func DecodeListStrict(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if emptyListForms[s] {
		return []string{}, nil
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: %.40q", ErrNotList, s)
	}

	sc := listScanner{input: []rune(s[1 : len(s)-1])}
	return sc.scan(), nil
}

type listScanner struct {
	input []rune
	pos   int

	items      []string
	buf        strings.Builder
	inQuote    bool
	escapeNext bool
}

func (sc *listScanner) scan() []string {
	sc.items = make([]string, 0)

	for ; sc.pos < len(sc.input); sc.pos++ {
		ch := sc.input[sc.pos]

		if sc.escapeNext {
			sc.buf.WriteRune(ch)
			sc.escapeNext = false
			continue
		}

		switch {
		case ch == listEscape:
			sc.escapeNext = true
			sc.buf.WriteRune(ch)
		case ch == listQuote:
			if sc.inQuote && sc.peek(1) == listSeparator {
				sc.closeItem()
				continue
			}
			sc.inQuote = !sc.inQuote
		case sc.inQuote || ch != listSeparator:
			sc.buf.WriteRune(ch)
		}
	}

	if rest := strings.TrimSpace(sc.buf.String()); rest != "" {
		sc.items = append(sc.items, rest)
	}
	return sc.items
}

// closeItem is called with pos on a closing quote that precedes a separator.
func (sc *listScanner) closeItem() {
	sc.items = append(sc.items, strings.TrimSpace(sc.buf.String()))
	sc.buf.Reset()
	sc.inQuote = false

	sc.pos++ // separator
	if sc.peek(1) == ' ' {
		sc.pos++
	}
	if sc.peek(1) == listQuote {
		sc.pos++
		sc.inQuote = true
	}
}

func (sc *listScanner) peek(offset int) rune {
	i := sc.pos + offset
	if i >= len(sc.input) {
		return 0
	}
	return sc.input[i]
}
