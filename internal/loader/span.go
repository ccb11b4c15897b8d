package loader

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// Span is a textual source range. Lines and columns are 1-based; a
// zero column selects the whole line.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// ParseSpan parses the span syntax accepted on the command line:
//
//	12           one whole line
//	4-9          a run of whole lines
//	4:2-9:10     an exact character range
//	7:5          a caret position
func ParseSpan(s string) (Span, error) {
	parts := strings.Split(s, "-")
	if len(parts) > 2 {
		return Span{}, fmt.Errorf("invalid span %q", s)
	}

	var sp Span
	var err error
	if sp.StartLine, sp.StartCol, err = parsePoint(parts[0]); err != nil {
		return Span{}, fmt.Errorf("invalid span %q: %w", s, err)
	}
	if len(parts) == 1 {
		sp.EndLine, sp.EndCol = sp.StartLine, sp.StartCol
		return sp, nil
	}
	if sp.EndLine, sp.EndCol, err = parsePoint(parts[1]); err != nil {
		return Span{}, fmt.Errorf("invalid span %q: %w", s, err)
	}
	return sp, nil
}

func parsePoint(s string) (line, col int, err error) {
	lineStr, colStr, hasCol := strings.Cut(s, ":")
	if line, err = strconv.Atoi(lineStr); err != nil || line < 1 {
		return 0, 0, fmt.Errorf("bad line %q", lineStr)
	}
	if !hasCol {
		return line, 0, nil
	}
	if col, err = strconv.Atoi(colStr); err != nil || col < 1 {
		return 0, 0, fmt.Errorf("bad column %q", colStr)
	}
	return line, col, nil
}

func (sp Span) String() string {
	start := point(sp.StartLine, sp.StartCol)
	end := point(sp.EndLine, sp.EndCol)
	if start == end {
		return start
	}
	return start + "-" + end
}

func point(line, col int) string {
	if col == 0 {
		return strconv.Itoa(line)
	}
	return fmt.Sprintf("%d:%d", line, col)
}

// Pos resolves sp to token positions within the loaded file. A
// zero-column endpoint covers its whole line.
func (f *File) Pos(sp Span) (start, end token.Pos, err error) {
	tf := f.Fset.File(f.File.FileStart)
	lines := tf.LineCount()
	if sp.StartLine > lines || sp.EndLine > lines {
		return 0, 0, fmt.Errorf("span %s out of range: %s has %d lines", sp, f.Path, lines)
	}

	start = tf.LineStart(sp.StartLine)
	if sp.StartCol > 0 {
		start += token.Pos(sp.StartCol - 1)
	}
	if sp.EndCol > 0 {
		end = tf.LineStart(sp.EndLine) + token.Pos(sp.EndCol-1)
	} else {
		end = lineEnd(tf, sp.EndLine)
	}

	eof := tf.Pos(tf.Size())
	if start > eof || end > eof {
		return 0, 0, fmt.Errorf("span %s out of range: column past end of %s", sp, f.Path)
	}
	return start, end, nil
}

// lineEnd is the position just before the line terminator, or end of
// file for the last line.
func lineEnd(tf *token.File, line int) token.Pos {
	if line >= tf.LineCount() {
		return tf.Pos(tf.Size())
	}
	return tf.LineStart(line+1) - 1
}
