// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// HighlightStyle is the chroma style used for terminal previews.
const HighlightStyle = "monokai"

// Highlight colours unified diff text for a 256-colour terminal. On any
// lexer or formatter failure the text is returned unchanged.
func Highlight(unified string) string {
	lexer := lexers.Get("diff")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(HighlightStyle)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, unified)
	if err != nil {
		return unified
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return unified
	}
	return buf.String()
}
