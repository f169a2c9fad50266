package catalog

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation orders names the way shoppers of a locale expect.
type Collation struct {
	tag language.Tag
}

func NewCollation(locale string) Collation {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Collation{tag: tag}
}

func (c Collation) Tag() language.Tag {
	return c.tag
}

// Compare returns a comparison func backed by a fresh collator. A collator is
// not safe for concurrent use, so each sort gets its own.
func (c Collation) Compare() func(a, b string) int {
	tag := c.tag
	if tag == language.Und {
		tag = language.English
	}
	col := collate.New(tag)
	return col.CompareString
}
