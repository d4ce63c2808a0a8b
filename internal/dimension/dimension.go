// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dimension recognizes the dimension headings of an Oracle document.
// The catalog is closed: only the headings listed in Catalog are ever
// registered.
package dimension

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// Entry describes one recognizable dimension heading.
type Entry struct {
	Code        string
	Name        string
	DisplayName string

	// Aliases are alternative heading texts accepted for the same code.
	Aliases []string
}

// Catalog is the fixed, ordered list of recognized dimensions.
var Catalog = []Entry{
	{Code: "R", Name: "RELACIONAMENTOS", DisplayName: "Relacionamentos", Aliases: []string{"Relationships"}},
	{Code: "SF", Name: "SAÚDE FÍSICA", DisplayName: "Saúde Física", Aliases: []string{"Physical Health"}},
	{Code: "TG", Name: "TRABALHO GRATIFICANTE", DisplayName: "Trabalho Gratificante", Aliases: []string{"Meaningful Work"}},
	{Code: "E", Name: "ESPIRITUALIDADE", DisplayName: "Espiritualidade", Aliases: []string{"Spirituality"}},
	{Code: "SM", Name: "SAÚDE MENTAL", DisplayName: "Saúde Mental", Aliases: []string{"Mental Health"}},
	{Code: "TT", Name: "TEMPO DE TELA", DisplayName: "Tempo de Tela", Aliases: []string{"Screen Time"}},
	{Code: "PR", Name: "PROCRASTINAÇÃO", DisplayName: "Procrastinação", Aliases: []string{"Procrastination"}},
	{Code: "F", Name: "FINANÇAS", DisplayName: "Finanças", Aliases: []string{"Finance", "Finances"}},
}

// headingPattern matches a heading line carrying one of the texts followed by
// the parenthesized code. Leading markdown hashes are optional.
func headingPattern(e Entry) *regexp.Regexp {
	texts := append([]string{e.Name}, e.Aliases...)
	quoted := make([]string, len(texts))
	for i, t := range texts {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(t), " ", `\s+`)
	}
	return regexp.MustCompile(fmt.Sprintf(`(?im)^[ \t]*#*[ \t]*(?:%s)[ \t]*\(%s\)`,
		strings.Join(quoted, "|"), regexp.QuoteMeta(e.Code)))
}

var patterns = func() []*regexp.Regexp {
	ps := make([]*regexp.Regexp, len(Catalog))
	for i, e := range Catalog {
		ps[i] = headingPattern(e)
	}
	return ps
}()

// Extract returns the dimensions whose heading occurs in text. Dimensions
// that never appear are absent from the set; a repeated heading registers
// its code only once.
func Extract(text string) types.DimensionSet {
	dims := make(types.DimensionSet)
	for i, e := range Catalog {
		if dims.Has(e.Code) {
			continue
		}
		if !patterns[i].MatchString(text) {
			continue
		}
		dims[e.Code] = types.Dimension{
			Code:        e.Code,
			Name:        e.Name,
			DisplayName: e.DisplayName,
			ID:          strings.ToLower(e.Code),
		}
	}
	return dims
}

// Lookup returns the catalog entry for code.
func Lookup(code string) (Entry, bool) {
	for _, e := range Catalog {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}
