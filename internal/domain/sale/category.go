package sale

import "strings"

// UncategorizedLabel is the name given to items whose sale came in without a
// category code at all.
const UncategorizedLabel = "Sem categoria"

// Resolver maps marketplace category codes to human-readable names using a
// snapshot of the category reference table. It never writes back and never
// fails: an unknown code degrades to the raw code itself so the item can
// still be imported.
type Resolver struct {
	names map[string]string
}

func NewResolver(names map[string]string) *Resolver {
	if names == nil {
		names = map[string]string{}
	}
	return &Resolver{names: names}
}

// Resolve returns the display name for a category code. The second return is
// false only when the code was present but had no match in the reference
// table, which callers may surface as a data-quality signal; the item is
// still considered resolved.
func (r *Resolver) Resolve(code string) (string, bool) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return UncategorizedLabel, true
	}
	if name, ok := r.names[trimmed]; ok {
		return name, true
	}
	return trimmed, false
}
