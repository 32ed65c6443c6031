package fonts

import (
	"fmt"

	"pkt.systems/termpart/schema"
)

// Resolver maps a selector to a concrete font and checks that it exists.
type Resolver struct {
	catalog Catalog
}

// NewResolver returns a resolver validating against catalog. A nil catalog
// accepts every font.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the font for sel. The custom selector returns custom
// unvalidated; presets must exist exactly in the catalog.
func (r *Resolver) Resolve(sel schema.FontSelector, custom schema.FontDescriptor) (schema.FontDescriptor, error) {
	if sel.IsCustom() {
		return custom, nil
	}
	preset, ok := PresetAt(sel.Index())
	if !ok {
		return schema.FontDescriptor{}, fmt.Errorf("%w: preset index %d", schema.ErrInvalidFont, sel.Index())
	}
	desc := preset.Descriptor()
	if r.catalog != nil && !r.catalog.Has(desc) {
		return schema.FontDescriptor{}, &FontNotFoundError{Name: desc.Name()}
	}
	return desc, nil
}
