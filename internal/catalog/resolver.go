package catalog

// Resolver maps an internal product id plus an optional size/color selection
// to a supplier variant. The table is loaded once at startup and never
// mutated at runtime.
type Resolver struct {
	mappings map[string]ProductMapping
}

func NewResolver(mappings map[string]ProductMapping) *Resolver {
	return &Resolver{mappings: mappings}
}

// Resolve picks the variant for a selection. Precedence, first match wins:
// the "size-color" override, the size override, the product default.
// Returns ok=false for unknown products and for anything that resolves to an
// empty or pending variant id — those must never be submitted to the
// supplier.
func (r *Resolver) Resolve(productID, size, color string) (Variant, bool) {
	mapping, found := r.mappings[productID]
	if !found {
		return Variant{}, false
	}

	v := Variant{VID: mapping.VID, SKU: mapping.SKU}
	if size != "" && mapping.Variants != nil {
		if color != "" {
			if override, ok := mapping.Variants[size+"-"+color]; ok {
				v = override
			} else if override, ok := mapping.Variants[size]; ok {
				v = override
			}
		} else if override, ok := mapping.Variants[size]; ok {
			v = override
		}
	}

	if v.VID == "" || v.VID == PendingVariant {
		return Variant{}, false
	}
	return v, true
}
