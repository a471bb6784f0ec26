package catalog

// PendingVariant marks a product that is listed in the storefront but not yet
// matched to a real supplier variant. It must never reach an order payload.
const PendingVariant = "PENDING_CJ_SEARCH"

// Variant identifies one purchasable SKU at the supplier.
type Variant struct {
	VID string
	SKU string
}

// ProductMapping links an internal product id to its supplier identifiers.
// Variants holds per-size overrides keyed by size, and per-size-color
// overrides keyed by "size-color".
type ProductMapping struct {
	VID               string
	SKU               string
	SPU               string
	SupplierProductID string
	Variants          map[string]Variant
}

// DefaultMappings is the consolidated mapping table. The two client copies in
// the old storefront had drifted apart; this table carries the ids from the
// most recently verified copy, with PendingVariant on anything unconfirmed.
func DefaultMappings() map[string]ProductMapping {
	return map[string]ProductMapping{
		// Mini Projecteur HD 4K - Ultra Short Focus Hy300
		"mini-projector-2025": {
			VID:               PendingVariant,
			SupplierProductID: "2504250205361610700",
			SKU:               "CJYD2362075",
			SPU:               "CJYD2362075",
		},

		// Blender Portable USB - 350ML Electric Juicer
		"portable-blender-usb": {
			VID:               PendingVariant,
			SupplierProductID: "1392009095543918592",
			SKU:               "CJJD1123188",
			SPU:               "CJJD1123188",
		},

		// Station de Charge 3-en-1 - Magnetic Foldable Wireless Charger
		"wireless-charger-3in1": {
			VID:               PendingVariant,
			SupplierProductID: "1619525256841015296",
			SKU:               "CJCD1670287",
			SPU:               "CJCD1670287",
		},

		// Body Sculptant Premium - Butt Lifting Tummy Control Pants
		"body-sculptant-premium": {
			VID:               "2602050719171622300",
			SupplierProductID: "2602050719171622000",
			SKU:               "CJJS275496801AZ",
			SPU:               "CJJS2754968",
			Variants: map[string]Variant{
				"M":          {VID: "2602050719171622300", SKU: "CJJS275496801AZ"},
				"L":          {VID: "2602050719171622900", SKU: "CJJS275496802BY"},
				"XL":         {VID: "2602050719171623300", SKU: "CJJS275496803CX"},
				"XXL":        {VID: "2602050719171623900", SKU: "CJJS275496804DW"},
				"M-Chocolat": {VID: "2602050719171624200", SKU: "CJJS275496805EV"},
				"L-Chocolat": {VID: "2602050719171624600", SKU: "CJJS275496806FU"},
				"M-Nude":     {VID: "2602050719171626100", SKU: "CJJS275496809IR"},
				"L-Nude":     {VID: "2602050719171626300", SKU: "CJJS275496810JQ"},
			},
		},

		// Body Seamless Bretelles - Women's Suspender Jumpsuit
		"body-seamless-bretelles": {
			VID:               PendingVariant,
			SupplierProductID: "1735207991432982528",
			SKU:               "CJYD1920929",
			SPU:               "CJYD1920929",
		},

		// Short Gainant Post-Partum - SEAMLESS Postpartum Shapewear
		"shapewear-short-postpartum": {
			VID:               PendingVariant,
			SupplierProductID: "1866761878916452352",
			SKU:               "CJLS2240658",
			SPU:               "CJLS2240658",
		},
	}
}
