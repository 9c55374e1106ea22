package inventory

// Stock statuses derived from stock level and reorder point. Never stored:
// recomputed on every read.
const (
	StatusOutOfStock = "Out of Stock"
	StatusLowStock   = "Low Stock"
	StatusInStock    = "In Stock"
)

// ComputedStatus derives the display status (domain service, pure).
// stock == 0 -> Out of Stock; stock <= reorderPoint -> Low Stock; else In Stock.
func ComputedStatus(stock, reorderPoint int) string {
	if stock <= 0 {
		return StatusOutOfStock
	}
	if stock <= reorderPoint {
		return StatusLowStock
	}
	return StatusInStock
}
