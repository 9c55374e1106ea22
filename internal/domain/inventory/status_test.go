package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tjautosupply/autoparts-api/internal/domain/inventory"
)

func TestComputedStatus(t *testing.T) {
	cases := []struct {
		name         string
		stock        int
		reorderPoint int
		want         string
	}{
		{"zero stock", 0, 5, inventory.StatusOutOfStock},
		{"negative guard", -1, 5, inventory.StatusOutOfStock},
		{"at reorder point", 5, 5, inventory.StatusLowStock},
		{"below reorder point", 3, 5, inventory.StatusLowStock},
		{"above reorder point", 6, 5, inventory.StatusInStock},
		{"zero reorder point with stock", 1, 0, inventory.StatusInStock},
		{"zero stock wins over zero reorder point", 0, 0, inventory.StatusOutOfStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.ComputedStatus(tc.stock, tc.reorderPoint))
		})
	}
}

func TestNormalizeSerial(t *testing.T) {
	assert.Equal(t, "SN-001", inventory.NormalizeSerial("  sn-001 "))
	assert.Equal(t, "", inventory.NormalizeSerial("   "))
}

func TestNormalizeSerials_DropsEmptiesAndReportsDuplicates(t *testing.T) {
	out, dups := inventory.NormalizeSerials([]string{"sn-1", " SN-2", "", "sn-1 ", "sn-3"})
	assert.Equal(t, []string{"SN-1", "SN-2", "SN-3"}, out)
	assert.Equal(t, []string{"SN-1"}, dups)
}

func TestNormalizeSerials_CaseCollision(t *testing.T) {
	// Serials differing only in case are the same unit.
	out, dups := inventory.NormalizeSerials([]string{"abc123", "ABC123"})
	assert.Equal(t, []string{"ABC123"}, out)
	assert.Equal(t, []string{"ABC123"}, dups)
}
