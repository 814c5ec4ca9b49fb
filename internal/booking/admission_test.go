package booking

import (
	"testing"

	"github.com/ematija/restaurant-reservation/internal/model"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		existing  uint32
		requested uint32
		ceiling   uint32
		want      string
	}{
		{name: "emptySlot", existing: 0, requested: 4, ceiling: 40, want: model.StatusPending},
		{name: "fitsWithRoom", existing: 10, requested: 4, ceiling: 40, want: model.StatusPending},
		{name: "fillsExactly", existing: 36, requested: 4, ceiling: 40, want: model.StatusPending},
		{name: "oneOver", existing: 37, requested: 4, ceiling: 40, want: model.StatusWaiting},
		{name: "slotAlreadyFull", existing: 40, requested: 1, ceiling: 40, want: model.StatusWaiting},
		{name: "hugeParty", existing: 0, requested: 41, ceiling: 40, want: model.StatusWaiting},
		{name: "zeroCeiling", existing: 0, requested: 1, ceiling: 0, want: model.StatusWaiting},
		{name: "ledgerOvercommitted", existing: 50, requested: 2, ceiling: 40, want: model.StatusWaiting},
		{name: "requestNearUint32Max", existing: 10, requested: 4294967290, ceiling: 40, want: model.StatusWaiting},
		{name: "sumWouldWrapUint32", existing: 4294967295, requested: 4294967295, ceiling: 40, want: model.StatusWaiting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.existing, tt.requested, tt.ceiling); got != tt.want {
				t.Errorf("Decide(%d, %d, %d) = %q, want %q",
					tt.existing, tt.requested, tt.ceiling, got, tt.want)
			}
		})
	}
}
