package plates

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/myrjola/liftcalc/internal/errors"
)

var ErrUnknownPlate = errors.NewSentinel("plate not in catalog")

// Quantity is the number of pairs of a plate the lifter owns. The zero value is [Unlimited].
type Quantity struct {
	pairs   int
	limited bool
}

// Unlimited means there is no cap on the plate.
func Unlimited() Quantity {
	return Quantity{pairs: 0, limited: false}
}

// Limited caps the plate to n pairs. Limited(0) disables the plate. Negative n is treated as 0.
func Limited(n int) Quantity {
	return Quantity{pairs: max(n, 0), limited: true}
}

// Pairs returns the cap and true, or 0 and false for an unlimited quantity.
func (q Quantity) Pairs() (int, bool) {
	return q.pairs, q.limited
}

// IsUnlimited reports whether there is no cap.
func (q Quantity) IsUnlimited() bool {
	return !q.limited
}

// IsZero reports whether the plate is capped at zero pairs, i.e. disabled.
func (q Quantity) IsZero() bool {
	return q.limited && q.pairs == 0
}

func (q Quantity) String() string {
	switch {
	case !q.limited:
		return "unlimited"
	case q.pairs == 1:
		return "1 pair"
	default:
		return strconv.Itoa(q.pairs) + " pairs"
	}
}

// Inventory is the set of plates the lifter has, with optional per-plate limits.
//
// Selected plates without a recorded limit are unlimited. The zero value has no plates.
type Inventory struct {
	selected map[float64]bool
	limits   map[float64]int
}

// NewInventory creates an inventory with the given plates selected and limits applied. Plates outside the catalog
// are rejected.
func NewInventory(selected []float64, limits map[float64]Quantity) (Inventory, error) {
	inv := Inventory{selected: make(map[float64]bool), limits: make(map[float64]int)}
	for _, d := range selected {
		if !InCatalog(d) {
			return Inventory{}, errors.Wrap(ErrUnknownPlate, "select plate", slog.Float64("plate", d))
		}
		inv.selected[d] = true
	}
	for d, q := range limits {
		if err := inv.SetQuantity(d, q); err != nil {
			return Inventory{}, err
		}
	}
	return inv, nil
}

// DefaultInventory returns [DefaultSelected] with unlimited quantities.
func DefaultInventory() Inventory {
	inv, err := NewInventory(DefaultSelected, nil)
	if err != nil {
		panic(err) // DefaultSelected is a subset of the catalog.
	}
	return inv
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	return Inventory{selected: maps.Clone(inv.selected), limits: maps.Clone(inv.limits)}
}

func (inv *Inventory) init() {
	if inv.selected == nil {
		inv.selected = make(map[float64]bool)
	}
	if inv.limits == nil {
		inv.limits = make(map[float64]int)
	}
}

func checkCatalog(d float64, action string) error {
	if !InCatalog(d) {
		return errors.Wrap(ErrUnknownPlate, action, slog.Float64("plate", d))
	}
	return nil
}

// Toggle selects plate d if it is not selected and deselects it otherwise.
func (inv *Inventory) Toggle(d float64) error {
	if err := checkCatalog(d, "toggle plate"); err != nil {
		return err
	}
	inv.init()
	if inv.selected[d] {
		delete(inv.selected, d)
	} else {
		inv.selected[d] = true
	}
	return nil
}

// SetQuantity records the quantity of plate d.
func (inv *Inventory) SetQuantity(d float64, q Quantity) error {
	if err := checkCatalog(d, "set plate quantity"); err != nil {
		return err
	}
	inv.init()
	if n, limited := q.Pairs(); limited {
		inv.limits[d] = n
	} else {
		delete(inv.limits, d)
	}
	return nil
}

// SetUnlimited removes the cap on plate d.
func (inv *Inventory) SetUnlimited(d float64) error {
	return inv.SetQuantity(d, Unlimited())
}

// ToggleUnlimited switches plate d between unlimited and a single pair.
func (inv *Inventory) ToggleUnlimited(d float64) error {
	if inv.Quantity(d).IsUnlimited() {
		return inv.SetQuantity(d, Limited(1))
	}
	return inv.SetUnlimited(d)
}

// Increment adds a pair of plate d. An unlimited plate becomes capped at two pairs.
func (inv *Inventory) Increment(d float64) error {
	return inv.adjust(d, 1)
}

// Decrement removes a pair of plate d. An unlimited plate becomes capped at one pair. Removing the last pair
// deselects the plate and resets it to unlimited so that selecting it again starts afresh.
func (inv *Inventory) Decrement(d float64) error {
	return inv.adjust(d, -1)
}

func (inv *Inventory) adjust(d float64, delta int) error {
	if err := checkCatalog(d, "adjust plate quantity"); err != nil {
		return err
	}
	n, limited := inv.Quantity(d).Pairs()
	if !limited {
		if delta > 0 {
			return inv.SetQuantity(d, Limited(2)) //nolint:mnd // one more than a single pair.
		}
		return inv.SetQuantity(d, Limited(1))
	}
	if n+delta <= 0 {
		inv.init()
		delete(inv.selected, d)
		return inv.SetUnlimited(d)
	}
	return inv.SetQuantity(d, Limited(n+delta))
}

// Quantity returns the quantity of plate d. Plates without a recorded limit are unlimited.
func (inv Inventory) Quantity(d float64) Quantity {
	if n, ok := inv.limits[d]; ok {
		return Limited(n)
	}
	return Unlimited()
}

// Selected reports whether the lifter has selected plate d, regardless of its quantity.
func (inv Inventory) Selected(d float64) bool {
	return inv.selected[d]
}

// Enabled returns the selected plates that are usable, heaviest first. Plates limited to zero pairs are left out.
func (inv Inventory) Enabled() []float64 {
	enabled := make([]float64, 0, len(inv.selected))
	for d := range inv.selected {
		if inv.Quantity(d).IsZero() {
			continue
		}
		enabled = append(enabled, d)
	}
	slices.SortFunc(enabled, descending)
	return enabled
}

// Limits returns the recorded limits keyed by plate.
func (inv Inventory) Limits() map[float64]Quantity {
	limits := make(map[float64]Quantity, len(inv.limits))
	for d, n := range inv.limits {
		limits[d] = Limited(n)
	}
	return limits
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
