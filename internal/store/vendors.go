package store

import (
	"strings"
	"time"
)

// Vendors is the supplier contact book.
type Vendors struct {
	repo Repository[Vendor]
}

func NewVendors(repo Repository[Vendor]) *Vendors {
	return &Vendors{repo: repo}
}

func (v *Vendors) List() ([]Vendor, error) {
	return v.repo.Load()
}

// Add stores a vendor. An existing entry with the same name (case
// insensitive) is replaced.
func (v *Vendors) Add(vendor Vendor) error {
	items, err := v.repo.Load()
	if err != nil {
		return err
	}
	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = time.Now()
	}

	kept := items[:0]
	for _, existing := range items {
		if !strings.EqualFold(existing.Name, vendor.Name) {
			kept = append(kept, existing)
		}
	}
	return v.repo.Save(append(kept, vendor))
}

// Remove deletes the vendor with the given name. Reports whether anything
// was removed.
func (v *Vendors) Remove(name string) (bool, error) {
	items, err := v.repo.Load()
	if err != nil {
		return false, err
	}
	kept := items[:0]
	for _, vendor := range items {
		if !strings.EqualFold(vendor.Name, name) {
			kept = append(kept, vendor)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, v.repo.Save(kept)
}
