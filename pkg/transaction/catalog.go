package transaction

import (
	"slices"
	"strings"
)

const DefaultAllocationCategory = "Time/Cost Allocation"

// Catalog is the shared table of units and categories used both for validation
// and by the presentation layer to render its choices.
type Catalog struct {
	Units              []Unit
	PersonalUnit       Unit
	Categories         []string
	AllocationCategory string
	// StrictCategories rejects categories that are not listed in Categories.
	StrictCategories bool
}

func DefaultCatalog() Catalog {
	return Catalog{
		Units: []Unit{
			"Godson Teknoloji",
			"Fynix Teknoloji",
			"Prifa Kahvecilik",
			"Kişisel/Yatırım",
		},
		PersonalUnit: "Kişisel/Yatırım",
		Categories: []string{
			"Maaş",
			"Yazılım/Altyapı",
			"Pazarlama",
			"Stok",
			"Kira",
			"Yatırım Getirisi",
			"Diğer",
		},
		AllocationCategory: DefaultAllocationCategory,
	}
}

// BusinessUnits returns the units except the personal bucket.
func (c Catalog) BusinessUnits() []Unit {
	units := make([]Unit, 0, len(c.Units))
	for _, u := range c.Units {
		if u != c.PersonalUnit {
			units = append(units, u)
		}
	}
	return units
}

// ResolveUnit returns the canonical unit for name, matching exactly first and
// then case-insensitively.
func (c Catalog) ResolveUnit(name string) (Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("unit", "must not be empty")
	}
	for _, u := range c.Units {
		if string(u) == name {
			return u, nil
		}
	}
	for _, u := range c.Units {
		if strings.EqualFold(string(u), name) {
			return u, nil
		}
	}
	return "", NewValidationError("unit", "unknown unit %q", name)
}

func (c Catalog) allocationCategory() string {
	if c.AllocationCategory == "" {
		return DefaultAllocationCategory
	}
	return c.AllocationCategory
}

// AllocationLabel returns label, or the catalog allocation category when label is blank.
func (c Catalog) AllocationLabel(label string) string {
	if strings.TrimSpace(label) == "" {
		return c.allocationCategory()
	}
	return strings.TrimSpace(label)
}

// Validate checks the record invariants and its membership in the catalog.
func (c Catalog) Validate(t Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if !slices.Contains(c.Units, t.Unit) {
		return NewValidationError("unit", "unknown unit %q", t.Unit)
	}
	if c.StrictCategories {
		category := strings.TrimSpace(t.Category)
		if category != c.allocationCategory() && !slices.Contains(c.Categories, category) {
			return NewValidationError("category", "unknown category %q", category)
		}
	}
	return nil
}
