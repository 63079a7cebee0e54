package model

import "sort"

// PartGroup holds the catalog entries that share a raw sheet.
type PartGroup struct {
	Key   GroupKey `json:"key"`
	Parts []Part   `json:"parts"`
}

// GroupBy splits a catalog into (thickness, raw width) groups. Groups are
// ordered by thickness then width; parts keep their catalog order.
func GroupBy(parts []Part) []PartGroup {
	index := make(map[GroupKey]int)
	var groups []PartGroup
	for _, p := range parts {
		k := p.GroupKey()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, PartGroup{Key: k})
		}
		groups[i].Parts = append(groups[i].Parts, p)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Key.Thickness != groups[j].Key.Thickness {
			return groups[i].Key.Thickness < groups[j].Key.Thickness
		}
		return groups[i].Key.RawWidth < groups[j].Key.RawWidth
	})
	return groups
}

// FilterGroup returns the parts with the given thickness and raw width.
func FilterGroup(parts []Part, key GroupKey) []Part {
	var out []Part
	for _, p := range parts {
		if p.GroupKey() == key {
			out = append(out, p)
		}
	}
	return out
}

// FindByCode returns a pointer to the part with the given item code, or nil.
func FindByCode(parts []Part, itemCode string) *Part {
	for i := range parts {
		if parts[i].ItemCode == itemCode {
			return &parts[i]
		}
	}
	return nil
}

// Thicknesses returns the distinct thicknesses in ascending order.
func Thicknesses(parts []Part) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, p := range parts {
		if !seen[p.Thickness] {
			seen[p.Thickness] = true
			out = append(out, p.Thickness)
		}
	}
	sort.Float64s(out)
	return out
}

// SortByPriority returns a copy of parts with urgent parts first. Parts of
// equal priority keep their catalog order.
func SortByPriority(parts []Part) []Part {
	out := make([]Part, len(parts))
	copy(out, parts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority() > out[j].Priority()
	})
	return out
}
