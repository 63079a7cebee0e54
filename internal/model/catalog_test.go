package model

import "testing"

func sampleCatalog() []Part {
	return []Part{
		{ItemCode: "P1", Thickness: 2, RawWidth: 1220, Demand: 0},
		{ItemCode: "P2", Thickness: 1.5, RawWidth: 1000, Demand: 3},
		{ItemCode: "P3", Thickness: 2, RawWidth: 1220, Demand: 2},
		{ItemCode: "P4", Thickness: 2, RawWidth: 1000},
		{ItemCode: "P5", Thickness: 1.5, RawWidth: 1000, CurrentStock: 4, Demand: 4},
	}
}

func TestGroupBy(t *testing.T) {
	groups := GroupBy(sampleCatalog())

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	want := []GroupKey{{1.5, 1000}, {2, 1000}, {2, 1220}}
	for i, g := range groups {
		if g.Key != want[i] {
			t.Errorf("group %d: expected %v, got %v", i, want[i], g.Key)
		}
	}
	if groups[2].Parts[0].ItemCode != "P1" || groups[2].Parts[1].ItemCode != "P3" {
		t.Error("expected catalog order within a group")
	}
}

func TestFilterGroup(t *testing.T) {
	parts := FilterGroup(sampleCatalog(), GroupKey{Thickness: 1.5, RawWidth: 1000})
	if len(parts) != 2 || parts[0].ItemCode != "P2" || parts[1].ItemCode != "P5" {
		t.Errorf("unexpected group members: %+v", parts)
	}
	if len(FilterGroup(sampleCatalog(), GroupKey{Thickness: 9, RawWidth: 9})) != 0 {
		t.Error("expected no parts for an unknown group")
	}
}

func TestFindByCode(t *testing.T) {
	parts := sampleCatalog()
	if p := FindByCode(parts, "P4"); p == nil || p.Thickness != 2 {
		t.Error("expected to find P4")
	}
	if FindByCode(parts, "missing") != nil {
		t.Error("expected nil for unknown code")
	}
}

func TestThicknesses(t *testing.T) {
	got := Thicknesses(sampleCatalog())
	if len(got) != 2 || got[0] != 1.5 || got[1] != 2 {
		t.Errorf("expected [1.5 2], got %v", got)
	}
}

func TestSortByPriority(t *testing.T) {
	parts := sampleCatalog()
	sorted := SortByPriority(parts)

	order := []string{"P2", "P3", "P1", "P4", "P5"}
	for i, code := range order {
		if sorted[i].ItemCode != code {
			t.Errorf("position %d: expected %s, got %s", i, code, sorted[i].ItemCode)
		}
	}
	if parts[0].ItemCode != "P1" {
		t.Error("SortByPriority modified its input")
	}
}
