package keywords

import "testing"

func TestGroup_Immutable(t *testing.T) {
	t.Parallel()

	source := []string{"phosphate", "fertilizer"}
	group := NewGroup("product", source)

	source[0] = "mutated"
	if group.Keywords()[0] != "phosphate" {
		t.Fatalf("expected the group to copy its input")
	}

	leaked := group.Keywords()
	leaked[1] = "mutated"
	if group.Keywords()[1] != "fertilizer" {
		t.Fatalf("expected Keywords to return a copy")
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	taxonomy := Default()
	if taxonomy.Measure.Len() == 0 || taxonomy.Product.Len() == 0 || taxonomy.PlaceCompany.Len() == 0 {
		t.Fatalf("expected all three groups populated")
	}
	want := taxonomy.Measure.Len() + taxonomy.Product.Len() + taxonomy.PlaceCompany.Len()
	if got := taxonomy.TotalKeywords(); got != want {
		t.Fatalf("expected total %d, got %d", want, got)
	}

	if !taxonomy.IsCountryName("Morocco") || !taxonomy.IsCountryName("Moroccan") {
		t.Fatalf("expected Morocco and Moroccan flagged as country names")
	}
	if taxonomy.IsCountryName("OCP") {
		t.Fatalf("expected OCP to be a company, not a country")
	}
}
