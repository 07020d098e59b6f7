// internal/comparison/compare_test.go
package comparison

import (
	"testing"

	"marketplace-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func profileA() *models.ManufacturerProfile {
	return &models.ManufacturerProfile{
		ID:              "mfr-a",
		Industry:        "Electronics",
		ServicesOffered: []string{"pcb-assembly", "smt", "testing"},
		MOQ:             500,
		Headquarters:    models.Headquarters{Country: "US", City: "Austin"},
	}
}

func profileB() *models.ManufacturerProfile {
	return &models.ManufacturerProfile{
		ID:              "mfr-b",
		Industry:        "Electronics",
		ServicesOffered: []string{"pcb-assembly", "smt", "conformal-coating"},
		MOQ:             600,
		Headquarters:    models.Headquarters{Country: "US", City: "Dallas"},
	}
}

func TestCompare_Symmetry(t *testing.T) {
	pairs := []struct {
		a, b *models.ManufacturerProfile
	}{
		{profileA(), profileB()},
		{profileA(), &models.ManufacturerProfile{}},
		{&models.ManufacturerProfile{}, &models.ManufacturerProfile{}},
		{profileA(), profileA()},
	}

	for _, p := range pairs {
		assert.Equal(t, Compare(p.a, p.b), Compare(p.b, p.a))
	}
}

func TestCompare_Bounds(t *testing.T) {
	pairs := [][2]*models.ManufacturerProfile{
		{profileA(), profileB()},
		{profileA(), profileA()},
		{nil, profileB()},
		{&models.ManufacturerProfile{}, &models.ManufacturerProfile{}},
	}

	for _, p := range pairs {
		sim := Compare(p[0], p[1])
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestCompare_IdenticalProfiles(t *testing.T) {
	a := profileA()
	sim, breakdown := CompareWithBreakdown(a, a)

	assert.InDelta(t, 1.0, sim, 1e-9)
	assert.Equal(t, 1.0, breakdown.Industry)
	assert.Equal(t, 1.0, breakdown.Services)
	assert.Equal(t, 1.0, breakdown.MOQ)
	assert.Equal(t, 1.0, breakdown.Location)
}

func TestCompare_DisjointServices(t *testing.T) {
	// Same industry, same moq, same country but no service overlap must
	// score strictly below a candidate with overlapping services.
	source := profileA()

	disjoint := profileA()
	disjoint.ID = "mfr-disjoint"
	disjoint.ServicesOffered = []string{"injection-molding", "tooling"}

	overlapping := profileA()
	overlapping.ID = "mfr-overlap"
	overlapping.ServicesOffered = []string{"pcb-assembly", "smt"}

	simDisjoint, breakdown := CompareWithBreakdown(source, disjoint)
	simOverlap, _ := CompareWithBreakdown(source, overlapping)

	assert.Equal(t, 0.0, breakdown.Services)
	assert.Equal(t, 1.0, breakdown.Industry)
	assert.Equal(t, 1.0, breakdown.Location)
	assert.Less(t, simDisjoint, simOverlap)
}

func TestCompare_EmptyServiceSets(t *testing.T) {
	a := &models.ManufacturerProfile{Industry: "Textiles"}
	b := &models.ManufacturerProfile{Industry: "Textiles"}

	_, breakdown := CompareWithBreakdown(a, b)
	assert.Equal(t, 0.0, breakdown.Services, "empty-union Jaccard is 0")
}

func TestCompare_LocationTiers(t *testing.T) {
	base := &models.ManufacturerProfile{Headquarters: models.Headquarters{Country: "DE", City: "Berlin"}}

	sameCity := &models.ManufacturerProfile{Headquarters: models.Headquarters{Country: "DE", City: "Berlin"}}
	sameCountry := &models.ManufacturerProfile{Headquarters: models.Headquarters{Country: "DE", City: "Munich"}}
	otherCountry := &models.ManufacturerProfile{Headquarters: models.Headquarters{Country: "FR", City: "Berlin"}}

	_, cityMatch := CompareWithBreakdown(base, sameCity)
	_, countryMatch := CompareWithBreakdown(base, sameCountry)
	_, noMatch := CompareWithBreakdown(base, otherCountry)

	assert.Equal(t, 1.0, cityMatch.Location)
	assert.Equal(t, countryTier, countryMatch.Location)
	assert.Equal(t, 0.0, noMatch.Location)
}

func TestCompare_MOQProximity(t *testing.T) {
	near := &models.ManufacturerProfile{MOQ: 100}
	same := &models.ManufacturerProfile{MOQ: 100}
	far := &models.ManufacturerProfile{MOQ: 10000}
	unset := &models.ManufacturerProfile{}

	_, exact := CompareWithBreakdown(near, same)
	_, distant := CompareWithBreakdown(near, far)
	_, missing := CompareWithBreakdown(near, unset)

	assert.Equal(t, 1.0, exact.MOQ)
	assert.Less(t, distant.MOQ, exact.MOQ)
	assert.Equal(t, 0.0, missing.MOQ)
}

func TestFindSimilar(t *testing.T) {
	source := profileA()

	t.Run("empty candidates", func(t *testing.T) {
		assert.Empty(t, FindSimilar(source, nil, 50))
		assert.Empty(t, FindSimilar(source, []*models.ManufacturerProfile{}, 50))
	})

	t.Run("filters below threshold and sorts descending", func(t *testing.T) {
		unrelated := &models.ManufacturerProfile{
			ID:           "mfr-unrelated",
			Industry:     "Textiles",
			MOQ:          3,
			Headquarters: models.Headquarters{Country: "VN"},
		}
		twin := profileA()
		twin.ID = "mfr-twin"

		results := FindSimilar(source, []*models.ManufacturerProfile{unrelated, profileB(), twin}, 50)

		assert.Len(t, results, 2)
		assert.Equal(t, "mfr-twin", results[0].ID)
		assert.Equal(t, "mfr-b", results[1].ID)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
		}
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Similarity, 50.0)
		}
	})

	t.Run("ties keep input order", func(t *testing.T) {
		first := profileA()
		first.ID = "tie-first"
		second := profileA()
		second.ID = "tie-second"

		results := FindSimilar(source, []*models.ManufacturerProfile{first, second}, 50)

		assert.Len(t, results, 2)
		assert.Equal(t, "tie-first", results[0].ID)
		assert.Equal(t, "tie-second", results[1].ID)
	})

	t.Run("zero threshold falls back to default", func(t *testing.T) {
		unrelated := &models.ManufacturerProfile{ID: "mfr-x", Industry: "Textiles"}
		results := FindSimilar(source, []*models.ManufacturerProfile{unrelated}, 0)
		assert.Empty(t, results)
	})
}
