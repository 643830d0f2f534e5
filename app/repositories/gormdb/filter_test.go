package gormdb_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/services"
)

func TestCatalogFilterMatrix(t *testing.T) {
	s := newStore(t)
	catalog := services.NewCatalogService(s.Categories, s.Products)

	books := seedCategory(t, s, "Books", "books")
	games := seedCategory(t, s, "Games", "games")
	music := seedCategory(t, s, "Music", "music")

	ids := map[string]string{}
	for _, p := range []struct {
		name     string
		price    float64
		category string
	}{
		{"novel", 12, books.ID},
		{"atlas", 60, books.ID},
		{"chess", 25, games.ID},
		{"console", 399, games.ID},
		{"vinyl", 30, music.ID},
		{"guitar", 250, music.ID},
	} {
		ids[seedProduct(t, s, p.name, p.name, p.price, p.category).ID] = p.name
	}

	cases := []struct {
		name    string
		checked []string
		radio   []float64
		want    []string
	}{
		{"no filters", nil, nil, []string{"atlas", "chess", "console", "guitar", "novel", "vinyl"}},
		{"empty checked is ignored", []string{}, nil, []string{"atlas", "chess", "console", "guitar", "novel", "vinyl"}},
		{"categories only", []string{books.ID, music.ID}, nil, []string{"atlas", "guitar", "novel", "vinyl"}},
		{"price only", nil, []float64{20, 60}, []string{"atlas", "chess", "vinyl"}},
		{"both", []string{books.ID, games.ID}, []float64{20, 100}, []string{"atlas", "chess"}},
		{"single radio value is ignored", []string{games.ID}, []float64{20}, []string{"chess", "console"}},
		{"no match", []string{music.ID}, []float64{0, 10}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := catalog.Filter(context.Background(), tc.checked, tc.radio)
			require.NoError(t, err)

			var names []string
			for _, p := range got {
				names = append(names, ids[p.ID])
			}
			sort.Strings(names)
			assert.Equal(t, tc.want, names)
		})
	}
}
