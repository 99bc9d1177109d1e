package generate

import (
	"context"
	"fmt"
	"math"

	"github.com/Tysek64/DrugiTinder/internal/catalog"
	"github.com/Tysek64/DrugiTinder/internal/pool"
)

// CityAttr travels with every city id.
type CityAttr struct {
	Country int64
}

func Sexes(_ context.Context, e *Env, _ int) (Batch, error) {
	b := Batch{Table: "sex", Columns: []string{"name"}}
	for _, s := range e.Catalog.Sexes {
		b.Rows = append(b.Rows, []any{s.Name})
		b.Attrs = append(b.Attrs, s.Frequency)
	}
	return b, nil
}

func Interests(_ context.Context, e *Env, _ int) (Batch, error) {
	b := Batch{Table: "interest", Columns: []string{"name"}}
	for _, i := range e.Catalog.Interests {
		b.Rows = append(b.Rows, []any{i.Name})
	}
	return b, nil
}

func Plans(_ context.Context, e *Env, _ int) (Batch, error) {
	b := Batch{Table: "subscription_plan", Columns: []string{"name", "price", "payment_cycle", "benefits", "is_active"}}
	for _, p := range e.Catalog.Plans {
		b.Rows = append(b.Rows, []any{p.Name, p.Price, string(p.Cycle), p.Benefits, true})
		b.Attrs = append(b.Attrs, p)
	}
	return b, nil
}

func Countries(_ context.Context, e *Env, _ int) (Batch, error) {
	b := Batch{Table: "country", Columns: []string{"name", "iso_code"}}
	for _, c := range e.Catalog.Countries {
		b.Rows = append(b.Rows, []any{c.Name, c.ISOCode})
		b.Attrs = append(b.Attrs, c)
	}
	return b, nil
}

// Cities creates cities_per_country cities for every country, or
// 10*log10(population) of them when the setting is 0.
func Cities(_ context.Context, e *Env, batch int) (Batch, error) {
	countries := e.Pools.Get(pool.Country)
	r := e.stream("city", batch)

	b := Batch{Table: "city", Columns: []string{"name", "fk_country_id"}}
	for i, countryID := range countries.IDs {
		n := e.Cfg.CitiesPerCountry
		if n == 0 {
			c, err := pool.Attr[catalog.Country](countries, i)
			if err != nil {
				return Batch{}, err
			}
			n = int(10 * math.Log10(max(c.Population, 1)))
		}
		n = max(n, 1)

		used := make(map[string]int, n)
		for range n {
			name := cityName(r)
			if used[name]++; used[name] > 1 {
				name = fmt.Sprintf("%s %d", name, used[name])
			}
			b.Rows = append(b.Rows, []any{name, countryID})
			b.Attrs = append(b.Attrs, CityAttr{Country: countryID})
		}
	}
	return b, nil
}

// citiesByCountry groups the city pool for migration lookups.
func citiesByCountry(cities *pool.Pool) (map[int64][]int64, []int64, error) {
	byCountry := make(map[int64][]int64)
	var order []int64
	for i, id := range cities.IDs {
		a, err := pool.Attr[CityAttr](cities, i)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := byCountry[a.Country]; !ok {
			order = append(order, a.Country)
		}
		byCountry[a.Country] = append(byCountry[a.Country], id)
	}
	return byCountry, order, nil
}
