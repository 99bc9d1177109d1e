// Package catalog loads the small reference datasets (sexes, interests,
// plans, countries, report reasons) the generators sample from.
package catalog

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

//go:embed data/*.csv
var defaults embed.FS

type Sex struct {
	Name      string
	Frequency float64
}

type Interest struct {
	Name string
}

// PaymentCycle drives subscription expiration.
type PaymentCycle string

const (
	Monthly PaymentCycle = "Monthly"
	Yearly  PaymentCycle = "Yearly"
	OneTime PaymentCycle = "OneTime"
)

type Plan struct {
	Name     string
	Price    float64
	Cycle    PaymentCycle
	Benefits string
	Users    float64 // relative popularity
}

type Country struct {
	Name       string
	ISOCode    string
	Population float64
}

type Reason struct {
	Text string
	Freq float64
}

type Catalog struct {
	Sexes     []Sex
	Interests []Interest
	Plans     []Plan
	Countries []Country
	Reasons   []Reason
}

// Load reads every file from dir, falling back to the embedded copy for
// files the directory does not provide. An empty dir uses the embedded set.
func Load(dir string) (*Catalog, error) {
	var src fs.FS
	if dir != "" {
		src = os.DirFS(dir)
	}

	c := &Catalog{}
	var err error

	if c.Sexes, err = readTable(src, "sexes.csv", []string{"name", "frequency"}, func(r map[string]string) (Sex, error) {
		f, err := parseFloat(r["frequency"])
		return Sex{Name: r["name"], Frequency: f}, err
	}); err != nil {
		return nil, err
	}

	if c.Interests, err = readTable(src, "interests.csv", []string{"name"}, func(r map[string]string) (Interest, error) {
		return Interest{Name: r["name"]}, nil
	}); err != nil {
		return nil, err
	}

	if c.Plans, err = readTable(src, "plans.csv", []string{"name", "price", "payment_cycle", "benefits", "users"}, parsePlan); err != nil {
		return nil, err
	}

	if c.Countries, err = readTable(src, "countries.csv", []string{"name", "iso_code", "population"}, func(r map[string]string) (Country, error) {
		p, err := parseFloat(r["population"])
		return Country{Name: r["name"], ISOCode: r["iso_code"], Population: p}, err
	}); err != nil {
		return nil, err
	}

	if c.Reasons, err = readTable(src, "report_reasons.csv", []string{"reason", "freq"}, func(r map[string]string) (Reason, error) {
		f, err := parseFloat(r["freq"])
		return Reason{Text: r["reason"], Freq: f}, err
	}); err != nil {
		return nil, err
	}

	return c, nil
}

func parsePlan(r map[string]string) (Plan, error) {
	price, err := parseFloat(r["price"])
	if err != nil {
		return Plan{}, err
	}
	users, err := parseFloat(r["users"])
	if err != nil {
		return Plan{}, err
	}
	cycle := PaymentCycle(r["payment_cycle"])
	switch cycle {
	case Monthly, Yearly, OneTime:
	default:
		return Plan{}, fmt.Errorf("unknown payment cycle %q", cycle)
	}
	return Plan{Name: r["name"], Price: price, Cycle: cycle, Benefits: r["benefits"], Users: users}, nil
}

func readTable[T any](src fs.FS, name string, required []string, parse func(map[string]string) (T, error)) ([]T, error) {
	f, err := open(src, name)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog %s: read header: %w", name, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("catalog %s: missing column %q", name, col)
		}
	}

	var out []T
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}

		row := make(map[string]string, len(required))
		for _, col := range required {
			row[col] = strings.TrimSpace(rec[index[col]])
		}
		v, err := parse(row)
		if err != nil {
			return nil, fmt.Errorf("catalog %s line %d: %w", name, line, err)
		}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("catalog %s: no rows", name)
	}
	return out, nil
}

func open(src fs.FS, name string) (fs.File, error) {
	if src != nil {
		f, err := src.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return defaults.Open("data/" + name)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
