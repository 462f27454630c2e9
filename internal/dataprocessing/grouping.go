package dataprocessing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// keyColumn is one grouping column read into native Go values.
type keyColumn struct {
	name   string
	typ    series.Type
	ints   []int
	floats []float64
	strs   []string
}

func readKeyColumn(df dataframe.DataFrame, name string) (keyColumn, error) {
	col := df.Col(name)
	kc := keyColumn{name: name, typ: col.Type()}
	switch kc.typ {
	case series.Int:
		ints, err := col.Int()
		if err != nil {
			return kc, fmt.Errorf("key column %q: %w", name, err)
		}
		kc.ints = ints
	case series.Float:
		kc.floats = col.Float()
	default:
		kc.typ = series.String
		kc.strs = col.Records()
	}
	return kc, nil
}

func (k keyColumn) text(i int) string {
	switch k.typ {
	case series.Int:
		return strconv.Itoa(k.ints[i])
	case series.Float:
		return strconv.FormatFloat(k.floats[i], 'g', -1, 64)
	default:
		return k.strs[i]
	}
}

func (k keyColumn) compare(i, j int) int {
	switch k.typ {
	case series.Int:
		return k.ints[i] - k.ints[j]
	case series.Float:
		switch {
		case k.floats[i] < k.floats[j]:
			return -1
		case k.floats[i] > k.floats[j]:
			return 1
		}
		return 0
	default:
		return strings.Compare(k.strs[i], k.strs[j])
	}
}

// take builds a series holding the values at rows, keeping the column type.
func (k keyColumn) take(rows []int) series.Series {
	switch k.typ {
	case series.Int:
		vals := make([]int, len(rows))
		for i, r := range rows {
			vals[i] = k.ints[r]
		}
		return series.New(vals, series.Int, k.name)
	case series.Float:
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = k.floats[r]
		}
		return series.New(vals, series.Float, k.name)
	default:
		vals := make([]string, len(rows))
		for i, r := range rows {
			vals[i] = k.strs[r]
		}
		return series.New(vals, series.String, k.name)
	}
}

// grouping partitions the rows of a frame by a key, groups sorted
// ascending by key.
type grouping struct {
	keys []keyColumn
	// groups holds the row indexes of each group in input order.
	groups [][]int
}

func groupRows(df dataframe.DataFrame, names []string) (grouping, error) {
	g := grouping{keys: make([]keyColumn, len(names))}
	for i, name := range names {
		kc, err := readKeyColumn(df, name)
		if err != nil {
			return grouping{}, err
		}
		g.keys[i] = kc
	}

	index := make(map[string]int)
	for row := 0; row < df.Nrow(); row++ {
		key := g.join(row, "\x1f")
		gi, ok := index[key]
		if !ok {
			gi = len(g.groups)
			index[key] = gi
			g.groups = append(g.groups, nil)
		}
		g.groups[gi] = append(g.groups[gi], row)
	}

	sort.SliceStable(g.groups, func(a, b int) bool {
		ra, rb := g.groups[a][0], g.groups[b][0]
		for _, k := range g.keys {
			if c := k.compare(ra, rb); c != 0 {
				return c < 0
			}
		}
		return false
	})

	return g, nil
}

func (g grouping) join(row int, sep string) string {
	parts := make([]string, len(g.keys))
	for i, k := range g.keys {
		parts[i] = k.text(row)
	}
	return strings.Join(parts, sep)
}

// groupLabel joins the key values of group gi with "|".
func (g grouping) groupLabel(gi int) string {
	return g.join(g.groups[gi][0], "|")
}

// keySeries returns one series per key column with one value per group.
func (g grouping) keySeries() []series.Series {
	first := make([]int, len(g.groups))
	for i, rows := range g.groups {
		first[i] = rows[0]
	}
	out := make([]series.Series, len(g.keys))
	for i, k := range g.keys {
		out[i] = k.take(first)
	}
	return out
}
