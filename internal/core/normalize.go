package core

// perCapitaScale converts a raw proportion into a rate per 100,000 population.
const perCapitaScale = 100_000

// PerCapita converts aggregated rows into per-100k rates. Rows without a
// positive population denominator yield (nil, false): the cell is excluded
// from per-capita output entirely, never emitted as zero or NaN. The counts
// themselves are left untouched.
func PerCapita(rows []GroupRow) ([]float64, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		if !row.HasPopulation || row.Population <= 0 {
			return nil, false
		}
		out[i] = float64(row.DistinctCases) / row.Population * perCapitaScale
	}
	return out, true
}

// Counts extracts the raw distinct-case counts from aggregated rows.
func Counts(rows []GroupRow) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = float64(row.DistinctCases)
	}
	return out
}
