package loader

import "github.com/G3rze/edaprofile/internal/dataset"

// Categorize re-encodes every text column whose unique-value ratio (a null
// counts as one value) is strictly below ratio. Zero-row datasets are left
// alone. It returns the names of the converted columns.
func Categorize(ds *dataset.Dataset, ratio float64) []string {
	rows := ds.Rows()
	if rows == 0 || ratio <= 0 {
		return nil
	}
	var converted []string
	for _, col := range ds.Columns {
		if col.Kind != dataset.Text {
			continue
		}
		if float64(col.Unique())/float64(rows) >= ratio {
			continue
		}
		toCategorical(col)
		converted = append(converted, col.Name)
	}
	return converted
}

func toCategorical(col *dataset.Column) {
	index := make(map[string]int32)
	levels := make([]string, 0)
	codes := make([]int32, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			codes[i] = -1
			continue
		}
		s := col.String(i)
		code, ok := index[s]
		if !ok {
			code = int32(len(levels))
			index[s] = code
			levels = append(levels, s)
		}
		codes[i] = code
	}
	col.Kind = dataset.Categorical
	col.Levels = levels
	col.Codes = codes
	col.Values = nil
}
