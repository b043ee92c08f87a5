package analysis

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/G3rze/edaprofile/internal/dataset"
)

const describeNaN = "NaN"

// Frame converts ds into a gota DataFrame. Numeric columns become float
// series, booleans bool series and everything else string series.
func Frame(ds *dataset.Dataset) (dataframe.DataFrame, error) {
	records := make([][]string, 0, ds.Rows()+1)
	records = append(records, ds.Names())
	types := make(map[string]series.Type, len(ds.Columns))
	for _, c := range ds.Columns {
		switch c.Kind {
		case dataset.Numeric:
			types[c.Name] = series.Float
		case dataset.Boolean:
			types[c.Name] = series.Bool
		default:
			types[c.Name] = series.String
		}
	}
	for i := 0; i < ds.Rows(); i++ {
		row := make([]string, len(ds.Columns))
		for j, c := range ds.Columns {
			switch {
			case c.IsNull(i):
				row[j] = describeNaN
			case c.Kind == dataset.Boolean:
				row[j] = fmt.Sprint(c.Values[i].Bool)
			default:
				row[j] = c.String(i)
			}
		}
		records = append(records, row)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.WithTypes(types),
		dataframe.NaNValues([]string{describeNaN}),
	)
	if df.Err != nil {
		return df, fmt.Errorf("build dataframe: %w", df.Err)
	}
	return df, nil
}

// Describe renders summary statistics for every column as a text table.
func Describe(ds *dataset.Dataset) (string, error) {
	if ds.Rows() == 0 || len(ds.Columns) == 0 {
		return fmt.Sprintf("%s: empty dataset (%d columns, 0 rows)\n", ds.Name, len(ds.Columns)), nil
	}
	df, err := Frame(ds)
	if err != nil {
		return "", err
	}
	desc := df.Describe()
	if desc.Err != nil {
		return "", fmt.Errorf("describe: %w", desc.Err)
	}
	return desc.String(), nil
}
