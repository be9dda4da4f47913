/*
Package pgadapter provides an implementation of the Adapter
interface in the sqldataset package that works over a PostgreSQL
database.
*/
package pgadapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexwalshml/dendro/dataset/sqldataset"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

// MaxSampleInsertionsPerStatement is the maximum number of
// samples inserted with a single insert command by the AddSamples
// method of the adapter. Adding more samples takes several insert
// commands.
const MaxSampleInsertionsPerStatement = 100

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns an
Adapter that works on the database or an error if it fails to
connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening PostgreSQL database: %v", err)
	}
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == "id" {
		return "", fmt.Errorf("'%s' is reserved and cannot be used as feature name", featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, discreteColumns, continuousColumns []string) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	for _, c := range discreteColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" TEXT NULL, `, c))
	}
	for _, c := range continuousColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" DOUBLE PRECISION NULL, `, c))
	}
	createStmtBuf.WriteString(`"id" SERIAL PRIMARY KEY)`)
	_, err := a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteColumns, continuousColumns []string) (int, error) {
	columns := append(append([]string{}, discreteColumns...), continuousColumns...)
	if len(columns) == 0 {
		return 0, fmt.Errorf("no features to store")
	}
	inserted := 0
	for start := 0; start < len(rawSamples); start += MaxSampleInsertionsPerStatement {
		end := start + MaxSampleInsertionsPerStatement
		if end > len(rawSamples) {
			end = len(rawSamples)
		}
		chunk := rawSamples[start:end]
		values := make([]interface{}, 0, len(chunk)*len(columns))
		for _, rs := range chunk {
			for _, c := range columns {
				values = append(values, rs[c])
			}
		}
		_, err := a.db.ExecContext(ctx, insertStatement(columns, len(chunk)), values...)
		if err != nil {
			return inserted, fmt.Errorf("inserting samples %d through %d: %v", start+1, end, err)
		}
		inserted = end
	}
	return inserted, nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, discreteColumns, continuousColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	var queryBuf bytes.Buffer
	queryBuf.WriteString(`SELECT "`)
	queryBuf.WriteString(strings.Join(discreteColumns, `", "`))
	if len(discreteColumns) > 0 && len(continuousColumns) > 0 {
		queryBuf.WriteString(`", "`)
	}
	queryBuf.WriteString(strings.Join(continuousColumns, `", "`))
	queryBuf.WriteString(`" FROM samples ORDER BY "id"`)
	rows, err := a.db.QueryContext(ctx, queryBuf.String())
	if err != nil {
		return err
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		rawSample := make(map[string]interface{})
		discreteValues := make([]sql.NullString, len(discreteColumns))
		continuousValues := make([]sql.NullFloat64, len(continuousColumns))
		values := make([]interface{}, 0, len(discreteColumns)+len(continuousColumns))
		for i := range discreteValues {
			values = append(values, &discreteValues[i])
		}
		for i := range continuousValues {
			values = append(values, &continuousValues[i])
		}
		if err := rows.Scan(values...); err != nil {
			return err
		}
		for i, c := range discreteColumns {
			if discreteValues[i].Valid {
				rawSample[c] = discreteValues[i].String
			}
		}
		for i, c := range continuousColumns {
			if continuousValues[i].Valid {
				rawSample[c] = continuousValues[i].Float64
			}
		}
		ok, err := lambda(j, rawSample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) CountSamples(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting samples: %v", err)
	}
	return count, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}

func insertStatement(columns []string, rows int) string {
	var buf bytes.Buffer
	buf.WriteString(`INSERT INTO samples ("`)
	buf.WriteString(strings.Join(columns, `", "`))
	buf.WriteString(`") VALUES `)
	n := 1
	for i := 0; i < rows; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := 0; j < len(columns); j++ {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(fmt.Sprintf("$%d", n))
			n++
		}
		buf.WriteString(")")
	}
	return buf.String()
}
