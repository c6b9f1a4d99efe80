package database

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/mbolis/study-abroad/model"
)

// csv header aliases, as found in the published university datasets
var columnAliases = map[string]string{
	"university_name":  "name",
	"official_website": "website",
}

// LoadUniversities reads universities from CSV, mapping columns by header
// name, and inserts the ones not yet known. Rows without a university_id get
// a random one. It returns the number of inserted rows.
func LoadUniversities(ctx context.Context, db *sql.DB, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "universities.header")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		columns[name] = i
	}
	if _, ok := columns["name"]; !ok {
		return 0, errors.New("universities.header: missing name column")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "universities.begin_tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO university (
			university_id, name, country, city, course, program_level,
			tuition_fee_annual, living_cost_annual, total_estimated_cost,
			scholarships, intl_services, website, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "universities.prepare")
	}
	defer stmt.Close()

	inserted := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrapf(err, "universities.read line %d", line)
		}

		field := func(name string) string {
			if i, ok := columns[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		u := model.University{
			UniversityID:       field("university_id"),
			Name:               field("name"),
			Country:            field("country"),
			City:               field("city"),
			Course:             field("course"),
			ProgramLevel:       field("program_level"),
			TuitionFeeAnnual:   field("tuition_fee_annual"),
			LivingCostAnnual:   field("living_cost_annual"),
			TotalEstimatedCost: field("total_estimated_cost"),
			Scholarships:       field("scholarships"),
			IntlServices:       field("intl_services"),
			Website:            field("website"),
			ImageURL:           field("image_url"),
		}
		if u.Name == "" {
			continue
		}
		if u.UniversityID == "" {
			id, err := uuid.NewV4()
			if err != nil {
				return 0, errors.Wrap(err, "universities.id")
			}
			u.UniversityID = id.String()
		}

		res, err := stmt.ExecContext(ctx,
			u.UniversityID, u.Name, u.Country, u.City, u.Course, u.ProgramLevel,
			u.TuitionFeeAnnual, u.LivingCostAnnual, u.TotalEstimatedCost,
			u.Scholarships, u.IntlServices, u.Website, u.ImageURL,
		)
		if err != nil {
			return 0, errors.Wrapf(err, "universities.insert line %d", line)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, errors.Wrap(err, "universities.insert.verify")
		}
		inserted += int(n)
	}

	if err = tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "universities.commit")
	}
	return inserted, nil
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ListUniversities returns every known university.
func ListUniversities(ctx context.Context, q Querier) ([]model.University, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT
			id, university_id, name, country, city, course, program_level,
			tuition_fee_annual, living_cost_annual, total_estimated_cost,
			scholarships, intl_services, website, image_url
		FROM university
		ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "universities.list")
	}
	defer rows.Close()

	var universities []model.University
	for rows.Next() {
		var u model.University
		err = rows.Scan(
			&u.ID, &u.UniversityID, &u.Name, &u.Country, &u.City, &u.Course, &u.ProgramLevel,
			&u.TuitionFeeAnnual, &u.LivingCostAnnual, &u.TotalEstimatedCost,
			&u.Scholarships, &u.IntlServices, &u.Website, &u.ImageURL,
		)
		if err != nil {
			return nil, errors.Wrap(err, "universities.list.scan")
		}
		universities = append(universities, u)
	}
	return universities, errors.Wrap(rows.Err(), "universities.list.rows")
}
