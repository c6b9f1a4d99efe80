package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/study-abroad/app"
	"github.com/mbolis/study-abroad/database"
	"github.com/mbolis/study-abroad/httpx"
	"github.com/mbolis/study-abroad/matching"
	"github.com/mbolis/study-abroad/model"
	"github.com/mbolis/study-abroad/routes/middlewares"
)

const (
	defaultPerPage = 10
	maxPerPage     = 50
)

var errUniversityNotFound = errors.New("university not found")

var matchOrders = map[string]string{
	"match_score": "m.match_score DESC, u.name ASC",
	"budget":      "CAST(u.total_estimated_cost AS REAL) ASC, m.match_score DESC",
	"name":        "u.name ASC",
}

// columns read by scanMatch; m and f may come from outer joins
const matchColumns = `
	u.id, u.name, u.country, u.city, u.course,
	u.tuition_fee_annual, u.living_cost_annual, u.total_estimated_cost,
	u.scholarships, u.website, u.image_url,
	COALESCE(m.match_score, 0), COALESCE(m.match_reason, ''),
	COALESCE(m.is_shortlisted, 0), f.university_id IS NOT NULL`

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func parseCost(s string) *float64 {
	if v, ok := matching.ParseCost(s); ok {
		return &v
	}
	return nil
}

func scanMatches(rows *sql.Rows) ([]model.Match, error) {
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		var m model.Match
		var tuition, living, cost string
		err := rows.Scan(
			&m.ID, &m.Name, &m.Country, &m.City, &m.Course,
			&tuition, &living, &cost,
			&m.Scholarships, &m.Website, &m.ImageURL,
			&m.MatchScore, &m.MatchReason,
			&m.IsShortlisted, &m.IsFavorite,
		)
		if err != nil {
			return nil, err
		}
		m.TuitionFee = parseCost(tuition)
		m.LivingCost = parseCost(living)
		m.TotalCost = parseCost(cost)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListMatches pages through the user's matches. Query parameters: page,
// per_page, countries (comma separated) and sort_by (match_score, budget, name).
func ListMatches(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middlewares.UserID(r.Context())

		page := queryInt(r, "page", 1)
		perPage := queryInt(r, "per_page", defaultPerPage)
		if perPage > maxPerPage {
			perPage = maxPerPage
		}
		order, ok := matchOrders[r.URL.Query().Get("sort_by")]
		if !ok {
			order = matchOrders["match_score"]
		}

		where := "m.user_id = ?"
		args := []any{userID}
		if countries := r.URL.Query().Get("countries"); countries != "" {
			var placeholders []string
			for _, c := range strings.Split(countries, ",") {
				if c = strings.TrimSpace(c); c != "" {
					placeholders = append(placeholders, "?")
					args = append(args, strings.ToLower(c))
				}
			}
			if len(placeholders) > 0 {
				where += " AND lower(u.country) IN (" + strings.Join(placeholders, ", ") + ")"
			}
		}

		var total int
		err := app.QueryRowContext(r.Context(), `
			SELECT COUNT(*)
			FROM university_match m
			INNER JOIN university u ON (u.id = m.university_id)
			WHERE `+where,
			args...,
		).Scan(&total)
		if err != nil {
			httpx.LogInternalError(w, "db.count_matches", err)
			return
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT `+matchColumns+`
			FROM university_match m
			INNER JOIN university u ON (u.id = m.university_id)
			LEFT JOIN favorite f ON (f.user_id = m.user_id AND f.university_id = m.university_id)
			WHERE `+where+`
			ORDER BY `+order+`
			LIMIT ? OFFSET ?`,
			append(args, perPage, (page-1)*perPage)...,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_matches", err)
			return
		}
		matches, err := scanMatches(rows)
		if err != nil {
			httpx.LogInternalError(w, "db.get_matches.scan", err)
			return
		}

		render.JSON(w, r, model.MatchPage{
			Matches: matches,
			Total:   total,
			Page:    page,
			PerPage: perPage,
			Pages:   (total + perPage - 1) / perPage,
		})
	}
}

// matchTarget resolves the university named by the {id} URL parameter.
func matchTarget(app app.App, w http.ResponseWriter, r *http.Request) (userID, universityID int, ok bool) {
	universityID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.LogJSONError(w, r, http.StatusBadRequest, "request.get_url_param.id", err)
		return 0, 0, false
	}

	err = app.QueryRowContext(r.Context(), "SELECT id FROM university WHERE id = ?", universityID).Scan(&universityID)
	if errors.Is(err, sql.ErrNoRows) {
		httpx.LogJSONError(w, r, http.StatusNotFound, "db.get_university", errUniversityNotFound)
		return 0, 0, false
	}
	if err != nil {
		httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.get_university", err)
		return 0, 0, false
	}

	userID, _ = middlewares.UserID(r.Context())
	return userID, universityID, true
}

// ToggleFavorite marks a university as favorite, or unmarks it if it was.
func ToggleFavorite(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, universityID, ok := matchTarget(app, w, r)
		if !ok {
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(r.Context(), `
			DELETE FROM favorite
			WHERE user_id = ? AND university_id = ?`,
			userID,
			universityID,
		)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.delete_favorite", err)
			return
		}
		removed, err := res.RowsAffected()
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.delete_favorite.verify", err)
			return
		}

		if removed == 0 {
			_, err = tx.ExecContext(r.Context(), `
				INSERT INTO favorite (user_id, university_id, created_at)
				VALUES (?, ?, ?)`,
				userID,
				universityID,
				time.Now(),
			)
			if err != nil {
				httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.insert_favorite", err)
				return
			}
		}

		if err = tx.Commit(); err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.toggle_favorite.commit", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"success":     true,
			"is_favorite": removed == 0,
		})
	}
}

// ToggleShortlist flips the shortlist flag of a match. A university that was
// not matched is added to the matches with a zero score.
func ToggleShortlist(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, universityID, ok := matchTarget(app, w, r)
		if !ok {
			return
		}

		var shortlisted bool
		err := app.QueryRowContext(r.Context(), `
			INSERT INTO university_match (user_id, university_id, match_score, match_reason, is_shortlisted)
			VALUES (?, ?, 0, 'Added to shortlist', 1)
			ON CONFLICT (user_id, university_id) DO UPDATE SET
				is_shortlisted = 1 - is_shortlisted
			RETURNING is_shortlisted`,
			userID,
			universityID,
		).Scan(&shortlisted)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.toggle_shortlist", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"success":        true,
			"is_shortlisted": shortlisted,
		})
	}
}

// ListFavorites returns the user's favorite universities, newest first.
func ListFavorites(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middlewares.UserID(r.Context())

		rows, err := app.QueryContext(r.Context(), `
			SELECT `+matchColumns+`
			FROM favorite f
			INNER JOIN university u ON (u.id = f.university_id)
			LEFT JOIN university_match m ON (m.user_id = f.user_id AND m.university_id = f.university_id)
			WHERE f.user_id = ?
			ORDER BY f.created_at DESC, u.name ASC`,
			userID,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_favorites", err)
			return
		}
		favorites, err := scanMatches(rows)
		if err != nil {
			httpx.LogInternalError(w, "db.get_favorites.scan", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"favorites": favorites,
			"total":     len(favorites),
		})
	}
}

// GetFilters describes the catalogue for the match filters.
func GetFilters(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		universities, err := database.ListUniversities(r.Context(), app.DB)
		if err != nil {
			httpx.LogInternalError(w, "db.list_universities", err)
			return
		}
		render.JSON(w, r, matching.Filters(universities))
	}
}
