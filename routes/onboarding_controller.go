package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/mbolis/study-abroad/app"
	"github.com/mbolis/study-abroad/database"
	"github.com/mbolis/study-abroad/httpx"
	"github.com/mbolis/study-abroad/log"
	"github.com/mbolis/study-abroad/matching"
	"github.com/mbolis/study-abroad/model"
	"github.com/mbolis/study-abroad/onboarding"
	"github.com/mbolis/study-abroad/routes/middlewares"
)

func GetQuestions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"questions": onboarding.DefaultQuestions,
		})
	}
}

func responseFromPayload(userID int, p onboarding.Payload) model.OnboardingResponse {
	if p.BudgetMax == 0 {
		p.BudgetMax = onboarding.DefaultBudgetMax
	}
	return model.OnboardingResponse{
		UserID:              userID,
		PreferredCountries:  p.PreferredCountries,
		StudyLevel:          p.StudyLevel,
		PreferredStream:     p.PreferredStream,
		GapYears:            p.GapYears,
		BudgetMin:           p.BudgetMin,
		BudgetMax:           p.BudgetMax,
		ImportantFactors:    p.ImportantFactors,
		AdmissionReadiness:  p.AdmissionReadiness,
		LanguageProficiency: p.LanguageProficiency,
		CampusLife:          p.CampusLife,
		SpecialInterests:    p.SpecialInterests,
		ScholarshipNeed:     p.ScholarshipNeed == onboarding.ScholarshipEssential,
		StartDate:           p.StartDate,
		Completed:           true,
		UpdatedAt:           time.Now(),
	}
}

// SaveOnboarding stores the user's answers and recomputes their matches.
func SaveOnboarding(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middlewares.UserID(r.Context())

		payload := onboarding.Payload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusBadRequest, "request.parse_body", err)
			return
		}
		if payload.BudgetMin < 0 || payload.BudgetMax < 0 {
			httpx.LogJSONError(w, r, http.StatusBadRequest, "onboarding.validate", errors.New("budget must not be negative"))
			return
		}
		resp := responseFromPayload(userID, payload)

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO onboarding_response (
				user_id, preferred_countries, study_level, preferred_stream, gap_years,
				budget_min, budget_max, important_factors, admission_readiness,
				language_proficiency, campus_life, special_interests, scholarship_need,
				start_date, completed, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				preferred_countries = excluded.preferred_countries,
				study_level = excluded.study_level,
				preferred_stream = excluded.preferred_stream,
				gap_years = excluded.gap_years,
				budget_min = excluded.budget_min,
				budget_max = excluded.budget_max,
				important_factors = excluded.important_factors,
				admission_readiness = excluded.admission_readiness,
				language_proficiency = excluded.language_proficiency,
				campus_life = excluded.campus_life,
				special_interests = excluded.special_interests,
				scholarship_need = excluded.scholarship_need,
				start_date = excluded.start_date,
				completed = excluded.completed,
				updated_at = excluded.updated_at`,
			resp.UserID, resp.PreferredCountries, resp.StudyLevel, resp.PreferredStream, resp.GapYears,
			resp.BudgetMin, resp.BudgetMax, resp.ImportantFactors, resp.AdmissionReadiness,
			resp.LanguageProficiency, resp.CampusLife, resp.SpecialInterests, resp.ScholarshipNeed,
			resp.StartDate, resp.Completed, resp.UpdatedAt,
		)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.upsert_response", err)
			return
		}

		matched, err := saveMatches(r, tx, resp)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.save_matches", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, "db.save_onboarding.commit", err)
			return
		}

		log.WithFields(map[string]any{"user_id": userID, "matches": matched}).Info("onboarding.saved")
		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Onboarding responses saved successfully",
		})
	}
}

// saveMatches replaces the user's matches with every university scoring at
// least matching.MinScore. Shortlisted matches are kept, with a fresh score
// when they still qualify.
func saveMatches(r *http.Request, tx *sql.Tx, resp model.OnboardingResponse) (int, error) {
	_, err := tx.ExecContext(r.Context(), `
		DELETE FROM university_match
		WHERE user_id = ? AND is_shortlisted = 0`,
		resp.UserID,
	)
	if err != nil {
		return 0, err
	}

	universities, err := database.ListUniversities(r.Context(), tx)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(r.Context(), `
		INSERT INTO university_match (user_id, university_id, match_score, match_reason)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, university_id) DO UPDATE SET
			match_score = excluded.match_score,
			match_reason = excluded.match_reason`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for _, u := range universities {
		score := matching.Score(resp, u)
		if score < matching.MinScore {
			continue
		}
		_, err = stmt.ExecContext(r.Context(), resp.UserID, u.ID, score, matching.Reason(resp, u, score))
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// ClearOnboarding forgets the user's answers and matches, so the
// questionnaire can be taken again.
func ClearOnboarding(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middlewares.UserID(r.Context())

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		for _, table := range []string{"university_match", "onboarding_response"} {
			_, err = tx.ExecContext(r.Context(), "DELETE FROM "+table+" WHERE user_id = ?", userID)
			if err != nil {
				httpx.LogInternalError(w, "db.clear_onboarding."+table, err)
				return
			}
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.clear_onboarding.commit", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetOnboardingStatus(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middlewares.UserID(r.Context())

		var completed bool
		err := app.QueryRowContext(r.Context(), `
			SELECT completed FROM onboarding_response
			WHERE user_id = ?`,
			userID,
		).Scan(&completed)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			httpx.LogInternalError(w, "db.get_onboarding_status", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"completed": completed,
		})
	}
}
