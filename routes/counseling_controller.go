package routes

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/study-abroad/app"
	"github.com/mbolis/study-abroad/counseling"
	"github.com/mbolis/study-abroad/database"
	"github.com/mbolis/study-abroad/httpx"
	"github.com/mbolis/study-abroad/log"
	"github.com/mbolis/study-abroad/routes/middlewares"
)

type counselingView struct {
	University     string            `json:"university"`
	Record         counseling.Record `json:"record"`
	StatusLabel    string            `json:"status_label"`
	DeadlineInfo   string            `json:"deadline_info"`
	ChecklistItems []string          `json:"checklist_items"`
}

func renderCounseling(w http.ResponseWriter, r *http.Request, university string, rec counseling.Record) {
	render.JSON(w, r, counselingView{
		University:     university,
		Record:         rec,
		StatusLabel:    rec.Status.Label(),
		DeadlineInfo:   counseling.FormatDeadline(rec.Deadline, time.Now()),
		ChecklistItems: counseling.ChecklistItems,
	})
}

// counselingTarget resolves the user's store and the university named in the URL.
func counselingTarget(app app.App, w http.ResponseWriter, r *http.Request) (*counseling.Store, string, bool) {
	university := chi.URLParam(r, "university")
	if r.URL.RawPath != "" {
		var err error
		university, err = url.PathUnescape(university)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.university")
			return nil, "", false
		}
	}
	if university == "" {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.university")
		return nil, "", false
	}

	userID, _ := middlewares.UserID(r.Context())
	return counseling.NewStore(database.NewUserKV(app.DB, userID)), university, true
}

func counselingError(w http.ResponseWriter, code string, err error) {
	switch {
	case errors.Is(err, counseling.ErrInvalidStatus),
		errors.Is(err, counseling.ErrUnknownItem),
		errors.Is(err, counseling.ErrInvalidDeadline):
		httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, code, "%s", err)
	default:
		httpx.LogInternalError(w, code, err)
	}
}

func GetCounseling(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, university, ok := counselingTarget(app, w, r)
		if !ok {
			return
		}
		renderCounseling(w, r, university, store.Load(r.Context(), university))
	}
}

func PutCounseling(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, university, ok := counselingTarget(app, w, r)
		if !ok {
			return
		}

		rec := counseling.DefaultRecord()
		err := render.DecodeJSON(r.Body, &rec)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err = rec.Validate(); err != nil {
			counselingError(w, "counseling.validate", err)
			return
		}
		if rec.Checklist == nil {
			rec.Checklist = map[string]bool{}
		}

		store.Save(r.Context(), university, rec)
		renderCounseling(w, r, university, rec)
	}
}

func PutCounselingStatus(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, university, ok := counselingTarget(app, w, r)
		if !ok {
			return
		}

		body := struct {
			Status counseling.Status `json:"status"`
		}{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		rec, err := store.SetStatus(r.Context(), university, body.Status)
		if err != nil {
			counselingError(w, "counseling.set_status", err)
			return
		}
		renderCounseling(w, r, university, rec)
	}
}

func PutCounselingNotes(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, university, ok := counselingTarget(app, w, r)
		if !ok {
			return
		}

		body := struct {
			Notes string `json:"notes"`
		}{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		renderCounseling(w, r, university, store.SetNotes(r.Context(), university, body.Notes))
	}
}

func PutCounselingDeadline(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, university, ok := counselingTarget(app, w, r)
		if !ok {
			return
		}

		body := struct {
			Deadline string `json:"deadline"`
		}{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		rec, err := store.SetDeadline(r.Context(), university, body.Deadline)
		if err != nil {
			counselingError(w, "counseling.set_deadline", err)
			return
		}
		renderCounseling(w, r, university, rec)
	}
}

func PutCounselingChecklist(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, university, ok := counselingTarget(app, w, r)
		if !ok {
			return
		}

		body := struct {
			Item string `json:"item"`
			Done bool   `json:"done"`
		}{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		rec, err := store.SetChecklistItem(r.Context(), university, body.Item, body.Done)
		if err != nil {
			counselingError(w, "counseling.set_checklist", err)
			return
		}
		renderCounseling(w, r, university, rec)
	}
}
