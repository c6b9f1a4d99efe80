package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mbolis/study-abroad/log"
)

// LogInternalError logs err under code and answers 500. The cause never
// reaches the client.
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Log(log.ErrorLevel, code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// LogStatus answers with the bare status text.
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code, http.StatusText(status))
	http.Error(w, http.StatusText(status), status)
}

// LogStatusMsg answers with a formatted message the client is allowed to see.
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	text := fmt.Sprintf(msg, args...)
	log.Log(level, code, text)
	http.Error(w, text, status)
}

// LogJSONError answers {"success": false, "error": ...}. Server errors are
// logged at error level and replaced by the status text.
func LogJSONError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := err.Error()
	level := log.DebugLevel
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
		level = log.ErrorLevel
	}
	log.Log(level, code, err)

	render.Status(r, status)
	render.JSON(w, r, map[string]any{
		"success": false,
		"error":   msg,
	})
}
