package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/mbolis/study-abroad/config"
)

// App carries the shared dependencies handed to every handler factory.
type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
}
