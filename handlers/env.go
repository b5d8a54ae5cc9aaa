package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/kunori-kiku/textholder/directory"
	"github.com/kunori-kiku/textholder/failban"
	"github.com/kunori-kiku/textholder/fetcher"
	"github.com/kunori-kiku/textholder/middlewares/requestlog"
)

type Env struct {
	Directory  *directory.Directory
	Tracker    *failban.Tracker
	Fetcher    fetcher.Fetcher
	SuperToken string
}

func (e *Env) BuildRouter() http.Handler {
	log.Info().Msg("setting up listeners")

	muxer := mux.NewRouter()

	muxer.HandleFunc("/healthz", HandleHealthz)

	muxer.HandleFunc("/get", e.HandleGet)

	muxer.HandleFunc("/addUser", e.HandleAdmin)
	muxer.HandleFunc("/removeUser", e.HandleAdmin)
	muxer.HandleFunc("/listUser", e.HandleAdmin)
	muxer.HandleFunc("/listFailIP", e.HandleAdmin)
	muxer.HandleFunc("/clearFailIP", e.HandleAdmin)

	// anything else still has to pass the super-token gate before it learns
	// the operation does not exist
	muxer.NotFoundHandler = http.HandlerFunc(e.HandleAdmin)

	return requestlog.NewMiddleware(muxer)
}
