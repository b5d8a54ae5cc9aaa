package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/kunori-kiku/textholder/failban"
	"github.com/kunori-kiku/textholder/fetcher"
	"github.com/kunori-kiku/textholder/sanitize"
	"github.com/kunori-kiku/textholder/util"
)

// HandleGet is the anonymous-read path: ban gate, credential match, then
// artifact fetch.
func (e *Env) HandleGet(w http.ResponseWriter, r *http.Request) {
	ip := util.FindTrueIP(r)

	banned, err := e.Tracker.IsBanned(r.Context(), failban.PurposeLogin, ip)
	if err != nil {
		log.Error().Err(err).Str("ip", ip).Msg("could not check ban state")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if banned {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	username := sanitize.Clean(r.URL.Query().Get("username"))
	password := sanitize.Clean(r.URL.Query().Get("password"))

	stored, found, err := e.Directory.Lookup(r.Context(), username)
	if err != nil {
		log.Error().Err(err).Msg("could not read user directory")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	if !found || stored == "" || stored != password {
		log.Warn().Str("ip", ip).Str("username", username).Msg("invalid login")
		if err := e.Tracker.RecordFailure(r.Context(), failban.PurposeLogin, ip); err != nil {
			log.Error().Err(err).Str("ip", ip).Msg("could not record login failure")
		}
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "Bad logon")
		return
	}

	content, err := e.Fetcher.Fetch(r.Context(), username)
	if err != nil {
		diagnostic := err.Error()
		var upstreamErr *fetcher.UpstreamError
		if errors.As(err, &upstreamErr) {
			diagnostic = upstreamErr.Body
		}

		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "File not found. GitHub API response: %s", diagnostic)
		return
	}

	log.Info().Str("ip", ip).Str("username", username).Msg("served artifact")

	w.Header().Set("Content-Type", "text/plain")
	w.Write(content)
}
