package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kunori-kiku/textholder/failban"
	"github.com/kunori-kiku/textholder/sanitize"
	"github.com/kunori-kiku/textholder/util"
)

type adminOp string

const (
	opAddUser     adminOp = "addUser"
	opRemoveUser  adminOp = "removeUser"
	opListUser    adminOp = "listUser"
	opListFailIP  adminOp = "listFailIP"
	opClearFailIP adminOp = "clearFailIP"
)

var adminHandlers = map[adminOp]func(e *Env, w http.ResponseWriter, r *http.Request){
	opAddUser:     (*Env).handleAddUser,
	opRemoveUser:  (*Env).handleRemoveUser,
	opListUser:    (*Env).handleListUser,
	opListFailIP:  (*Env).handleListFailIP,
	opClearFailIP: (*Env).handleClearFailIP,
}

// HandleAdmin gates every privileged operation behind the super-token check
// and its own ban namespace, then dispatches on the operation table. An
// unknown operation is only revealed as unsupported after the gate passes.
func (e *Env) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	ip := util.FindTrueIP(r)

	banned, err := e.Tracker.IsBanned(r.Context(), failban.PurposeSuper, ip)
	if err != nil {
		log.Error().Err(err).Str("ip", ip).Msg("could not check ban state")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if banned {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	if r.URL.Query().Get("superToken") != e.SuperToken {
		log.Warn().Str("ip", ip).Msg("invalid super token")
		if err := e.Tracker.RecordFailure(r.Context(), failban.PurposeSuper, ip); err != nil {
			log.Error().Err(err).Str("ip", ip).Msg("could not record super token failure")
		}
		w.WriteHeader(http.StatusForbidden)
		return
	}

	op := adminOp(strings.TrimPrefix(r.URL.Path, "/"))

	handler, recognized := adminHandlers[op]
	if !recognized {
		log.Warn().Str("ip", ip).Str("op", string(op)).Msg("unsupported operation")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "Method not supported")
		return
	}

	handler(e, w, r)
}

func (e *Env) handleAddUser(w http.ResponseWriter, r *http.Request) {
	username := sanitize.Clean(r.URL.Query().Get("username"))
	password := sanitize.Clean(r.URL.Query().Get("password"))

	if err := e.Directory.Upsert(r.Context(), username, password); err != nil {
		log.Error().Err(err).Str("username", username).Msg("could not add user")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	fmt.Fprint(w, "User added")
}

func (e *Env) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	username := sanitize.Clean(r.URL.Query().Get("username"))

	if err := e.Directory.Remove(r.Context(), username); err != nil {
		log.Error().Err(err).Str("username", username).Msg("could not remove user")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	fmt.Fprint(w, "User removed")
}

func (e *Env) handleListUser(w http.ResponseWriter, r *http.Request) {
	usernames, err := e.Directory.Usernames(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("could not list users")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(usernames); err != nil {
		log.Error().Err(err).Msg("could not encode user list")
	}
}

func (e *Env) handleListFailIP(w http.ResponseWriter, r *http.Request) {
	records, err := e.Tracker.Failures(r.Context(), failban.PurposeLogin)
	if err != nil {
		log.Error().Err(err).Msg("could not list failure records")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		log.Error().Err(err).Msg("could not encode failure records")
	}
}

func (e *Env) handleClearFailIP(w http.ResponseWriter, r *http.Request) {
	if err := e.Tracker.Clear(r.Context(), failban.PurposeLogin); err != nil {
		log.Error().Err(err).Msg("could not clear failure records")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	fmt.Fprint(w, "Cleared failed IP list")
}
