package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jray/pkg/errors"
	"github.com/matzehuels/jray/pkg/export"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/session"
	"github.com/matzehuels/jray/pkg/typegen"
)

type createRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction,omitempty"`
}

type textRequest struct {
	Text string `json:"text"`
}

// replyResponse is a session.Reply with its error rendered.
type replyResponse struct {
	session.Reply
	Error *errorBody `json:"error,omitempty"`
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	var dir graph.Direction
	if req.Direction != "" {
		d, err := graph.ParseDirection(req.Direction)
		if err != nil {
			writeError(w, err)
			return
		}
		dir = d
	}

	sess, err := s.store.Create(r.Context(), req.Text)
	if err != nil && !errors.Recoverable(err) {
		s.store.Delete(sess.ID())
		writeError(w, err)
		return
	}
	if dir != "" {
		if derr := sess.SetDirection(r.Context(), dir); derr != nil && err == nil {
			err = derr
		}
	}
	s.logger.Info("session created", "session", sess.ID(), "bytes", len(req.Text))
	writeJSON(w, http.StatusCreated, replyResponse{
		Reply: session.Reply{State: sess.Snapshot(), Direction: sess.Direction()},
		Error: newErrorBody(err),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.store.Delete(sess.ID())
	s.logger.Info("session deleted", "session", sess.ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putText(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req textRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, r, sess, session.SetTextCommand{Text: req.Text})
}

func (s *Server) postCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req CommandRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	cmd, err := req.Command()
	if err != nil {
		writeError(w, err)
		return
	}
	s.dispatch(w, r, sess, cmd)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, sess *session.Session, cmd session.Command) {
	reply := sess.Dispatch(r.Context(), cmd)
	writeJSON(w, replyStatus(reply.Err), replyResponse{Reply: reply, Error: newErrorBody(reply.Err)})
}

var contentTypes = map[export.Format]string{
	export.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	export.FormatSVG:  "image/svg+xml",
	export.FormatPNG:  "image/png",
	export.FormatJSON: "application/json",
}

func (s *Server) exportSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	name := q.Get("format")
	if name == "" {
		name = string(export.FormatSVG)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		writeError(w, err)
		return
	}
	detailed, _ := strconv.ParseBool(q.Get("detailed"))

	var buf bytes.Buffer
	if err := export.Write(r.Context(), sess.Snapshot().Snapshot, format, export.Options{Detailed: detailed}, &buf); err != nil {
		s.logger.Error("export failed", "session", sess.ID(), "format", format, "err", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", "attachment; filename=\"diagram"+format.Ext()+"\"")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) sessionTypes(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	out, err := typegen.GenerateText(sess.Text())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}
