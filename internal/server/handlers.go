package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/crackfree/pkg/buildinfo"
	apperr "github.com/matzehuels/crackfree/pkg/errors"
	"github.com/matzehuels/crackfree/pkg/pipeline"
)

// wallsResponse is the body of GET /v1/walls.
type wallsResponse struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Layers int         `json:"layers"`
	Total  json.Number `json:"total"`
	Exact  bool        `json:"exact,omitempty"`
	Cached bool        `json:"cached"`
}

// layerInfo describes one layer in GET /v1/layers.
type layerInfo struct {
	Index      int   `json:"index"`
	Bricks     []int `json:"bricks"`
	Joints     []int `json:"joints"`
	Compatible []int `json:"compatible"`
}

// layersResponse is the body of GET /v1/layers.
type layersResponse struct {
	Width  int         `json:"width"`
	Count  int         `json:"count"`
	Pairs  int         `json:"pairs"`
	Layers []layerInfo `json:"layers"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleWalls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, err := intParam(q.Get("width"), "width", true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	height, err := intParam(q.Get("height"), "height", true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	exact, err := boolParam(q.Get("exact"), "exact")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := pipeline.Options{
		Width:     width,
		Height:    height,
		Workers:   s.opts.Workers,
		Exact:     exact,
		MaxWidth:  s.opts.MaxWidth,
		MaxHeight: s.opts.MaxHeight,
		Logger:    s.logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.count(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wallsResponse{
		Width:  res.Width,
		Height: res.Height,
		Layers: res.Stats.LayerCount,
		Total:  json.Number(res.String()),
		Exact:  exact,
		Cached: res.CacheHit,
	})
}

// count runs the pipeline once per distinct wall no matter how many requests
// ask for it concurrently. The shared computation is detached from any one
// caller so a disconnecting client does not fail the others; each caller
// still stops waiting when its own context ends.
func (s *Server) count(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	key := fmt.Sprintf("%d:%d:%t", opts.Width, opts.Height, opts.Exact)
	ch := s.group.DoChan(key, func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		if s.opts.RequestTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, s.opts.RequestTimeout)
			defer cancel()
		}
		return s.runner.Execute(runCtx, opts)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		r := *res.Val.(*pipeline.Result)
		return &r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, err := intParam(q.Get("width"), "width", true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := intParam(q.Get("limit"), "limit", false)
	if err == nil && limit < 0 {
		err = apperr.New(apperr.ErrCodeInvalidInput, "limit must be non-negative, got %d", limit)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := apperr.ValidateBounds(width, 1, s.opts.MaxWidth, 0); err != nil {
		s.fail(w, r, err)
		return
	}

	set, err := s.runner.Layers(r.Context(), width, s.opts.Workers)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	n := len(set.Layers)
	if limit > 0 && limit < n {
		n = limit
	}
	resp := layersResponse{
		Width:  width,
		Count:  len(set.Layers),
		Pairs:  set.Stats.EdgeCount,
		Layers: make([]layerInfo, n),
	}
	for i := range n {
		layer := set.Layers[i]
		bricks := make([]int, len(layer))
		for j, b := range layer {
			bricks[j] = int(b)
		}
		compatible := set.Adjacency[i]
		if compatible == nil {
			compatible = []int{}
		}
		joints := set.Analyzer.Joints(i).Positions()
		if joints == nil {
			joints = []int{}
		}
		resp.Layers[i] = layerInfo{
			Index:      i,
			Bricks:     bricks,
			Joints:     joints,
			Compatible: compatible,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// intParam parses an integer query parameter. A missing optional
// parameter is 0.
func intParam(raw, name string, required bool) (int, error) {
	if raw == "" {
		if required {
			return 0, apperr.New(apperr.ErrCodeInvalidInput, "missing query parameter %q", name)
		}
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

// boolParam parses an optional boolean query parameter. A missing
// parameter is false.
func boolParam(raw, name string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%s must be a boolean, got %q", name, raw)
	}
	return b, nil
}

// fail maps err to a status code and writes the JSON error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFromContext(r.Context()), "err", err)
	}
	writeError(w, status, code, apperr.UserMessage(err))
}

func statusFor(err error) (int, string) {
	switch {
	case apperr.IsInvalid(err):
		return http.StatusBadRequest, string(apperr.GetCode(err))
	case apperr.Is(err, apperr.ErrCodeOverflow):
		return http.StatusUnprocessableEntity, string(apperr.ErrCodeOverflow)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, string(apperr.ErrCodeInternal)
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, string(apperr.ErrCodeInternal)
	}
	if code := apperr.GetCode(err); code != "" {
		return http.StatusInternalServerError, string(code)
	}
	return http.StatusInternalServerError, string(apperr.ErrCodeInternal)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
