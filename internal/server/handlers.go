package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/assetforge/pkg/asset"
	"github.com/matzehuels/assetforge/pkg/buildinfo"
	"github.com/matzehuels/assetforge/pkg/cache"
	"github.com/matzehuels/assetforge/pkg/config"
	"github.com/matzehuels/assetforge/pkg/errors"
	"github.com/matzehuels/assetforge/pkg/pipeline"
	"github.com/matzehuels/assetforge/pkg/render"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[asset.Format]string{
	asset.FormatPNG:  "image/png",
	asset.FormatJPEG: "image/jpeg",
	asset.FormatJPG:  "image/jpeg",
	asset.FormatWebP: "image/webp",
	asset.FormatAVIF: "image/avif",
	asset.FormatICO:  "image/x-icon",
	asset.FormatSVG:  "image/svg+xml",
}

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	Source  string        `json:"source"`
	Variant asset.Variant `json:"variant"`
	Options asset.Options `json:"options"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	path, err := s.resolveSource(req.Source)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if problems := config.VariantProblems(req.Variant); len(problems) > 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidVariant, "%s", strings.Join(problems, "; ")))
		return
	}
	if err := errors.ValidateQuality(req.Options.Quality); err != nil {
		s.writeError(w, r, err)
		return
	}

	src, err := pipeline.ValidateSource(ctx, s.engine.Codec, path, s.cfg.Validation, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	art, hit, err := s.render(r, src, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[art.Format])
	h.Set("Content-Length", strconv.Itoa(len(art.Data)))
	h.Set("X-Asset-Width", strconv.Itoa(art.Width))
	h.Set("X-Asset-Height", strconv.Itoa(art.Height))
	if hit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// render produces the artifact, going through the cache.
func (s *Server) render(r *http.Request, src asset.Source, req RenderRequest) (render.Artifact, bool, error) {
	ctx := r.Context()

	hash, err := cache.HashFile(src.Path)
	if err != nil {
		return render.Artifact{}, false, errors.Wrap(errors.ErrCodeInvalidSource, err, "hash %s", req.Source)
	}
	key := s.keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{
		Variant:    req.Variant,
		Quality:    s.engine.Quality(req.Variant, req.Options),
		Background: req.Options.Background,
		Margin:     req.Options.Margin,
		Theme:      req.Options.Theme,
		Monochrome: s.engine.Defaults.Monochrome,
	})

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var art render.Artifact
		if json.Unmarshal(data, &art) == nil && len(art.Data) > 0 {
			return art, true, nil
		}
	}

	art, err := s.engine.RenderBytes(ctx, src, req.Variant, req.Options)
	if err != nil {
		return render.Artifact{}, false, err
	}
	if data, err := json.Marshal(art); err == nil {
		if err := s.cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			s.logger.Warn("cache write failed", "id", middleware.GetReqID(ctx), "err", err)
		}
	}
	return art, false, nil
}

// resolveSource maps a request source name to a file under the source
// directory.
func (s *Server) resolveSource(name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if !filepath.IsLocal(name) {
		return "", errors.New(errors.ErrCodeInvalidPath, "source must be a relative path inside the source directory: %q", name)
	}
	return filepath.Join(s.cfg.SourceDir, name), nil
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch {
	case code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case strings.HasPrefix(string(code), "INVALID_"), strings.HasPrefix(string(code), "UNSUPPORTED_"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorCode returns the most specific code in err's chain, skipping the
// RENDER_FAILED wrapper the engine adds.
func errorCode(err error) errors.Code {
	code := errors.GetCode(err)
	for _, c := range []errors.Code{
		errors.ErrCodeFileNotFound,
		errors.ErrCodeUnsupportedFormat,
		errors.ErrCodeUnsupportedConversion,
		errors.ErrCodeInvalidIconSize,
		errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidMargin,
	} {
		if code == errors.ErrCodeRender && errors.Is(err, c) {
			return c
		}
	}
	if code == "" {
		return errors.ErrCodeInternal
	}
	return code
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errorCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render request failed", "id", middleware.GetReqID(r.Context()), "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
