package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/AlibekovAA/credential-service/internal/auth/service"
	commonerrors "github.com/AlibekovAA/credential-service/internal/common/errors"
	commonhttp "github.com/AlibekovAA/credential-service/internal/common/http"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

const (
	loginPage  = "login.htm"
	signupPage = "index.html"
	homePage   = "home.html"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	Username string `json:"username"`
}

type HandlerConfig struct {
	RequestTimeout time.Duration
	// StaticDir holds login.htm, index.html, home.html and any assets they
	// reference. Empty disables page serving.
	StaticDir string
	Pinger    commonhttp.Pinger
}

type Handler struct {
	auth      *service.AuthService
	log       *logger.Logger
	errors    *commonhttp.ErrorHandler
	staticDir string
}

func NewHandler(auth *service.AuthService, cfg HandlerConfig, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:      auth,
		log:       log,
		errors:    commonhttp.NewErrorHandler(log),
		staticDir: cfg.StaticDir,
	}

	post := func(next http.HandlerFunc) http.HandlerFunc {
		return commonhttp.RequireMethod(http.MethodPost)(commonhttp.WithTimeout(cfg.RequestTimeout)(next))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log, cfg.Pinger))
	mux.HandleFunc("/api/auth/register", post(h.register))
	mux.HandleFunc("/api/auth/login", post(h.login))
	mux.HandleFunc("/register", post(h.register))

	if h.staticDir == "" {
		mux.HandleFunc("/login", post(h.login))
		return mux
	}

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			post(h.login)(w, r)
			return
		}
		h.page(loginPage)(w, r)
	})
	mux.HandleFunc("/logout", h.page(loginPage))
	mux.HandleFunc("/signup", h.page(signupPage))

	assets := http.FileServer(http.Dir(h.staticDir))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			h.page(loginPage)(w, r)
			return
		}
		assets.ServeHTTP(w, r)
	})

	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r, "register")
	if !ok {
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if h.servesPages(r) {
		h.servePage(w, r, loginPage)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, identityResponse{Username: result.Username})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r, "login")
	if !ok {
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if h.servesPages(r) {
		h.servePage(w, r, homePage)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, identityResponse{Username: result.Username})
}

// decode accepts a JSON body or form fields and writes the error response
// itself when the body cannot be read.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, action string) (credentialsRequest, bool) {
	var req credentialsRequest
	traceID := commonhttp.TraceIDFromContext(r.Context())

	if commonhttp.IsFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			h.logDecodeFailure(r, action, err)
			h.writeDecodeError(w, err, commonhttp.CodeInvalidForm, "invalid form body", traceID)
			return req, false
		}
		req.Username = r.PostForm.Get("username")
		req.Email = r.PostForm.Get("email")
		req.Password = r.PostForm.Get("password")
		return req, true
	}

	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.logDecodeFailure(r, action, err)
		h.writeDecodeError(w, err, commonhttp.CodeInvalidJSON, "invalid json", traceID)
		return req, false
	}
	return req, true
}

func (h *Handler) logDecodeFailure(r *http.Request, action string, err error) {
	h.log.WithFields(r.Context(), logger.Fields{
		"action":    action + "_decode_failed",
		"client_ip": commonhttp.GetClientIP(r),
	}).Warnf("%s failed: unreadable body: %v", action, err)
}

func (h *Handler) writeDecodeError(w http.ResponseWriter, err error, code, message, traceID string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeBodyTooLarge, "request body too large", nil, traceID)
		return
	}
	commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, code, message, nil, traceID)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if vErr, ok := service.AsValidationError(err); ok {
		commonhttp.WriteErrorEnvelope(
			w,
			http.StatusBadRequest,
			service.ErrValidation.Code(),
			vErr.Error(),
			map[string]any{"field": vErr.Field},
			commonhttp.TraceIDFromContext(r.Context()),
		)
		return
	}

	if commonerrors.IsDomainError(err) {
		h.errors.HandleError(w, r, err)
		return
	}

	h.errors.HandleError(w, r, service.ErrInternal)
}

// servesPages reports whether a successful form post should answer with a
// page rather than JSON.
func (h *Handler) servesPages(r *http.Request) bool {
	return h.staticDir != "" && commonhttp.IsFormRequest(r)
}

func (h *Handler) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet)
			commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, commonhttp.TraceIDFromContext(r.Context()))
			return
		}
		h.servePage(w, r, name)
	}
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, name string) {
	http.ServeFile(w, r, filepath.Join(h.staticDir, name))
}
