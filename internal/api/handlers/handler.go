package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rohits-web03/ledger/internal/calc"
	"github.com/rohits-web03/ledger/internal/config"
	"github.com/rohits-web03/ledger/internal/repositories"
	"github.com/rohits-web03/ledger/internal/utils"
)

// Handler serves the REST API on top of a project store.
type Handler struct {
	store    *repositories.Store
	blobs    repositories.BlobStore
	log      *zap.Logger
	validate *validator.Validate

	maxUpload    int64
	passwordHash []byte
	jwtSecret    string
	secureCookie bool

	// now is swapped in tests
	now func() time.Time
}

func New(store *repositories.Store, cfg config.Config, log *zap.Logger) (*Handler, error) {
	if log == nil {
		log = zap.NewNop()
	}

	h := &Handler{
		store:        store,
		blobs:        store.Blobs(),
		log:          log,
		validate:     newValidator(),
		maxUpload:    cfg.MaxUploadBytes,
		jwtSecret:    cfg.Auth.JWTSecret,
		secureCookie: cfg.Environment == "production",
		now:          time.Now,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 32 << 20
	}

	if cfg.Auth.Enabled() {
		hash, err := ownerHash(cfg.Auth)
		if err != nil {
			return nil, err
		}
		h.passwordHash = hash
	}
	return h, nil
}

// ownerHash prefers a configured bcrypt hash over hashing the plain password.
func ownerHash(auth config.AuthConfig) ([]byte, error) {
	if auth.PasswordHash != "" {
		return []byte(auth.PasswordHash), nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(auth.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash owner password: %w", err)
	}
	return hash, nil
}

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON decodes a request body strictly and validates it.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.handleError(w, err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		utils.Fail(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// handleError maps store and input errors onto status codes.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var (
		vErr     *repositories.ValidationError
		inErr    *calc.InputError
		fieldErr validator.ValidationErrors
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &inErr):
		utils.Fail(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &fieldErr):
		utils.Fail(w, http.StatusBadRequest, describe(fieldErr))
	case errors.Is(err, repositories.ErrProjectNotFound):
		utils.Fail(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, repositories.ErrNotFound):
		utils.Fail(w, http.StatusNotFound, "Not found")
	default:
		h.log.Error("request failed", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s %s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}
