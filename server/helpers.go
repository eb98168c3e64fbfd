package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/xrendezvous/ConnectiveApp/server/auth"
	"github.com/xrendezvous/ConnectiveApp/server/contactbook"
	"github.com/xrendezvous/ConnectiveApp/server/models"
	"github.com/xrendezvous/ConnectiveApp/utils"
	"gorm.io/gorm"
)

var socialURLPatterns = map[string]*regexp.Regexp{
	"facebook_url":  regexp.MustCompile(`^https?://(www\.)?facebook\.com/.+`),
	"instagram_url": regexp.MustCompile(`^https?://(www\.)?instagram\.com/.+`),
	"tiktok_url":    regexp.MustCompile(`^https?://(www\.)?tiktok\.com/.+`),
}

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	if statusCode < http.StatusBadRequest {
		payLoad.Success = true
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

func writeError(rw http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeResponse(rw, ResponsePayload{Errors: []string{"record not found"}}, http.StatusNotFound)
		return
	}

	writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusInternalServerError)
}

func writeBadRequest(rw http.ResponseWriter, errs ...string) {
	writeResponse(rw, ResponsePayload{Errors: errs}, http.StatusBadRequest)
}

// writeValidationErrors writes one message per invalid field
func writeValidationErrors(rw http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		writeBadRequest(rw, err.Error())
		return
	}

	errs := []string{}
	for _, fieldErr := range validationErrs {
		errs = append(errs, validationMessage(fieldErr))
	}
	writeBadRequest(rw, errs...)
}

func validationMessage(fieldErr validator.FieldError) string {
	field := toSnakeCase(fieldErr.Field())

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%v is required", field)
	case "min":
		return fmt.Sprintf("%v must be at least %v characters long", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%v must be at most %v characters long", field, fieldErr.Param())
	case "email":
		return fmt.Sprintf("%v must be a valid email address", field)
	case "phone_number":
		return fmt.Sprintf("%v: %v", field, (&contactbook.InvalidFormatError{Value: fmt.Sprint(fieldErr.Value())}).Error())
	case "password":
		return fmt.Sprintf("%v must not contain whitespace", field)
	case "eqfield":
		return fmt.Sprintf("%v must match %v", field, toSnakeCase(fieldErr.Param()))
	case "facebook_url", "instagram_url", "tiktok_url":
		return fmt.Sprintf("%v must be a valid %v profile link", field, strings.TrimSuffix(fieldErr.Tag(), "_url"))
	default:
		return fmt.Sprintf("%v is invalid (%v)", field, fieldErr.Tag())
	}
}

func decodeJSON(r *http.Request, target interface{}) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

func removeUnknownFields(args map[string]interface{}, validFields map[string]bool) {
	for key := range args {
		if !validFields[key] {
			delete(args, key)
		}
	}
}

// pathID returns the numeric mux variable 'name'
func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %v", name)
	}
	return uint(id), nil
}

// requestUser returns the owner of the /users/{uid} resource being accessed
func requestUser(r *http.Request) (*models.User, error) {
	uid, err := pathID(r, "uid")
	if err != nil {
		return nil, err
	}
	return models.FindUserBy("id", uid)
}

func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RegisterValidators adds the custom validation tags used by the models
func RegisterValidators(validate *validator.Validate) error {
	err := validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return len(value) > 0 && !strings.ContainsAny(value, " \t\n\r")
	})
	if err != nil {
		return err
	}

	err = contactbook.RegisterPhoneNumberValidation(validate)
	if err != nil {
		return err
	}

	for tag, pattern := range socialURLPatterns {
		pattern := pattern
		err = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// ---------------------------------------------------------------------------------//
// Middleware Helper functions
// --------------------------------------------------------------------------------//

func (s *Server) decodeAndVerifyAuthHeader(authHeaderValue string) DecodedJWT {
	authHeaderList := strings.Split(authHeaderValue, "Bearer ")
	if len(authHeaderList) < 2 {
		return DecodedJWT{ErrorMsg: "no token provided"}
	}

	tokenClaims, err := auth.DecodeJWT(authHeaderList[1], s.keyPair)
	if err != nil {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	// validate that the user account still exists
	_, err = models.FindUserBy("id", tokenClaims.Subject)
	if err != nil {
		return DecodedJWT{ErrorMsg: "invalid token provided"}
	}

	return DecodedJWT{Claims: tokenClaims}
}

// client is only able to reach their own resources unless client is an admin
// who can GET/DELETE other user accounts, but never what those users own
func canAccessUserResource(r *http.Request, userClaims *auth.ConnectiveTokenClaims) bool {
	allowedMethodsForAdmins := map[string]bool{http.MethodGet: true, http.MethodDelete: true}
	uid := mux.Vars(r)["uid"]

	if uid == userClaims.Subject {
		return true
	}

	if !userClaims.IsAdmin || !allowedMethodsForAdmins[r.Method] {
		return false
	}

	return strings.TrimSuffix(r.URL.Path, "/") == "/users/"+uid
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

// configDirectory retrieves the directory to store connective data in.
// Or logs an error message and then calls os.Exit if it's unable to.
func configDirectory(devMode bool) string {
	// Use '.connective' folder in home directory for prod
	configFolderName := ".connective"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err)
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	fatalOnError(err)

	return configDir
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
