package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/xrendezvous/ConnectiveApp/server/auth"
	"github.com/xrendezvous/ConnectiveApp/server/auth/key"
	"github.com/xrendezvous/ConnectiveApp/server/models"
	"github.com/xrendezvous/ConnectiveApp/utils"
	"gorm.io/gorm"
)

type registrationRequest struct {
	Username             string `json:"username" validate:"required,min=3,max=50"`
	Email                string `json:"email" validate:"required,email,max=320"`
	PhoneNumber          string `json:"phone_number" validate:"omitempty,phone_number"`
	Password             string `json:"password" validate:"required,min=8,password"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type reminderSettingRequest struct {
	Active         *bool  `json:"active" validate:"required"`
	CronExpression string `json:"cron_expression"`
}

func (s *Server) jwks(rw http.ResponseWriter, r *http.Request) {
	keyPairJWK, err := s.keyPair.JWK()
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: key.ExportJWKAsJWKS(keyPairJWK)}, http.StatusOK)
}

func (s *Server) createUser(rw http.ResponseWriter, r *http.Request) {
	data := registrationRequest{}
	err := decodeJSON(r, &data)
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	err = s.validate.Struct(data)
	if err != nil {
		writeValidationErrors(rw, err)
		return
	}

	taken, err := models.UsernameOrEmailTaken(data.Username, data.Email)
	if err != nil {
		writeError(rw, err)
		return
	}

	if taken {
		writeBadRequest(rw, "username or email is already taken")
		return
	}

	user := models.User{
		Username:    data.Username,
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		Password:    data.Password,
	}
	err = models.CreateUser(&user)
	if err != nil {
		writeError(rw, err)
		return
	}

	user.Password = ""
	writeResponse(rw, ResponsePayload{Data: user}, http.StatusCreated)
}

func (s *Server) logIn(rw http.ResponseWriter, r *http.Request) {
	data := make(map[string]string)
	err := decodeJSON(r, &data)
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	userID, passwordHash, err := models.FindUserCredentials(data["username"])
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(rw, err)
		return
	}

	if !auth.CheckPasswordHash(data["password"], passwordHash) {
		writeResponse(rw, ResponsePayload{Errors: []string{"username/password is invalid"}}, http.StatusUnauthorized)
		return
	}

	user, err := models.FindUserBy("id", userID)
	if err != nil {
		writeError(rw, err)
		return
	}

	isAdmin, err := user.IsAdmin()
	if err != nil {
		writeError(rw, err)
		return
	}

	now := time.Now()
	token, err := auth.EncodeJWT(auth.ConnectiveTokenClaims{
		Username: user.Username,
		IsAdmin:  isAdmin,
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(TOKEN_TTL).Unix(),
			Issuer:    "connective",
		},
	}, s.keyPair)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: map[string]string{"token": token}}, http.StatusOK)
}

func (s *Server) findUser(rw http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid")
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	user, err := models.FindUserWithReminderSetting(uid)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: user}, http.StatusOK)
}

func (s *Server) updateUser(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	data := make(map[string]interface{})
	err = decodeJSON(r, &data)
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	fieldRules := map[string]string{
		"email":        "required,email,max=320",
		"phone_number": "omitempty,phone_number",
		"password":     "required,min=8,password",
	}
	validFields := map[string]bool{}
	for field := range fieldRules {
		validFields[field] = true
	}

	removeUnknownFields(data, validFields)
	if len(data) <= 0 {
		writeBadRequest(rw, "valid fields required")
		return
	}

	errs := []string{}
	for field, value := range data {
		err = s.validate.Var(fmt.Sprintf("%v", value), fieldRules[field])
		if err != nil {
			errs = append(errs, fmt.Sprintf("%v is invalid", field))
		}
	}

	if len(errs) > 0 {
		writeBadRequest(rw, errs...)
		return
	}

	err = user.Update(data)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{}, http.StatusOK)
}

func (s *Server) deleteUser(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	err = s.reminders.UnscheduleReminder(user.ID)
	if err != nil {
		logg.Error(err)
	}

	err = models.DeleteUser(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{}, http.StatusOK)
}

func (s *Server) updateReminderSetting(rw http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	data := reminderSettingRequest{}
	err = decodeJSON(r, &data)
	if err != nil {
		writeBadRequest(rw, err.Error())
		return
	}

	err = s.validate.Struct(data)
	if err != nil {
		writeValidationErrors(rw, err)
		return
	}

	setting, err := models.FindReminderSetting(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	cronExpression := strings.TrimSpace(data.CronExpression)
	if cronExpression == "" {
		cronExpression = setting.CronExpression
	}

	if *data.Active && user.PhoneNumber == "" {
		writeBadRequest(rw, "a phone number is required to receive birthday reminders")
		return
	}

	if *data.Active {
		err = s.reminders.ScheduleReminder(user.ID, cronExpression)
		if err != nil {
			writeBadRequest(rw, err.Error())
			return
		}
	} else {
		err = s.reminders.UnscheduleReminder(user.ID)
		if err != nil {
			writeError(rw, err)
			return
		}
	}

	err = user.UpdateReminderSetting(map[string]interface{}{
		"active":          *data.Active,
		"cron_expression": cronExpression,
	})
	if err != nil {
		writeError(rw, err)
		return
	}

	setting, err = models.FindReminderSetting(user.ID)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: setting}, http.StatusOK)
}

func (s *Server) fetchWidget(rw http.ResponseWriter, r *http.Request) {
	data, err := s.widget.Fetch(r.Context(), s.today())
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadGateway)
		return
	}

	writeResponse(rw, ResponsePayload{Data: data}, http.StatusOK)
}

func (s *Server) fetchJobs(rw http.ResponseWriter, r *http.Request) {
	page := utils.AtoiOrDefault(r.URL.Query().Get("page"), 1)
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	if status != "" && !models.JobStatusNameMap[status] {
		writeBadRequest(rw, "invalid job status "+strconv.Quote(status))
		return
	}

	jobs, paging, err := models.FetchJobs(page, status)
	if err != nil {
		writeError(rw, err)
		return
	}

	stats, err := models.CurrentJobsStats()
	if err != nil {
		writeError(rw, err)
		return
	}

	writeResponse(rw, ResponsePayload{Data: map[string]interface{}{
		"jobs":   jobs,
		"stats":  stats,
		"paging": paging,
	}}, http.StatusOK)
}
