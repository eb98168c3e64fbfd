package server

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xrendezvous/ConnectiveApp/googleservice"
	"github.com/xrendezvous/ConnectiveApp/server/auth"
	"github.com/xrendezvous/ConnectiveApp/server/auth/key"
	"github.com/xrendezvous/ConnectiveApp/server/models"
	"github.com/xrendezvous/ConnectiveApp/server/reminder"
	"github.com/xrendezvous/ConnectiveApp/server/twilio"
	"github.com/xrendezvous/ConnectiveApp/server/widget"
	"github.com/xrendezvous/ConnectiveApp/server/work"
	"github.com/xrendezvous/ConnectiveApp/shared"
	"golang.org/x/crypto/bcrypt"
)

var (
	testKeyPair     *key.KeyPair
	testKeyPairOnce sync.Once
)

// Saturday 15 June 2024
func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
}

type testPayload struct {
	Errors  []string        `json:"errors"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	*Server
	calendarStub *googleservice.GCalendarAPIStub
}

func keyPairForTests(t *testing.T) *key.KeyPair {
	testKeyPairOnce.Do(func() {
		privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}

		testKeyPair, err = key.NewKeyPairFromRSAPrivateKeyPem(string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
		})))
		if err != nil {
			panic(err)
		}
	})

	return testKeyPair
}

func newTestServer(t *testing.T, widgetOpts ...widget.Option) *testServer {
	t.Helper()

	auth.BcryptCost = bcrypt.MinCost
	models.InitializeTestDb()

	workerPool, err := work.NewWorkerAdapter("UTC", true)
	assert.Nil(t, err)

	reminders, err := reminder.NewScheduler(workerPool, twilio.NewClient(shared.TwilioConfig{}, true), fixedClock, "")
	assert.Nil(t, err)

	calendarStub := &googleservice.GCalendarAPIStub{}

	s, err := NewServer(Dependencies{
		KeyPair:     keyPairForTests(t),
		WorkerPool:  workerPool,
		Reminders:   reminders,
		CalendarAPI: calendarStub,
		Widget:      widget.NewService(shared.WidgetConfig{}, nil, widgetOpts...),
		Location:    time.UTC,
		Now:         fixedClock,
	})
	assert.Nil(t, err)

	return &testServer{Server: s, calendarStub: calendarStub}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body interface{}) (int, testPayload) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		assert.Nil(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)

	payload := testPayload{}
	if rr.Body.Len() > 0 {
		assert.Nil(t, json.Unmarshal(rr.Body.Bytes(), &payload), rr.Body.String())
	}

	return rr.Code, payload
}

// registerAndLogin creates an account and returns its id & a token for it
func (ts *testServer) registerAndLogin(t *testing.T, username, phone string) (uint, string) {
	t.Helper()

	status, payload := ts.request(t, http.MethodPost, "/users", "", map[string]string{
		"username":              username,
		"email":                 username + "@example.com",
		"phone_number":          phone,
		"password":              "very-secure",
		"password_confirmation": "very-secure",
	})
	assert.Equal(t, http.StatusCreated, status, payload.Errors)

	user := models.User{}
	assert.Nil(t, json.Unmarshal(payload.Data, &user))

	status, payload = ts.request(t, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": "very-secure",
	})
	assert.Equal(t, http.StatusOK, status, payload.Errors)

	login := map[string]string{}
	assert.Nil(t, json.Unmarshal(payload.Data, &login))

	return user.ID, login["token"]
}

func userPath(uid uint, suffix string) string {
	return fmt.Sprintf("/users/%v%v", uid, suffix)
}

func decodeData(t *testing.T, payload testPayload, target interface{}) {
	t.Helper()
	assert.Nil(t, json.Unmarshal(payload.Data, target), string(payload.Data))
}
