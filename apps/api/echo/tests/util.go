package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/alyusr/institute/apps/api/echo"
	"github.com/alyusr/institute/core"
	"github.com/alyusr/institute/core/admission"
	"github.com/alyusr/institute/core/course"
	"github.com/alyusr/institute/core/form"
	"github.com/alyusr/institute/core/notification"
	"github.com/alyusr/institute/core/review"
	"github.com/alyusr/institute/core/session"
	"github.com/alyusr/institute/core/student"
	"github.com/alyusr/institute/core/user"
	emailsvc "github.com/alyusr/institute/services/email"
	logsvc "github.com/alyusr/institute/services/logger"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
	testutil "github.com/alyusr/institute/tests"
)

type testEnv struct {
	app        Server
	conf       *core.Config
	usrRepo    user.Repository
	formRepo   form.Repository
	reviewSvc  *review.Service
	courseSvc  *course.Service
	studentSvc *student.Service
	notifSvc   *notification.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := testutil.NewTestConfig()
	db := testutil.OpenDB(t)

	usrRepo := inmemdb.NewUserRepository(db)
	formRepo := inmemdb.NewFormRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	reviewSvc := review.NewService(inmemdb.NewReviewRepository(db))
	formSvc := form.NewService(formRepo, reviewSvc, mailSvc, conf)
	courseSvc := course.NewService(inmemdb.NewCourseRepository(db))
	studentSvc := student.NewService(inmemdb.NewStudentRepository(db))
	notifSvc := notification.NewService(inmemdb.NewNotificationRepository(db))

	app := NewServer(
		&Options{
			DisableReqLogs: true,
			Conf:           conf,
			Logger:         logsvc.NewStdLogger(testLogger()),
			Validate:       validate,
			Translator:     translator,
			Creds: session.Chain{
				session.NewStaticProvider(session.DefaultStaticAccounts),
				session.NewStoreProvider(usrRepo),
			},
			UserSvc:         usrSvc,
			Pipeline:        form.NewPipeline(formSvc, validate, translator, conf),
			FormSvc:         formSvc,
			AdmissionSvc:    admission.NewService(formRepo),
			ReviewSvc:       reviewSvc,
			CourseSvc:       courseSvc,
			StudentSvc:      studentSvc,
			NotificationSvc: notifSvc,
		},
	)

	return &testEnv{
		app:        app,
		conf:       conf,
		usrRepo:    usrRepo,
		formRepo:   formRepo,
		reviewSvc:  reviewSvc,
		courseSvc:  courseSvc,
		studentSvc: studentSvc,
		notifSvc:   notifSvc,
	}
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, s *session.Session) string {
	token, err := GenerateToken(conf, GetSessionClaims(conf, s))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func adminToken(t *testing.T, conf *core.Config) string {
	return getToken(t, conf, &session.Session{
		ID: "static-admin", Email: "admin@alyusrinstitute.org", Name: "Site Admin", Role: user.RoleAdmin,
	})
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
