// Package testutil provides common test utilities for the CRM backend.
// It contains helpers for mock databases, Gin test contexts, and
// deterministic identifiers.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a new mock database. Close is registered as a test
// cleanup, so callers do not need to close it themselves.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	m := &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
	t.Cleanup(func() { _ = m.SqlDB.Close() })
	return m
}

// ExpectationsWereMet verifies that all sqlmock expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// TestContext wraps a Gin test context with an HTTP recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a new Gin test context with a plain GET request.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return &TestContext{
		Context:  c,
		Recorder: w,
		Engine:   engine,
	}
}

// SetRequestID sets a request ID in the context.
func (tc *TestContext) SetRequestID(id string) {
	tc.Context.Set("X-Request-ID", id)
}

// SetHeader sets a header on the request.
func (tc *TestContext) SetHeader(key, value string) {
	tc.Context.Request.Header.Set(key, value)
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// NewTestUUID generates a deterministic UUID from a seed string, so
// fixtures keep stable identifiers across runs.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// RequireEventually retries a condition function until it passes or the
// timeout expires, then fails the test.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...interface{}) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
