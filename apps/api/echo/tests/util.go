package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/schoolcrm/apps/api/echo"
	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/attendance"
	"github.com/trezcool/schoolcrm/core/billing"
	"github.com/trezcool/schoolcrm/core/grading"
	"github.com/trezcool/schoolcrm/core/payroll"
	"github.com/trezcool/schoolcrm/core/roster"
	sqlxrepos "github.com/trezcool/schoolcrm/storage/database/sqlx"
	"github.com/trezcool/schoolcrm/tests"
)

func testDeps(db *sqlx.DB) ServerDeps {
	conf := testutil.TestConfig()
	conf.Server.DisableReqLogs = true

	validate, translator := core.NewValidator()
	attendance.InitValidators(validate, translator)

	rosters := sqlxrepos.NewRosterProvider(db)
	return ServerDeps{
		Conf:       conf,
		Logger:     core.NopLogger,
		Validate:   validate,
		Translator: translator,
		Attendance: roster.NewService[attendance.Mark](
			rosters, sqlxrepos.NewRecordStore[attendance.Mark](db), attendance.Default, validate, nil,
		),
		Grading: roster.NewService[grading.Grade](
			rosters, sqlxrepos.NewRecordStore[grading.Grade](db), grading.Default, validate, nil,
		),
		Payroll: roster.NewService[payroll.Slip](
			rosters, sqlxrepos.NewRecordStore[payroll.Slip](db), payroll.Default, validate, nil,
		),
		Billing: billing.NewService(sqlxrepos.NewInvoiceRepository(db), nil),
	}
}

func setup(t *testing.T) (*Server, *sqlx.DB) {
	// set up DB & repos
	db := testutil.PrepareDB(t)

	// set up server
	server := NewServer(testDeps(db))
	t.Cleanup(func() { _ = server.Close() })
	return server, db
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchall() failed: %v; body %s", err, rec.Body.String())
	}
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
	if _, isList := j1.([]interface{}); !isList {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
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

// failingStore fails every read and write, the way an unreachable database does.
type failingStore[S any] struct{}

var errDBDown = core.NewPersistenceError(context.DeadlineExceeded)

func (failingStore[S]) GetRecords(context.Context, roster.Context) ([]roster.Record[S], error) {
	return nil, errDBDown
}

func (failingStore[S]) SaveRecords(context.Context, roster.Context, []roster.Record[S]) error {
	return errDBDown
}
