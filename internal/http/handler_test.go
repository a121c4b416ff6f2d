package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/gigpay/internal/auth"
	"github.com/nurpe/gigpay/internal/config"
	"github.com/nurpe/gigpay/internal/excel"
	"github.com/nurpe/gigpay/internal/http/middleware"
	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/pdf"
	"github.com/nurpe/gigpay/internal/repository"
	"github.com/nurpe/gigpay/internal/service"
)

const testSecret = "test-secret"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	schema := []string{
		`CREATE TABLE profiles (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			profession TEXT NOT NULL,
			balance REAL NOT NULL DEFAULT 0,
			type TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE contracts (
			id TEXT PRIMARY KEY,
			terms TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'new',
			client_id TEXT NOT NULL,
			contractor_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE jobs (
			id TEXT PRIMARY KEY,
			contract_id TEXT NOT NULL,
			description TEXT NOT NULL,
			price REAL NOT NULL,
			paid BOOLEAN,
			payment_date DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	cfg := &config.Config{
		Environment: "test",
		Auth:        config.AuthConfig{AccessSecret: testSecret},
		Billing:     config.BillingConfig{DepositCapRatio: 0.25},
		Reports:     config.ReportsConfig{DefaultClientsLimit: 2},
	}

	profileRepo := repository.NewProfileRepository(db)
	contractRepo := repository.NewContractRepository(db)
	jobRepo := repository.NewJobRepository(db)
	reportRepo := repository.NewReportRepository(db)

	pdfGenerator, err := pdf.NewGenerator()
	require.NoError(t, err)

	handler := NewHandler(
		service.NewContractService(contractRepo),
		service.NewJobService(jobRepo, profileRepo),
		service.NewBalanceService(profileRepo, cfg),
		service.NewReportService(reportRepo, excel.NewGenerator(), pdfGenerator, cfg),
		zerolog.Nop(),
	)
	authMiddleware := middleware.Auth(auth.NewParser(testSecret), profileRepo)
	router := NewRouter(handler, authMiddleware, cfg.Environment)

	return &testServer{router: router, db: db}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func (s *testServer) seedProfile(t *testing.T, profileType model.ProfileType, firstName, lastName, profession string, balance float64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := s.db.Exec(`
		INSERT INTO profiles (id, first_name, last_name, profession, balance, type)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, firstName, lastName, profession, balance, profileType).Error
	require.NoError(t, err)
	return id
}

func (s *testServer) seedContract(t *testing.T, clientID, contractorID uuid.UUID, status model.ContractStatus) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := s.db.Exec(`
		INSERT INTO contracts (id, terms, status, client_id, contractor_id)
		VALUES (?, ?, ?, ?, ?)
	`, id, "terms", status, clientID, contractorID).Error
	require.NoError(t, err)
	return id
}

func (s *testServer) seedJob(t *testing.T, contractID uuid.UUID, price float64, paidAt *time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	var err error
	if paidAt == nil {
		err = s.db.Exec(`
			INSERT INTO jobs (id, contract_id, description, price, paid, payment_date)
			VALUES (?, ?, ?, ?, NULL, NULL)
		`, id, contractID, "work", price).Error
	} else {
		err = s.db.Exec(`
			INSERT INTO jobs (id, contract_id, description, price, paid, payment_date)
			VALUES (?, ?, ?, ?, TRUE, ?)
		`, id, contractID, "work", price, *paidAt).Error
	}
	require.NoError(t, err)
	return id
}

func profileHeader(id uuid.UUID) map[string]string {
	return map[string]string{"profile_id": id.String()}
}

func signToken(t *testing.T, profileID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		ProfileID: profileID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodGet, "/contracts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = server.do(t, http.MethodGet, "/contracts", "", profileHeader(uuid.New()))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestBearerTokenAccepted(t *testing.T) {
	server := newTestServer(t)
	clientID := server.seedProfile(t, model.ProfileTypeClient, "Ada", "Lovelace", "Manager", 0)

	recorder := server.do(t, http.MethodGet, "/contracts", "", map[string]string{
		"Authorization": "Bearer " + signToken(t, clientID),
	})
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGetContractHidesForeign(t *testing.T) {
	server := newTestServer(t)
	clientID := server.seedProfile(t, model.ProfileTypeClient, "Ada", "Lovelace", "Manager", 0)
	contractorID := server.seedProfile(t, model.ProfileTypeContractor, "Linus", "Smith", "Programmer", 0)
	strangerID := server.seedProfile(t, model.ProfileTypeClient, "Eve", "Jones", "Manager", 0)
	contractID := server.seedContract(t, clientID, contractorID, model.ContractStatusInProgress)

	recorder := server.do(t, http.MethodGet, "/contracts/"+contractID.String(), "", profileHeader(clientID))
	require.Equal(t, http.StatusOK, recorder.Code)

	var contract model.Contract
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &contract))
	assert.Equal(t, contractID, contract.ID)

	recorder = server.do(t, http.MethodGet, "/contracts/"+contractID.String(), "", profileHeader(strangerID))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestPayJobEndpoint(t *testing.T) {
	server := newTestServer(t)
	clientID := server.seedProfile(t, model.ProfileTypeClient, "Ada", "Lovelace", "Manager", 500)
	contractorID := server.seedProfile(t, model.ProfileTypeContractor, "Linus", "Smith", "Programmer", 0)
	contractID := server.seedContract(t, clientID, contractorID, model.ContractStatusInProgress)
	jobID := server.seedJob(t, contractID, 200, nil)

	path := "/jobs/" + jobID.String() + "/pay"

	recorder := server.do(t, http.MethodPost, path, "", profileHeader(contractorID))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = server.do(t, http.MethodPost, path, "", profileHeader(clientID))
	assert.Equal(t, http.StatusOK, recorder.Code)

	// retry is rejected, not replayed
	recorder = server.do(t, http.MethodPost, path, "", profileHeader(clientID))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPayJobInsufficientBalance(t *testing.T) {
	server := newTestServer(t)
	clientID := server.seedProfile(t, model.ProfileTypeClient, "Ada", "Lovelace", "Manager", 10)
	contractorID := server.seedProfile(t, model.ProfileTypeContractor, "Linus", "Smith", "Programmer", 0)
	contractID := server.seedContract(t, clientID, contractorID, model.ContractStatusInProgress)
	jobID := server.seedJob(t, contractID, 200, nil)

	recorder := server.do(t, http.MethodPost, "/jobs/"+jobID.String()+"/pay", "", profileHeader(clientID))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDepositEndpoint(t *testing.T) {
	server := newTestServer(t)
	clientID := server.seedProfile(t, model.ProfileTypeClient, "Ada", "Lovelace", "Manager", 0)
	contractorID := server.seedProfile(t, model.ProfileTypeContractor, "Linus", "Smith", "Programmer", 0)
	contractID := server.seedContract(t, clientID, contractorID, model.ContractStatusInProgress)
	server.seedJob(t, contractID, 1000, nil)

	path := "/balances/deposit/" + clientID.String()

	recorder := server.do(t, http.MethodPost, path, `{"amount":"NaN"}`, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = server.do(t, http.MethodPost, path, `{"amount":-10}`, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = server.do(t, http.MethodPost, path, `{"amount":500}`, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = server.do(t, http.MethodPost, path, `{"amount":250}`, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestBestProfessionEndpoint(t *testing.T) {
	server := newTestServer(t)
	clientID := server.seedProfile(t, model.ProfileTypeClient, "Ada", "Lovelace", "Manager", 0)
	programmerID := server.seedProfile(t, model.ProfileTypeContractor, "Linus", "Smith", "Programmer", 0)
	designerID := server.seedProfile(t, model.ProfileTypeContractor, "Dana", "White", "Designer", 0)

	programmerContract := server.seedContract(t, clientID, programmerID, model.ContractStatusInProgress)
	designerContract := server.seedContract(t, clientID, designerID, model.ContractStatusInProgress)

	march := time.Date(2020, 3, 10, 12, 0, 0, 0, time.UTC)
	august := time.Date(2020, 8, 20, 12, 0, 0, 0, time.UTC)
	server.seedJob(t, programmerContract, 300, &march)
	server.seedJob(t, designerContract, 700, &august)

	recorder := server.do(t, http.MethodGet, "/admin/best-profession?start=2020-01-01&end=2020-12-31", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Designer", body["profession"])
	assert.InDelta(t, 700, body["total-earned"].(float64), 0.001)
}

func TestBestProfessionValidation(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodGet, "/admin/best-profession?start=2020-12-31&end=2020-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = server.do(t, http.MethodGet, "/admin/best-profession?start=2020-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = server.do(t, http.MethodGet, "/admin/best-profession?start=2020-01-01&end=2020-12-31", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestBestClientsEndpoint(t *testing.T) {
	server := newTestServer(t)
	clientID := server.seedProfile(t, model.ProfileTypeClient, "Ada", "Lovelace", "Manager", 0)
	contractorID := server.seedProfile(t, model.ProfileTypeContractor, "Linus", "Smith", "Programmer", 0)
	contractID := server.seedContract(t, clientID, contractorID, model.ContractStatusInProgress)

	february := time.Date(2020, 2, 1, 12, 0, 0, 0, time.UTC)
	march := time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC)
	server.seedJob(t, contractID, 50, &february)
	server.seedJob(t, contractID, 100, &march)

	recorder := server.do(t, http.MethodGet, "/admin/best-clients?start=2020-01-01&end=2020-12-31&limit=1", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada Lovelace", rows[0]["fullName"])
	assert.InDelta(t, 100, rows[0]["paid"].(float64), 0.001)

	recorder = server.do(t, http.MethodGet, "/admin/best-clients?start=2020-01-01&end=2020-12-31&limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestExportEarningsEndpoint(t *testing.T) {
	server := newTestServer(t)
	clientID := server.seedProfile(t, model.ProfileTypeClient, "Ada", "Lovelace", "Manager", 0)
	contractorID := server.seedProfile(t, model.ProfileTypeContractor, "Linus", "Smith", "Programmer", 0)
	contractID := server.seedContract(t, clientID, contractorID, model.ContractStatusInProgress)

	june := time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC)
	server.seedJob(t, contractID, 150, &june)

	body := `{"period_start":"2020-01-01","period_end":"2020-12-31"}`

	recorder := server.do(t, http.MethodPost, "/admin/reports/export", body, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "earnings-20200101-20201231.xlsx")
	assert.NotEmpty(t, recorder.Body.Bytes())

	recorder = server.do(t, http.MethodPost, "/admin/reports/export/pdf", body, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/pdf", recorder.Header().Get("Content-Type"))
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
