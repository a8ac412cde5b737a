package routes

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
	"shipping-system/internal/listeners"
	"shipping-system/internal/repositories"
	"shipping-system/pkg/broker"
	"shipping-system/pkg/config"
	"shipping-system/pkg/customvalidator"
	"shipping-system/pkg/database/migrations"
	"shipping-system/pkg/database/postgresql"
	"shipping-system/pkg/eventbus"
	"shipping-system/pkg/filestorage"
	"shipping-system/pkg/mailer"
	"shipping-system/pkg/utils"
)

type RouterTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	pool       *pgxpool.Pool
	Echo       *echo.Echo
	Dispatcher *listeners.OutboxDispatcher
	CustomerID string
}

func (s *RouterTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shipping-router-test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	if err != nil {
		s.T().Skipf("postgres container unavailable: %v", err)
	}
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	pool, err := postgresql.ConnectDB(ctx, dsn)
	s.Require().NoError(err)
	s.Require().NoError(migrations.Up(ctx, pool))
	s.pool = pool

	customerID, err := repositories.NewParticipantRepository(pool, zap.NewNop()).UpsertCustomer(ctx, nil, entities.CustomerAccount{
		FullName: "Jane Doe",
		Email:    null.StringFrom("jane@example.com"),
	})
	s.Require().NoError(err)
	s.CustomerID = customerID

	e := echo.New()
	v := validator.New()
	customvalidator.RegisterCustomValidations(v)
	e.Validator = utils.NewValidator(v)

	cfg := config.New()
	cfg.Storage.Path = s.T().TempDir()
	logger := zap.NewNop()
	files, err := filestorage.NewLocalFileStorage(cfg.Storage.Path, cfg.Storage.PublicURL)
	s.Require().NoError(err)
	renderer, err := mailer.NewRenderer(mailer.DefaultCompany)
	s.Require().NoError(err)
	s.Dispatcher = InitRouter(e, Dependencies{
		DB:        pool,
		Bus:       eventbus.New(logger),
		Mailer:    mailer.NewDemoMailer(logger),
		WhatsApp:  mailer.NewDemoWhatsApp(logger),
		Renderer:  renderer,
		Publisher: broker.NewLogPublisher(logger),
		Files:     files,
	}, NewLoggers(logger), cfg)
	s.Echo = e
}

func (s *RouterTestSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RouterTestSuite) post(path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (s *RouterTestSuite) TestWorkflowLifecycle() {
	tn := "CE-" + uuid.NewString()[:8]

	rec, out := s.post("/functions/v1/workflow-orchestrator", map[string]interface{}{
		"action":         "create_workflow",
		"trackingNumber": tn,
		"customerId":     s.CustomerID,
	}, map[string]string{"Idempotency-Key": "router-" + tn})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	data := out["data"].(map[string]interface{})
	s.Equal("Workflow created successfully with cross-connection", data["message"])

	// The queued customer notification goes out through the dispatcher.
	s.GreaterOrEqual(s.Dispatcher.Drain(context.Background()), 1)

	rec, out = s.post("/functions/v1/workflow-orchestrator", map[string]interface{}{
		"action":         "get_unified_timeline",
		"trackingNumber": tn,
	}, nil)
	s.Equal(http.StatusOK, rec.Code)
	data = out["data"].(map[string]interface{})
	s.EqualValues(1, data["count"])
}

func (s *RouterTestSuite) TestUnknownAction() {
	rec, out := s.post("/functions/v1/package-consolidation", map[string]interface{}{"action": "explode"}, nil)
	s.Equal(http.StatusInternalServerError, rec.Code)
	errBody := out["error"].(map[string]interface{})
	s.Equal("Unknown action: explode", errBody["message"])
	s.Equal("UNKNOWN_ACTION", errBody["kind"])
}

func (s *RouterTestSuite) TestTrackUnknownShipment() {
	rec, out := s.post("/functions/v1/track-shipment", map[string]interface{}{"trackingNumber": "CE-NOPE"}, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("SHIPMENT_NOT_FOUND", out["error"].(map[string]interface{})["code"])
}

func (s *RouterTestSuite) TestPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/service-booking-system", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *RouterTestSuite) TestHealthz() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("ok", body["database"])
	s.Equal("disabled", body["cache"])
}

func (s *RouterTestSuite) TestInsightsExport() {
	req := httptest.NewRequest(http.MethodGet, "/api/insights/export", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "business_insights_"+time.Now().Format("2006-01-02"))
	s.NotZero(rec.Body.Len())
}

func (s *RouterTestSuite) TestTrackingInfoUnknownNumber() {
	rec, out := s.post("/functions/v1/get-tracking-info", map[string]interface{}{"tracking_number": "CE-NOPE"}, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	errBody := out["error"].(map[string]interface{})
	s.Equal("TRACKING_INFO_FAILED", errBody["code"])
	s.Equal("Tracking number not found", errBody["message"])
}

func (s *RouterTestSuite) TestStaffShipments() {
	rec, out := s.post("/functions/v1/get-staff-shipments", map[string]interface{}{"status_filter": "all"}, nil)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	data := out["data"].(map[string]interface{})
	s.Contains(data, "shipments")
	s.Contains(data, "stats")
}

func (s *RouterTestSuite) TestSendWhatsAppDemo() {
	rec, out := s.post("/functions/v1/send-whatsapp-notification", map[string]interface{}{
		"phoneNumber": "18765550100",
		"message":     "Your package is ready",
		"customerId":  s.CustomerID,
	}, nil)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("demo", out["data"].(map[string]interface{})["status"])
}

func (s *RouterTestSuite) TestManageAccountNeedsSubject() {
	rec, out := s.post("/functions/v1/manage-customer-account", map[string]interface{}{"action": "get_account"}, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("UNAUTHORIZED", out["error"].(map[string]interface{})["code"])
}

func (s *RouterTestSuite) TestUploadPackagePhoto() {
	tn := "CE-" + uuid.NewString()[:8]
	shipmentRepo := repositories.NewShipmentRepository(s.pool, zap.NewNop())
	s.Require().NoError(shipmentRepo.CreateShipment(context.Background(), nil, entities.Shipment{
		TrackingNumber: tn, CustomerName: "Jane Doe", DestinationAddress: "1 King St",
		DestinationCountry: "Jamaica", PackageType: "box", ServiceType: "standard", Status: entities.ShipmentStatusReceived,
	}))
	shipment, err := shipmentRepo.FindByTrackingNumber(context.Background(), nil, tn)
	s.Require().NoError(err)

	// Larger than the 1M default limit, well under the upload limit.
	photo := bytes.Repeat([]byte{0xff}, 1<<20+512)
	rec, out := s.post("/functions/v1/upload-package-photo", map[string]interface{}{
		"imageData":  "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(photo),
		"fileName":   "front.jpg",
		"shipmentId": shipment.ID,
		"photoType":  "received",
	}, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	data := out["data"].(map[string]interface{})
	publicURL := data["publicUrl"].(string)
	s.Contains(publicURL, "/uploads/package-photos/"+shipment.ID+"/received/")
	s.EqualValues(len(photo), data["photo"].(map[string]interface{})["file_size"])

	req := httptest.NewRequest(http.MethodGet, publicURL, nil)
	got := httptest.NewRecorder()
	s.Echo.ServeHTTP(got, req)
	s.Equal(http.StatusOK, got.Code)
	s.Equal(len(photo), got.Body.Len())
}

func (s *RouterTestSuite) TestDefaultBodyLimitStillApplies() {
	rec, _ := s.post("/functions/v1/send-email-notification", map[string]interface{}{
		"toEmail":     "jane@example.com",
		"subject":     "big",
		"textContent": strings.Repeat("x", 2<<20),
	}, nil)
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
