package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/services"
	"shipping-system/pkg/contextkeys"
	"shipping-system/pkg/customvalidator"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/utils"
)

type stubWorkflowService struct {
	services.WorkflowServiceInterface
	created dto.CreateWorkflowDTO
	err     error
}

func (s *stubWorkflowService) CreateWorkflow(ctx context.Context, in dto.CreateWorkflowDTO) (*dto.WorkflowResultDTO, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.WorkflowResultDTO{
		Workflow: &entities.WorkflowInstance{TrackingNumber: in.TrackingNumber},
		Message:  "Workflow created successfully with cross-connection",
	}, nil
}

type stubConsolidationService struct {
	services.ConsolidationServiceInterface
	created dto.CreateConsolidationDTO
}

func (s *stubConsolidationService) CreateRequest(ctx context.Context, in dto.CreateConsolidationDTO) (*entities.ConsolidationRequest, error) {
	s.created = in
	return &entities.ConsolidationRequest{ID: "req-1", DestinationCountry: in.DestinationCountry}, nil
}

type stubTrackingService struct {
	err error
}

func (s *stubTrackingService) Track(ctx context.Context, in dto.TrackShipmentDTO) (*dto.TrackShipmentResultDTO, error) {
	return nil, s.err
}

func (s *stubTrackingService) UpdateStatus(ctx context.Context, in dto.UpdateTrackingStatusDTO) (*dto.UpdateTrackingResultDTO, error) {
	return nil, s.err
}

func (s *stubTrackingService) TrackingInfo(ctx context.Context, in dto.TrackingInfoDTO) (*dto.TrackingInfoResultDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TrackingInfoResultDTO{Shipment: entities.Shipment{TrackingNumber: in.TrackingNumber}}, nil
}

type stubAccountService struct {
	services.AccountServiceInterface
	userID  string
	updated dto.UpdateAccountDTO
	address dto.AddressDTO
}

func (s *stubAccountService) GetAccount(ctx context.Context, userID string) (*entities.CustomerAccount, error) {
	s.userID = userID
	return &entities.CustomerAccount{ID: "cust-1", FullName: "Jane Brown"}, nil
}

func (s *stubAccountService) UpdateAccount(ctx context.Context, userID string, in dto.UpdateAccountDTO) (*entities.CustomerAccount, error) {
	s.userID, s.updated = userID, in
	return &entities.CustomerAccount{ID: "cust-1", FullName: *in.FullName}, nil
}

func (s *stubAccountService) DeleteAddress(ctx context.Context, userID string, in dto.AddressDTO) (*dto.DeleteAddressResultDTO, error) {
	s.userID, s.address = userID, in
	return &dto.DeleteAddressResultDTO{Success: true}, nil
}

type stubUploadService struct {
	subject string
	photo   dto.UploadPhotoDTO
	err     error
}

func (s *stubUploadService) UploadPackagePhoto(ctx context.Context, takenBy string, in dto.UploadPhotoDTO) (*dto.UploadPhotoResultDTO, error) {
	s.subject, s.photo = takenBy, in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.UploadPhotoResultDTO{PublicURL: "/uploads/package-photos/x.jpg"}, nil
}

func (s *stubUploadService) UploadCustomerDocument(ctx context.Context, userID string, in dto.UploadDocumentDTO) (*dto.UploadDocumentResultDTO, error) {
	s.subject = userID
	if s.err != nil {
		return nil, s.err
	}
	return &dto.UploadDocumentResultDTO{PublicURL: "/uploads/customer-documents/x.pdf"}, nil
}

type stubStaffShipmentService struct {
	in  dto.StaffShipmentsDTO
	err error
}

func (s *stubStaffShipmentService) List(ctx context.Context, in dto.StaffShipmentsDTO) (*dto.StaffShipmentsResultDTO, error) {
	s.in = in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.StaffShipmentsResultDTO{Stats: dto.ShipmentStatsDTO{Total: 3, Shipped: 3}}, nil
}

type stubNotificationService struct {
	services.NotificationServiceInterface
	whatsApp dto.SendWhatsAppDTO
	err      error
}

func (s *stubNotificationService) SendWhatsApp(ctx context.Context, in dto.SendWhatsAppDTO) (*dto.SendWhatsAppResultDTO, error) {
	s.whatsApp = in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SendWhatsAppResultDTO{Status: entities.NotificationSent, Message: "WhatsApp notification sent successfully"}, nil
}

type stubExportService struct {
	err error
}

func (s *stubExportService) BuildWorkbook(ctx context.Context) (*excelize.File, error) {
	if s.err != nil {
		return nil, s.err
	}
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Total workflows")
	return f, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func newTestEcho() *echo.Echo {
	e := echo.New()
	v := validator.New()
	customvalidator.RegisterCustomValidations(v)
	e.Validator = utils.NewValidator(v)
	return e
}

func serve(e *echo.Echo, h echo.HandlerFunc, method, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func errorBody(t *testing.T, out map[string]interface{}) map[string]interface{} {
	t.Helper()
	body, ok := out["error"].(map[string]interface{})
	require.True(t, ok, "missing error envelope: %v", out)
	return body
}

func TestWorkflowController_ActionErrors(t *testing.T) {
	e := newTestEcho()
	c := NewWorkflowController(&stubWorkflowService{}, zap.NewNop())

	tests := []struct {
		name    string
		body    string
		message string
		kind    string
	}{
		{"missing action", `{}`, "Action is required", "VALIDATION_ERROR"},
		{"empty body", ``, "Action is required", "VALIDATION_ERROR"},
		{"non-string action", `{"action": 7}`, "Action must be a string", "VALIDATION_ERROR"},
		{"unknown action", `{"action": "archive"}`, "Unknown action: archive", "UNKNOWN_ACTION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := serve(e, c.Handle, http.MethodPost, tt.body, nil)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := errorBody(t, out)
			assert.Equal(t, "WORKFLOW_ORCHESTRATOR_FAILED", body["code"])
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, tt.kind, body["kind"])
		})
	}
}

func TestWorkflowController_InvalidJSON(t *testing.T) {
	e := newTestEcho()
	c := NewWorkflowController(&stubWorkflowService{}, zap.NewNop())

	rec, out := serve(e, c.Handle, http.MethodPost, `{"action":`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(errorBody(t, out)["message"].(string), "Invalid JSON body"))
}

func TestWorkflowController_CreateUsesHeaderKey(t *testing.T) {
	e := newTestEcho()
	svc := &stubWorkflowService{}
	c := NewWorkflowController(svc, zap.NewNop())

	rec, out := serve(e, c.Handle, http.MethodPost,
		`{"action":"create_workflow","trackingNumber":"CE1","customerId":"cust-1"}`,
		map[string]string{"Idempotency-Key": "abc"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", svc.created.IdempotencyKey)
	assert.Equal(t, "CE1", svc.created.TrackingNumber)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "Workflow created successfully with cross-connection", data["message"])
}

func TestWorkflowController_BodyKeyWinsOverHeader(t *testing.T) {
	e := newTestEcho()
	svc := &stubWorkflowService{}
	c := NewWorkflowController(svc, zap.NewNop())

	_, _ = serve(e, c.Handle, http.MethodPost,
		`{"action":"create_workflow","trackingNumber":"CE1","customerId":"cust-1","idempotencyKey":"body"}`,
		map[string]string{"Idempotency-Key": "header"})

	assert.Equal(t, "body", svc.created.IdempotencyKey)
}

func TestWorkflowController_ValidationAndServiceErrors(t *testing.T) {
	e := newTestEcho()

	rec, out := serve(e, NewWorkflowController(&stubWorkflowService{}, zap.NewNop()).Handle, http.MethodPost,
		`{"action":"create_workflow","trackingNumber":"CE1"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorBody(t, out)["kind"])

	svc := &stubWorkflowService{err: apperrors.NewPersistenceError(errors.New("boom"), "Failed to create workflow instance")}
	rec, out = serve(e, NewWorkflowController(svc, zap.NewNop()).Handle, http.MethodPost,
		`{"action":"create_workflow","trackingNumber":"CE1","customerId":"cust-1"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "PERSISTENCE_ERROR", errorBody(t, out)["kind"])
}

func TestConsolidationController_ReadsSection(t *testing.T) {
	e := newTestEcho()
	svc := &stubConsolidationService{}
	c := NewConsolidationController(svc, zap.NewNop())

	rec, out := serve(e, c.Handle, http.MethodPost,
		`{"action":"create_consolidation_request","consolidationData":{"customerId":"cust-1","destinationCountry":"Jamaica"}}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jamaica", svc.created.DestinationCountry)
	assert.Equal(t, "req-1", out["data"].(map[string]interface{})["id"])
}

func TestConsolidationController_MissingSectionFailsValidation(t *testing.T) {
	e := newTestEcho()
	c := NewConsolidationController(&stubConsolidationService{}, zap.NewNop())

	rec, out := serve(e, c.Handle, http.MethodPost, `{"action":"create_consolidation_request","consolidationData":null}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := errorBody(t, out)
	assert.Equal(t, "CONSOLIDATION_FAILED", body["code"])
	assert.Equal(t, "VALIDATION_ERROR", body["kind"])
}

func TestTrackingController_NotFound(t *testing.T) {
	e := newTestEcho()
	c := NewTrackingController(&stubTrackingService{err: services.ErrShipmentNotFound}, zap.NewNop())

	rec, out := serve(e, c.Track, http.MethodPost, `{"trackingNumber":"CE-NOPE"}`, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := errorBody(t, out)
	assert.Equal(t, "SHIPMENT_NOT_FOUND", body["code"])
	assert.Equal(t, services.ErrShipmentNotFound.Error(), body["message"])
}

func TestTrackingController_UpdateFailure(t *testing.T) {
	e := newTestEcho()
	c := NewTrackingController(&stubTrackingService{err: apperrors.NewValidationError("Tracking number and new status are required")}, zap.NewNop())

	rec, out := serve(e, c.UpdateStatus, http.MethodPost, `{}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := errorBody(t, out)
	assert.Equal(t, "UPDATE_TRACKING_FAILED", body["code"])
	assert.Equal(t, "Tracking number and new status are required", body["message"])
}

func TestTrackingController_TrackingInfo(t *testing.T) {
	e := newTestEcho()
	c := NewTrackingController(&stubTrackingService{}, zap.NewNop())

	rec, out := serve(e, c.TrackingInfo, http.MethodPost, `{"tracking_number":"CE1001"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	shipment := out["data"].(map[string]interface{})["shipment"].(map[string]interface{})
	assert.Equal(t, "CE1001", shipment["tracking_number"])
}

func TestTrackingController_TrackingInfoFailuresAreBadRequests(t *testing.T) {
	e := newTestEcho()

	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"missing number", apperrors.NewValidationError("Tracking number is required"), "VALIDATION_ERROR"},
		{"unknown number", apperrors.NewValidationError("Tracking number not found"), "VALIDATION_ERROR"},
		{"store down", apperrors.NewPersistenceError(errors.New("db down"), "Failed to load shipment"), "PERSISTENCE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewTrackingController(&stubTrackingService{err: tt.err}, zap.NewNop())

			rec, out := serve(e, c.TrackingInfo, http.MethodPost, `{"tracking_number":"CE1001"}`, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := errorBody(t, out)
			assert.Equal(t, "TRACKING_INFO_FAILED", body["code"])
			assert.Equal(t, tt.kind, body["kind"])
		})
	}
}

func TestTrackingController_TrackingInfoRejectsInvalidPayload(t *testing.T) {
	e := newTestEcho()
	c := NewTrackingController(&stubTrackingService{}, zap.NewNop())

	rec, out := serve(e, c.TrackingInfo, http.MethodPost, `{"tracking_number":"`+strings.Repeat("9", 300)+`"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorBody(t, out)["kind"])
}

func TestStaffShipmentController_List(t *testing.T) {
	e := newTestEcho()
	svc := &stubStaffShipmentService{}
	c := NewStaffShipmentController(svc, zap.NewNop())

	rec, out := serve(e, c.List, http.MethodPost, `{"status_filter":"shipped","search_term":"jane","limit":10}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", svc.in.StatusFilter)
	assert.Equal(t, "jane", svc.in.SearchTerm)
	require.NotNil(t, svc.in.Limit)
	assert.Equal(t, 10, *svc.in.Limit)
	stats := out["data"].(map[string]interface{})["stats"].(map[string]interface{})
	assert.EqualValues(t, 3, stats["shipped"])
}

func TestStaffShipmentController_RejectsOversizedPage(t *testing.T) {
	e := newTestEcho()
	c := NewStaffShipmentController(&stubStaffShipmentService{}, zap.NewNop())

	rec, out := serve(e, c.List, http.MethodPost, `{"limit":5000}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := errorBody(t, out)
	assert.Equal(t, "GET_SHIPMENTS_FAILED", body["code"])
	assert.Equal(t, "VALIDATION_ERROR", body["kind"])
}

func TestNotificationController_SendWhatsApp(t *testing.T) {
	e := newTestEcho()
	svc := &stubNotificationService{}
	c := NewNotificationController(svc, zap.NewNop())

	rec, out := serve(e, c.SendWhatsApp, http.MethodPost,
		`{"phoneNumber":"18765550100","message":"Your package is ready","customerId":"cust-1"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "18765550100", svc.whatsApp.PhoneNumber)
	assert.Equal(t, "cust-1", svc.whatsApp.CustomerID)
	assert.Equal(t, "sent", out["data"].(map[string]interface{})["status"])
}

func TestNotificationController_SendWhatsAppFailure(t *testing.T) {
	e := newTestEcho()
	c := NewNotificationController(&stubNotificationService{err: apperrors.NewValidationError("Phone number and message are required")}, zap.NewNop())

	rec, out := serve(e, c.SendWhatsApp, http.MethodPost, `{}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := errorBody(t, out)
	assert.Equal(t, "WHATSAPP_NOTIFICATION_FAILED", body["code"])
	assert.Equal(t, "Phone number and message are required", body["message"])
}

func serveAs(e *echo.Echo, h echo.HandlerFunc, subject, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if subject != "" {
		req = req.WithContext(context.WithValue(req.Context(), contextkeys.SubjectKey, subject))
	}
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))

	var out map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

const testSubject = "9b2f6c1e-4d1a-4b8e-9a55-0c1d2e3f4a5b"

func TestAccountController_RequiresSubject(t *testing.T) {
	e := newTestEcho()
	svc := &stubAccountService{}
	c := NewAccountController(svc, zap.NewNop())

	rec, out := serveAs(e, c.Handle, "", `{"action":"get_account"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorBody(t, out)["code"])
	assert.Empty(t, svc.userID)
}

func TestAccountController_ScopesActionsToSubject(t *testing.T) {
	e := newTestEcho()
	svc := &stubAccountService{}
	c := NewAccountController(svc, zap.NewNop())

	rec, out := serveAs(e, c.Handle, testSubject, `{"action":"get_account"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testSubject, svc.userID)
	assert.Equal(t, "cust-1", out["data"].(map[string]interface{})["id"])

	rec, out = serveAs(e, c.Handle, testSubject, `{"action":"update_account","accountData":{"full_name":"Jane B. Brown","sms_notifications":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated.SMSNotifications)
	assert.True(t, *svc.updated.SMSNotifications)
	assert.Equal(t, "Jane B. Brown", out["data"].(map[string]interface{})["full_name"])

	rec, out = serveAs(e, c.Handle, testSubject, `{"action":"delete_address","accountData":{"addressId":"6f1c2b9e-8a7d-4c3b-9e21-5d4c3b2a1f00"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "6f1c2b9e-8a7d-4c3b-9e21-5d4c3b2a1f00", svc.address.AddressID)
	assert.Equal(t, true, out["data"].(map[string]interface{})["success"])
}

func TestAccountController_Errors(t *testing.T) {
	e := newTestEcho()
	c := NewAccountController(&stubAccountService{}, zap.NewNop())

	tests := []struct {
		name    string
		body    string
		message string
		kind    string
	}{
		{"unknown action", `{"action":"close_account"}`, "Unknown action: close_account", "UNKNOWN_ACTION"},
		{"bad address id", `{"action":"delete_address","accountData":{"addressId":"nope"}}`, "", "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := serveAs(e, c.Handle, testSubject, tt.body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := errorBody(t, out)
			assert.Equal(t, "ACCOUNT_MANAGEMENT_FAILED", body["code"])
			assert.Equal(t, tt.kind, body["kind"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}
}

func TestUploadController_PackagePhotoPassesSubject(t *testing.T) {
	e := newTestEcho()
	svc := &stubUploadService{}
	c := NewUploadController(svc, zap.NewNop())

	rec, out := serveAs(e, c.PackagePhoto, testSubject,
		`{"imageData":"data:image/jpeg;base64,AAAA","fileName":"a.jpg","shipmentId":"6f1c2b9e-8a7d-4c3b-9e21-5d4c3b2a1f00","photoType":"received"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testSubject, svc.subject)
	assert.Equal(t, "received", svc.photo.PhotoType)
	assert.Equal(t, "/uploads/package-photos/x.jpg", out["data"].(map[string]interface{})["publicUrl"])
}

func TestUploadController_Errors(t *testing.T) {
	e := newTestEcho()

	tests := []struct {
		name    string
		handler func(*UploadController) echo.HandlerFunc
		body    string
		err     error
		code    string
		kind    string
	}{
		{"photo type with a slash", func(c *UploadController) echo.HandlerFunc { return c.PackagePhoto },
			`{"photoType":"../etc"}`, nil, "PHOTO_UPLOAD_FAILED", "VALIDATION_ERROR"},
		{"document access denied", func(c *UploadController) echo.HandlerFunc { return c.CustomerDocument },
			`{}`, apperrors.NewValidationError("Access denied: Invalid customer ID or insufficient permissions"), "DOCUMENT_UPLOAD_FAILED", "VALIDATION_ERROR"},
		{"document storage failure", func(c *UploadController) echo.HandlerFunc { return c.CustomerDocument },
			`{}`, apperrors.NewPersistenceError(errors.New("disk full"), "Upload failed"), "DOCUMENT_UPLOAD_FAILED", "PERSISTENCE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewUploadController(&stubUploadService{err: tt.err}, zap.NewNop())

			rec, out := serveAs(e, tt.handler(c), testSubject, tt.body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := errorBody(t, out)
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.kind, body["kind"])
		})
	}
}

func TestInsightsController_Export(t *testing.T) {
	e := newTestEcho()
	c := NewInsightsController(&stubExportService{}, zap.NewNop())

	rec, _ := serve(e, c.Export, http.MethodGet, ``, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "business_insights_")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "spreadsheetml")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	v, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Total workflows", v)
}

func TestInsightsController_ExportFailure(t *testing.T) {
	e := newTestEcho()
	c := NewInsightsController(&stubExportService{err: errors.New("db down")}, zap.NewNop())

	rec, _ := serve(e, c.Export, http.MethodGet, ``, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthController_Check(t *testing.T) {
	e := newTestEcho()

	tests := []struct {
		name   string
		db     Pinger
		cache  Pinger
		status int
		body   map[string]string
	}{
		{"all up", stubPinger{}, stubPinger{}, http.StatusOK,
			map[string]string{"status": "ok", "database": "ok", "cache": "ok"}},
		{"no cache", stubPinger{}, nil, http.StatusOK,
			map[string]string{"status": "ok", "database": "ok", "cache": "disabled"}},
		{"cache down", stubPinger{}, stubPinger{err: errors.New("refused")}, http.StatusOK,
			map[string]string{"status": "degraded", "database": "ok", "cache": "unreachable"}},
		{"database down", stubPinger{err: errors.New("refused")}, nil, http.StatusServiceUnavailable,
			map[string]string{"status": "degraded", "database": "unreachable", "cache": "disabled"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewHealthController(tt.db, tt.cache, zap.NewNop())
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			require.NoError(t, c.Check(e.NewContext(req, rec)))

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.body, body)
		})
	}
}
