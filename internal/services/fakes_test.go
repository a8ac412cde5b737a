package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/mailer"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeWorkflowRepo struct {
	mu        sync.Mutex
	byTN      map[string]*entities.WorkflowInstance
	createErr error
}

func newFakeWorkflowRepo() *fakeWorkflowRepo {
	return &fakeWorkflowRepo{byTN: make(map[string]*entities.WorkflowInstance)}
}

func (r *fakeWorkflowRepo) CreateWorkflow(_ context.Context, _ pgx.Tx, w entities.WorkflowInstance) (*entities.WorkflowInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.byTN[w.TrackingNumber]; ok {
		return nil, apperrors.ErrAlreadyExists
	}
	w.ID = uuid.NewString()
	w.CreatedAt, w.UpdatedAt = w.IntakeAt, w.IntakeAt
	r.byTN[w.TrackingNumber] = &w
	out := w
	return &out, nil
}

func (r *fakeWorkflowRepo) FindByTrackingNumber(_ context.Context, _ pgx.Tx, tn string) (*entities.WorkflowInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byTN[tn]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *w
	return &out, nil
}

func (r *fakeWorkflowRepo) AssignStaff(_ context.Context, _ pgx.Tx, tn, staffID string, at time.Time) (*entities.WorkflowInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byTN[tn]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	w.AssignedStaffID = null.StringFrom(staffID)
	w.AssignedAt = null.TimeFrom(at)
	w.WorkflowStatus = entities.WorkflowStatusAssigned
	out := *w
	return &out, nil
}

func (r *fakeWorkflowRepo) UpdateStatus(_ context.Context, _ pgx.Tx, tn, status string, at time.Time) (*entities.WorkflowInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byTN[tn]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	w.WorkflowStatus = status
	w.UpdatedAt = at
	if status == entities.WorkflowStatusCompleted {
		w.CompletedAt = null.TimeFrom(at)
	}
	out := *w
	return &out, nil
}

func (r *fakeWorkflowRepo) MarkSynced(_ context.Context, _ pgx.Tx, workflowID, participantType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.byTN {
		if w.ID != workflowID {
			continue
		}
		switch participantType {
		case entities.ParticipantCustomer:
			w.IsCustomerNotified = true
		case entities.ParticipantStaff:
			w.IsStaffNotified = true
		default:
			w.IsBusinessUpdated = true
		}
		return nil
	}
	return apperrors.ErrNotFound
}

type fakeCommRepo struct {
	mu        sync.Mutex
	workflows *fakeWorkflowRepo
	items     []entities.CommunicationThread
}

func (r *fakeCommRepo) CreateCommunication(_ context.Context, _ pgx.Tx, c entities.CommunicationThread) (*entities.CommunicationThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	c.DeliveryStatus = entities.DeliveryPending
	c.CreatedAt = time.Now().Add(time.Duration(len(r.items)) * time.Millisecond)
	r.items = append(r.items, c)
	out := c
	return &out, nil
}

func (r *fakeCommRepo) find(id string) *entities.CommunicationThread {
	for i := range r.items {
		if r.items[i].ID == id {
			return &r.items[i]
		}
	}
	return nil
}

func (r *fakeCommRepo) FindCommunication(_ context.Context, _ pgx.Tx, id string) (*entities.CommunicationThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(id)
	if c == nil {
		return nil, apperrors.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *fakeCommRepo) MarkDelivered(_ context.Context, _ pgx.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(id)
	if c == nil {
		return apperrors.ErrNotFound
	}
	c.DeliveryStatus = entities.DeliverySent
	c.DeliveredAt = null.TimeFrom(time.Now())
	return nil
}

func (r *fakeCommRepo) MarkFailed(_ context.Context, _ pgx.Tx, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(id)
	if c == nil {
		return apperrors.ErrNotFound
	}
	c.DeliveryStatus = entities.DeliveryFailed
	c.DeliveryError = null.StringFrom(reason)
	return nil
}

func (r *fakeCommRepo) GetTimeline(_ context.Context, tn string) ([]entities.TimelineEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.workflows.byTN[tn]
	out := make([]entities.TimelineEntry, 0)
	if !ok {
		return out, nil
	}
	for _, c := range r.items {
		if c.WorkflowID != wf.ID {
			continue
		}
		out = append(out, entities.TimelineEntry{
			ID: c.ID, WorkflowID: c.WorkflowID, TrackingNumber: tn,
			ParticipantType: c.ParticipantType, ParticipantID: c.ParticipantID,
			MessageContent: c.MessageContent, MessageType: c.MessageType, Channel: c.Channel,
			CreatedAt: c.CreatedAt, DeliveryStatus: c.DeliveryStatus,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []entities.OutboxEvent
}

func (r *fakeOutboxRepo) Enqueue(_ context.Context, _ pgx.Tx, e entities.OutboxEvent) (*entities.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Status = entities.OutboxPending
	e.CreatedAt = time.Now()
	e.NextAttemptAt = e.CreatedAt
	r.events = append(r.events, e)
	out := e
	return &out, nil
}

func (r *fakeOutboxRepo) ClaimNext(_ context.Context, _ pgx.Tx, now time.Time) (*entities.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].Status == entities.OutboxPending && !r.events[i].NextAttemptAt.After(now) {
			out := r.events[i]
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeOutboxRepo) MarkSent(_ context.Context, _ pgx.Tx, id string, at time.Time) error {
	return r.update(id, func(e *entities.OutboxEvent) {
		e.Status = entities.OutboxSent
		e.ProcessedAt = null.TimeFrom(at)
	})
}

func (r *fakeOutboxRepo) MarkRetry(_ context.Context, _ pgx.Tx, id, reason string, next time.Time) error {
	return r.update(id, func(e *entities.OutboxEvent) {
		e.RetryCount++
		e.LastError = null.StringFrom(reason)
		e.NextAttemptAt = next
	})
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, _ pgx.Tx, id, reason string, at time.Time) error {
	return r.update(id, func(e *entities.OutboxEvent) {
		e.Status = entities.OutboxFailed
		e.RetryCount++
		e.LastError = null.StringFrom(reason)
		e.ProcessedAt = null.TimeFrom(at)
	})
}

func (r *fakeOutboxRepo) update(id string, fn func(*entities.OutboxEvent)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == id {
			fn(&r.events[i])
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeInsightsRepo struct {
	daily     []entities.DailyRevenue
	staff     []entities.StaffPerformance
	customers []entities.CustomerInsight
	err       error
	calls     int
	mu        sync.Mutex
}

func (r *fakeInsightsRepo) GetDailyRevenue(context.Context) ([]entities.DailyRevenue, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.daily, r.err
}

func (r *fakeInsightsRepo) GetStaffPerformance(context.Context) ([]entities.StaffPerformance, error) {
	return r.staff, nil
}

func (r *fakeInsightsRepo) GetCustomerInsights(context.Context) ([]entities.CustomerInsight, error) {
	return r.customers, nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprint(stringify(value))
	return nil
}

func (c *fakeCache) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = stringify(value)
	return true, nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }

func stringify(v interface{}) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}

type fakeConsolidationRepo struct {
	mu       sync.Mutex
	requests map[string]*entities.ConsolidationRequest
	items    []entities.ConsolidationItem
	locks    int
}

func newFakeConsolidationRepo() *fakeConsolidationRepo {
	return &fakeConsolidationRepo{requests: make(map[string]*entities.ConsolidationRequest)}
}

func (r *fakeConsolidationRepo) CreateRequest(_ context.Context, _ pgx.Tx, req entities.ConsolidationRequest) (*entities.ConsolidationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	r.requests[req.ID] = &req
	out := req
	return &out, nil
}

func (r *fakeConsolidationRepo) LockRequest(_ context.Context, _ pgx.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return apperrors.ErrNotFound
	}
	r.locks++
	return nil
}

func (r *fakeConsolidationRepo) AddItem(_ context.Context, _ pgx.Tx, item entities.ConsolidationItem) (*entities.ConsolidationItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.NewString()
	r.items = append(r.items, item)
	out := item
	return &out, nil
}

func (r *fakeConsolidationRepo) RemoveItem(_ context.Context, _ pgx.Tx, itemID, requestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if item.ID == itemID && item.ConsolidationRequestID == requestID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeConsolidationRepo) SumItems(_ context.Context, _ pgx.Tx, requestID string) (int, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	var w float64
	for _, item := range r.items {
		if item.ConsolidationRequestID != requestID {
			continue
		}
		n++
		if item.WeightLbs.Valid {
			w += item.WeightLbs.Float64
		}
	}
	return n, w, nil
}

func (r *fakeConsolidationRepo) UpdateTotals(_ context.Context, _ pgx.Tx, requestID string, totals entities.ConsolidationTotals) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.TotalPackages = totals.TotalPackages
	req.TotalWeight = totals.TotalWeight
	req.EstimatedSavings = totals.EstimatedSavings
	return nil
}

func (r *fakeConsolidationRepo) GetCustomerConsolidations(_ context.Context, customerID string) ([]entities.ConsolidationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.ConsolidationRequest, 0)
	for _, req := range r.requests {
		if req.CustomerID == customerID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeConsolidationRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id, status string, shipmentID null.String) (*entities.ConsolidationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	req.Status = status
	if shipmentID.Valid {
		req.ConsolidatedShipmentID = shipmentID
	}
	out := *req
	return &out, nil
}

type fakeShipmentRepo struct {
	mu         sync.Mutex
	shipments  map[string]*entities.Shipment
	events     []entities.TrackingEvent
	scans      []entities.ScanLog
	lastFilter entities.ShipmentFilter
	countErr   error
}

func newFakeShipmentRepo(shipments ...entities.Shipment) *fakeShipmentRepo {
	r := &fakeShipmentRepo{shipments: make(map[string]*entities.Shipment)}
	for i := range shipments {
		s := shipments[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		r.shipments[s.TrackingNumber] = &s
	}
	return r
}

func (r *fakeShipmentRepo) CreateShipment(_ context.Context, _ pgx.Tx, s entities.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shipments[s.TrackingNumber]; !ok {
		s.ID = uuid.NewString()
		r.shipments[s.TrackingNumber] = &s
	}
	return nil
}

func (r *fakeShipmentRepo) FindByTrackingNumber(_ context.Context, _ pgx.Tx, tn string) (*entities.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shipments[tn]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (r *fakeShipmentRepo) FindByID(_ context.Context, _ pgx.Tx, id string) (*entities.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shipments {
		if s.ID == id {
			out := *s
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeShipmentRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id, status string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shipments {
		if s.ID == id {
			s.Status = status
			if status == entities.ShipmentStatusShipped {
				s.ShippedAt = null.TimeFrom(at)
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeShipmentRepo) GetTrackingEvents(_ context.Context, shipmentID string) ([]entities.TrackingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.TrackingEvent, 0)
	for _, e := range r.events {
		if e.ShipmentID == shipmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeShipmentRepo) CreateTrackingEvent(_ context.Context, _ pgx.Tx, e entities.TrackingEvent) (*entities.TrackingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	r.events = append(r.events, e)
	out := e
	return &out, nil
}

func (r *fakeShipmentRepo) CreateScanLog(_ context.Context, _ pgx.Tx, s entities.ScanLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans = append(r.scans, s)
	return nil
}

func (r *fakeShipmentRepo) GetAvailableForConsolidation(_ context.Context, email string) ([]entities.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Shipment, 0)
	for _, s := range r.shipments {
		if s.CustomerEmail.String == email && s.Status == entities.ShipmentStatusReceived {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeShipmentRepo) ListShipments(_ context.Context, f entities.ShipmentFilter) ([]entities.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f
	out := make([]entities.Shipment, 0)
	for _, s := range r.shipments {
		if f.Status != "" && f.Status != "all" && s.Status != f.Status {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset >= uint64(len(out)) {
		return []entities.Shipment{}, nil
	}
	out = out[f.Offset:]
	if f.Limit < uint64(len(out)) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeShipmentRepo) CountOpenByStatus(context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return nil, r.countErr
	}
	counts := make(map[string]int)
	for _, s := range r.shipments {
		if s.Status != entities.ShipmentStatusDelivered {
			counts[s.Status]++
		}
	}
	return counts, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []entities.ServiceBooking
	taken    map[string]bool
	locked   []string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{taken: make(map[string]bool)}
}

func (r *fakeBookingRepo) LockDate(_ context.Context, _ pgx.Tx, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = append(r.locked, date)
	return nil
}

func (r *fakeBookingRepo) GetBookedSlots(_ context.Context, _ pgx.Tx, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0)
	for _, b := range r.bookings {
		if b.BookingDate == date && b.Status != entities.BookingStatusCancelled {
			out = append(out, b.TimeSlot)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CreateBooking(_ context.Context, _ pgx.Tx, b entities.ServiceBooking) (*entities.ServiceBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken[b.ConfirmationNumber] {
		return nil, repositories.ErrConfirmationTaken
	}
	r.taken[b.ConfirmationNumber] = true
	b.ID = uuid.NewString()
	r.bookings = append(r.bookings, b)
	out := b
	return &out, nil
}

func (r *fakeBookingRepo) GetCustomerBookings(_ context.Context, customerID string) ([]entities.ServiceBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.ServiceBooking, 0)
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetAllBookings(context.Context) ([]entities.BookingWithCustomer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.BookingWithCustomer, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, entities.BookingWithCustomer{ServiceBooking: b, CustomerName: "Unknown Customer"})
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ pgx.Tx, id, status string) (*entities.ServiceBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].Status = status
			out := r.bookings[i]
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakeNotificationLogRepo struct {
	mu   sync.Mutex
	logs []entities.NotificationLog
	txs  []pgx.Tx
}

func (r *fakeNotificationLogRepo) CreateLog(_ context.Context, tx pgx.Tx, l entities.NotificationLog) (*entities.NotificationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, tx)
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	r.logs = append(r.logs, l)
	out := l
	return &out, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	demo bool
	err  error
	sent []mailer.Email
}

func (m *fakeMailer) Send(_ context.Context, e mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func (m *fakeMailer) Demo() bool { return m.demo }

type fakeWhatsApp struct {
	mu   sync.Mutex
	demo bool
	err  error
	sent []mailer.WhatsAppMessage
}

func (w *fakeWhatsApp) SendWhatsApp(_ context.Context, msg mailer.WhatsAppMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.sent = append(w.sent, msg)
	return nil
}

func (w *fakeWhatsApp) Demo() bool { return w.demo }

// stubTx stands in for a live transaction; fakes only compare it.
type stubTx struct{ pgx.Tx }

func newTestOutbox(repo *fakeOutboxRepo) *Outbox {
	return NewOutbox(repo, nil, zap.NewNop())
}

type fakeParticipantRepo struct {
	mu        sync.Mutex
	accounts  map[string]*entities.CustomerAccount
	addresses []entities.CustomerAddress
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{accounts: make(map[string]*entities.CustomerAccount)}
}

func (r *fakeParticipantRepo) FindCustomer(_ context.Context, _ pgx.Tx, id string) (*entities.CustomerAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ID == id {
			out := *a
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeParticipantRepo) FindCustomerByUserID(_ context.Context, _ pgx.Tx, userID string) (*entities.CustomerAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *fakeParticipantRepo) CreateCustomerAccount(_ context.Context, _ pgx.Tx, c entities.CustomerAccount) (*entities.CustomerAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[c.UserID.String]; ok {
		return nil, fmt.Errorf("failed to create customer account: %w", apperrors.ErrAlreadyExists)
	}
	c.ID = uuid.NewString()
	c.IsActive = true
	r.accounts[c.UserID.String] = &c
	out := c
	return &out, nil
}

func (r *fakeParticipantRepo) UpdateCustomerAccount(_ context.Context, _ pgx.Tx, userID string, p entities.CustomerAccountPatch, at time.Time) (*entities.CustomerAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if p.FullName != nil {
		a.FullName = *p.FullName
	}
	if p.Phone != nil {
		a.Phone = null.StringFrom(*p.Phone)
	}
	if p.WhatsAppNotifications != nil {
		a.WhatsAppNotifications = *p.WhatsAppNotifications
	}
	if p.EmailNotifications != nil {
		a.EmailNotifications = *p.EmailNotifications
	}
	if p.SMSNotifications != nil {
		a.SMSNotifications = *p.SMSNotifications
	}
	a.UpdatedAt = at
	out := *a
	return &out, nil
}

func (r *fakeParticipantRepo) FindStaff(context.Context, pgx.Tx, string) (*entities.StaffUser, error) {
	return nil, apperrors.ErrNotFound
}

func (r *fakeParticipantRepo) UpsertCustomer(context.Context, pgx.Tx, entities.CustomerAccount) (string, error) {
	return "", nil
}

func (r *fakeParticipantRepo) UpsertStaff(context.Context, pgx.Tx, entities.StaffUser) (string, error) {
	return "", nil
}

func (r *fakeParticipantRepo) ListAddresses(_ context.Context, customerID string) ([]entities.CustomerAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.CustomerAddress, 0)
	for _, a := range r.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) CreateAddress(_ context.Context, _ pgx.Tx, a entities.CustomerAddress) (*entities.CustomerAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.NewString()
	r.addresses = append(r.addresses, a)
	out := a
	return &out, nil
}

func (r *fakeParticipantRepo) UpdateAddress(_ context.Context, _ pgx.Tx, customerID, addressID string, p entities.CustomerAddressPatch, at time.Time) (*entities.CustomerAddress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.addresses {
		a := &r.addresses[i]
		if a.ID != addressID || a.CustomerID != customerID {
			continue
		}
		if p.City != nil {
			a.City = *p.City
		}
		if p.IsDefault != nil {
			a.IsDefault = *p.IsDefault
		}
		a.UpdatedAt = at
		out := *a
		return &out, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeParticipantRepo) DeleteAddress(_ context.Context, _ pgx.Tx, customerID, addressID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.addresses {
		if a.ID == addressID && a.CustomerID == customerID {
			r.addresses = append(r.addresses[:i], r.addresses[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeParticipantRepo) ClearDefaultAddress(_ context.Context, _ pgx.Tx, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.addresses {
		if r.addresses[i].CustomerID == customerID {
			r.addresses[i].IsDefault = false
		}
	}
	return nil
}
