package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fadecraft/barbershop-api/internal/config"
	dbpkg "github.com/fadecraft/barbershop-api/internal/db"
	"github.com/fadecraft/barbershop-api/internal/models"
	"github.com/fadecraft/barbershop-api/internal/timezone"
	"github.com/fadecraft/barbershop-api/internal/validators"
)

// ======================================================
// TEST HARNESS
// ======================================================

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := validators.RegisterBindingValidations(); err != nil {
		t.Fatalf("validations: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}

	r := gin.New()
	RegisterRoutes(r, db, nil, cfg, zap.NewNop())
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		ErrorCode string `json:"error_code"`
	}
	decode(t, w, &body)
	return body.ErrorCode
}

func register(t *testing.T, r *gin.Engine, username, email string) (string, uint) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "secret123",
		"full_name": username,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, w.Code, w.Body.String())
	}

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, w, &body)
	return body.Token, body.User.ID
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, w.Code, w.Body.String())
	}

	var body struct {
		Token string `json:"token"`
	}
	decode(t, w, &body)
	return body.Token
}

func seedAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := dbpkg.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func barberByUsername(t *testing.T, db *gorm.DB, username string) *models.Barber {
	t.Helper()

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		t.Fatalf("find user %s: %v", username, err)
	}
	var barber models.Barber
	if err := db.Where("user_id = ?", user.ID).First(&barber).Error; err != nil {
		t.Fatalf("find barber of %s: %v", username, err)
	}
	return &barber
}

// futureDay returns a fixed far-future date anchored in the shop timezone so
// past-time rules never interfere.
func futureDay(h, m int) time.Time {
	return time.Date(2030, 5, 20, h, m, 0, 0, timezone.Location(""))
}

type slotStateJSON struct {
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	Kind        string          `json:"kind"`
	SlotID      *uint           `json:"slot_id"`
	Appointment json.RawMessage `json:"appointment"`
}

func scheduleView(t *testing.T, r *gin.Engine, token string, barberID uint) map[string]slotStateJSON {
	t.Helper()

	path := fmt.Sprintf("/api/time-slots/schedule?barberId=%d&date=2030-05-20", barberID)
	w := doJSON(t, r, http.MethodGet, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("schedule: %d %s", w.Code, w.Body.String())
	}

	var view []slotStateJSON
	decode(t, w, &view)

	byStart := make(map[string]slotStateJSON, len(view))
	for _, u := range view {
		byStart[u.Start.Format("15:04")] = u
	}
	return byStart
}

// ======================================================
// AUTH
// ======================================================

func TestAuthFlow(t *testing.T) {
	r, _ := setupAPI(t)

	token, _ := register(t, r, "anna", "anna@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}
	var me models.User
	decode(t, w, &me)
	if me.Email != "anna@example.com" || me.Role != models.RoleClient {
		t.Fatalf("me = %+v", me)
	}

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "anna@example.com", "password": "wrong-pass",
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_credentials" {
		t.Fatalf("bad login: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "anna", "email": "other@example.com", "password": "secret123",
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "user_already_exists" {
		t.Fatalf("duplicate register: %d %s", w.Code, w.Body.String())
	}
}

// ======================================================
// TIME SLOT GRID
// ======================================================

func TestTimeSlotListMaterializesDefaultGrid(t *testing.T) {
	r, db := setupAPI(t)
	seedAll(t, db)
	token, _ := register(t, r, "anna", "anna@example.com")
	barber := barberByUsername(t, db, "marco")

	path := fmt.Sprintf("/api/time-slots?barberId=%d&date=2030-05-20", barber.ID)

	w := doJSON(t, r, http.MethodGet, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	var first []models.TimeSlot
	decode(t, w, &first)
	if len(first) != 9 {
		t.Fatalf("got %d slots, want 9", len(first))
	}

	w = doJSON(t, r, http.MethodGet, path, token, nil)
	var second []models.TimeSlot
	decode(t, w, &second)
	if len(second) != 9 || second[0].ID != first[0].ID {
		t.Fatalf("grid not stable across calls: %d slots", len(second))
	}

	w = doJSON(t, r, http.MethodGet, "/api/time-slots?barberId=9999&date=2030-05-20", token, nil)
	if w.Code != http.StatusNotFound || errorCode(t, w) != "barber_not_found" {
		t.Fatalf("unknown barber: %d %s", w.Code, w.Body.String())
	}
}

// ======================================================
// BLOCK / UNBLOCK
// ======================================================

func TestBlockUnblockRoundTrip(t *testing.T) {
	r, db := setupAPI(t)
	seedAll(t, db)
	marco := barberByUsername(t, db, "marco")
	token := login(t, r, "marco@barbershop.com", "admin123")

	w := doJSON(t, r, http.MethodPost, "/api/time-slots", token, gin.H{
		"barberId":  marco.ID,
		"startTime": futureDay(15, 0).Format(time.RFC3339),
		"endTime":   futureDay(16, 0).Format(time.RFC3339),
		"isBooked":  true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("block: %d %s", w.Code, w.Body.String())
	}
	var block models.TimeSlot
	decode(t, w, &block)
	if !block.IsBooked || block.ID == 0 {
		t.Fatalf("block = %+v", block)
	}

	view := scheduleView(t, r, token, marco.ID)
	for _, hhmm := range []string{"15:00", "15:30"} {
		u := view[hhmm]
		if u.Kind != "blocked" {
			t.Fatalf("unit %s is %q, want blocked", hhmm, u.Kind)
		}
		if u.SlotID == nil || *u.SlotID != block.ID {
			t.Fatalf("unit %s does not reference block %d", hhmm, block.ID)
		}
	}
	if view["16:00"].Kind != "available" {
		t.Fatalf("unit at block end is %q, want available", view["16:00"].Kind)
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/time-slots/%d", block.ID), token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("unblock: %d %s", w.Code, w.Body.String())
	}

	view = scheduleView(t, r, token, marco.ID)
	if view["15:00"].Kind != "available" {
		t.Fatalf("unit after unblock is %q, want available", view["15:00"].Kind)
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/time-slots/%d", block.ID), token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleting twice: %d", w.Code)
	}
}

func TestUnblockGuardedByAppointment(t *testing.T) {
	r, db := setupAPI(t)
	seedAll(t, db)
	marco := barberByUsername(t, db, "marco")
	barberToken := login(t, r, "marco@barbershop.com", "admin123")
	clientToken, clientID := register(t, r, "anna", "anna@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/time-slots", barberToken, gin.H{
		"barberId":  marco.ID,
		"startTime": futureDay(15, 0).Format(time.RFC3339),
		"endTime":   futureDay(16, 0).Format(time.RFC3339),
		"isBooked":  true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("block: %d %s", w.Code, w.Body.String())
	}
	var block models.TimeSlot
	decode(t, w, &block)

	var svc models.Service
	if err := db.First(&svc).Error; err != nil {
		t.Fatal(err)
	}
	w = doJSON(t, r, http.MethodPost, "/api/appointments", clientToken, gin.H{
		"userId":    clientID,
		"barberId":  marco.ID,
		"serviceId": svc.ID,
		"date":      futureDay(15, 0).Format(time.RFC3339),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/time-slots/%d", block.ID), barberToken, nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "slot_has_appointment" {
		t.Fatalf("guarded delete: %d %s", w.Code, w.Body.String())
	}
}

func TestBlockValidation(t *testing.T) {
	r, db := setupAPI(t)
	seedAll(t, db)
	marco := barberByUsername(t, db, "marco")
	token := login(t, r, "marco@barbershop.com", "admin123")

	tests := []struct {
		name       string
		start, end time.Time
		wantCode   string
	}{
		{"past", futureDay(15, 0).AddDate(-10, 0, 0), futureDay(16, 0).AddDate(-10, 0, 0), "block_in_past"},
		{"too short", futureDay(15, 0), futureDay(15, 15), "block_too_short"},
		{"unaligned", futureDay(15, 0), futureDay(15, 50), "block_not_aligned"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/time-slots", token, gin.H{
				"barberId":  marco.ID,
				"startTime": tt.start.Format(time.RFC3339),
				"endTime":   tt.end.Format(time.RFC3339),
				"isBooked":  true,
			})
			if w.Code != http.StatusBadRequest || errorCode(t, w) != tt.wantCode {
				t.Fatalf("got %d %s, want 400 %s", w.Code, w.Body.String(), tt.wantCode)
			}
		})
	}

	// Blocking over an existing block is a conflict.
	w := doJSON(t, r, http.MethodPost, "/api/time-slots", token, gin.H{
		"barberId":  marco.ID,
		"startTime": futureDay(15, 0).Format(time.RFC3339),
		"endTime":   futureDay(16, 0).Format(time.RFC3339),
		"isBooked":  true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("block: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/time-slots", token, gin.H{
		"barberId":  marco.ID,
		"startTime": futureDay(15, 30).Format(time.RFC3339),
		"endTime":   futureDay(16, 0).Format(time.RFC3339),
		"isBooked":  true,
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "time_conflict" {
		t.Fatalf("overlapping block: %d %s", w.Code, w.Body.String())
	}
}

func TestTimeSlotPartialUpdate(t *testing.T) {
	r, db := setupAPI(t)
	seedAll(t, db)
	marco := barberByUsername(t, db, "marco")
	token := login(t, r, "marco@barbershop.com", "admin123")

	w := doJSON(t, r, http.MethodPost, "/api/time-slots", token, gin.H{
		"barberId":  marco.ID,
		"startTime": futureDay(15, 0).Format(time.RFC3339),
		"endTime":   futureDay(16, 0).Format(time.RFC3339),
		"isBooked":  true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("block: %d %s", w.Code, w.Body.String())
	}
	var block models.TimeSlot
	decode(t, w, &block)

	path := fmt.Sprintf("/api/time-slots/%d", block.ID)

	// Extend the end; the start is untouched.
	w = doJSON(t, r, http.MethodPatch, path, token, gin.H{
		"endTime": futureDay(16, 30).Format(time.RFC3339),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("extend: %d %s", w.Code, w.Body.String())
	}
	var updated models.TimeSlot
	decode(t, w, &updated)
	if !updated.EndTime.Equal(futureDay(16, 30)) {
		t.Fatalf("end = %v, want 16:30", updated.EndTime)
	}
	if !updated.StartTime.Equal(futureDay(15, 0)) || !updated.IsBooked {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	// Release the block by flipping the flag.
	w = doJSON(t, r, http.MethodPatch, path, token, gin.H{"isBooked": false})
	if w.Code != http.StatusOK {
		t.Fatalf("release: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &updated)
	if updated.IsBooked {
		t.Fatal("flag not cleared")
	}

	// An inverted range is rejected.
	w = doJSON(t, r, http.MethodPatch, path, token, gin.H{
		"endTime": futureDay(14, 0).Format(time.RFC3339),
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_range" {
		t.Fatalf("inverted range: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPatch, "/api/time-slots/9999", token, gin.H{"isBooked": false})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown slot: %d", w.Code)
	}
}

// ======================================================
// OWNERSHIP
// ======================================================

func TestOwnershipRules(t *testing.T) {
	r, db := setupAPI(t)
	seedAll(t, db)
	marco := barberByUsername(t, db, "marco")
	luca := barberByUsername(t, db, "luca")
	marcoToken := login(t, r, "marco@barbershop.com", "admin123")
	lucaToken := login(t, r, "luca@barbershop.com", "admin123")
	adminToken := login(t, r, "admin@barbershop.com", "admin123")
	clientToken, clientID := register(t, r, "anna", "anna@example.com")

	// A barber cannot block another barber's time.
	w := doJSON(t, r, http.MethodPost, "/api/time-slots", marcoToken, gin.H{
		"barberId":  luca.ID,
		"startTime": futureDay(15, 0).Format(time.RFC3339),
		"endTime":   futureDay(16, 0).Format(time.RFC3339),
		"isBooked":  true,
	})
	if w.Code != http.StatusForbidden || errorCode(t, w) != "access_denied" {
		t.Fatalf("cross-barber block: %d %s", w.Code, w.Body.String())
	}

	// Nor view another barber's reconciled schedule. Admins can.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/time-slots/schedule?barberId=%d&date=2030-05-20", luca.ID), marcoToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-barber schedule: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/time-slots/schedule?barberId=%d&date=2030-05-20", luca.ID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin schedule: %d %s", w.Code, w.Body.String())
	}

	// Clients cannot reach the staff slot routes at all.
	w = doJSON(t, r, http.MethodPost, "/api/time-slots", clientToken, gin.H{
		"barberId":  marco.ID,
		"startTime": futureDay(15, 0).Format(time.RFC3339),
		"endTime":   futureDay(16, 0).Format(time.RFC3339),
		"isBooked":  true,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("client block: %d", w.Code)
	}

	// Barbers cannot touch another barber's existing slot.
	w = doJSON(t, r, http.MethodPost, "/api/time-slots", lucaToken, gin.H{
		"barberId":  luca.ID,
		"startTime": futureDay(15, 0).Format(time.RFC3339),
		"endTime":   futureDay(16, 0).Format(time.RFC3339),
		"isBooked":  true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("luca block: %d %s", w.Code, w.Body.String())
	}
	var block models.TimeSlot
	decode(t, w, &block)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/time-slots/%d", block.ID), marcoToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-barber delete: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/time-slots/%d", block.ID), marcoToken, gin.H{"isBooked": false})
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-barber update: %d", w.Code)
	}

	// A client can only book for themselves.
	var svc models.Service
	if err := db.First(&svc).Error; err != nil {
		t.Fatal(err)
	}
	w = doJSON(t, r, http.MethodPost, "/api/appointments", clientToken, gin.H{
		"userId":    clientID + 100,
		"barberId":  marco.ID,
		"serviceId": svc.ID,
		"date":      futureDay(10, 0).Format(time.RFC3339),
	})
	if w.Code != http.StatusForbidden || errorCode(t, w) != "access_denied" {
		t.Fatalf("booking for someone else: %d %s", w.Code, w.Body.String())
	}
}

// ======================================================
// BOOKING
// ======================================================

func TestBookingRoundTrip(t *testing.T) {
	r, db := setupAPI(t)
	seedAll(t, db)
	luca := barberByUsername(t, db, "luca")
	clientToken, clientID := register(t, r, "anna", "anna@example.com")

	var svc models.Service
	if err := db.Where("name = ?", "Classic Haircut").First(&svc).Error; err != nil {
		t.Fatal(err)
	}

	start := futureDay(10, 0)
	w := doJSON(t, r, http.MethodPost, "/api/appointments", clientToken, gin.H{
		"userId":    clientID,
		"barberId":  luca.ID,
		"serviceId": svc.ID,
		"date":      start.Format(time.RFC3339),
		"notes":     "first visit",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}

	var created struct {
		ID      uint   `json:"id"`
		Status  string `json:"status"`
		Barber  struct {
			Name string `json:"name"`
		} `json:"barber"`
		Service struct {
			Name     string `json:"name"`
			Price    int    `json:"price"`
			Duration int    `json:"duration"`
		} `json:"service"`
	}
	decode(t, w, &created)
	if created.Status != "pending" {
		t.Fatalf("status = %q, want pending", created.Status)
	}
	if created.Barber.Name != "Luca Bianchi" {
		t.Fatalf("barber name = %q", created.Barber.Name)
	}
	if created.Service.Name != "Classic Haircut" || created.Service.Price != 2500 || created.Service.Duration != 30 {
		t.Fatalf("service = %+v", created.Service)
	}

	// The slot now shows as booked in the barber's schedule.
	lucaToken := login(t, r, "luca@barbershop.com", "admin123")
	view := scheduleView(t, r, lucaToken, luca.ID)
	if view["10:00"].Kind != "booked" {
		t.Fatalf("10:00 is %q, want booked", view["10:00"].Kind)
	}
	if len(view["10:00"].Appointment) == 0 || string(view["10:00"].Appointment) == "null" {
		t.Fatal("booked unit does not carry the appointment")
	}

	// Double booking the same range is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/appointments", clientToken, gin.H{
		"userId":    clientID,
		"barberId":  luca.ID,
		"serviceId": svc.ID,
		"date":      start.Add(15 * time.Minute).Format(time.RFC3339),
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "time_conflict" {
		t.Fatalf("double booking: %d %s", w.Code, w.Body.String())
	}

	// The client sees the appointment in their own list.
	w = doJSON(t, r, http.MethodGet, "/api/appointments", clientToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
	var list []json.RawMessage
	decode(t, w, &list)
	if len(list) != 1 {
		t.Fatalf("client sees %d appointments, want 1", len(list))
	}

	// Pending cannot jump straight to completed.
	patch := fmt.Sprintf("/api/appointments/%d", created.ID)
	w = doJSON(t, r, http.MethodPatch, patch, lucaToken, gin.H{"status": "completed"})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_status_transition" {
		t.Fatalf("pending->completed: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPatch, patch, lucaToken, gin.H{"status": "rescheduled"})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_status" {
		t.Fatalf("unknown status: %d %s", w.Code, w.Body.String())
	}

	// The barber confirms, then completes.
	w = doJSON(t, r, http.MethodPatch, patch, lucaToken, gin.H{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", w.Code, w.Body.String())
	}
	var updated struct {
		Status string `json:"status"`
	}
	decode(t, w, &updated)
	if updated.Status != "confirmed" {
		t.Fatalf("status = %q, want confirmed", updated.Status)
	}

	w = doJSON(t, r, http.MethodPatch, patch, lucaToken, gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", w.Code, w.Body.String())
	}
}
