package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservas/internal/database"
	"reservas/internal/domain"
	"reservas/internal/ledger"
	"reservas/internal/middleware"
	"reservas/internal/modules/auth"
	"reservas/internal/modules/booking"
	"reservas/internal/modules/catalog"
	"reservas/internal/modules/events"
	jwtsvc "reservas/internal/pkg/jwt"
	"reservas/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testSuite struct {
	router *gin.Engine
	db     *gorm.DB
	roomID int64
}

type apiResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupSuite(t *testing.T) *testSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to open test database")

	models := []interface{}{
		&domain.Organization{},
		&domain.User{},
		&domain.Room{},
		&domain.Booking{},
		&domain.Event{},
		&domain.Attendee{},
	}
	for _, model := range models {
		require.NoError(t, db.AutoMigrate(model), fmt.Sprintf("failed to migrate %T", model))
	}

	org := &domain.Organization{Name: "Uni Tech", Slug: "uni-tech"}
	require.NoError(t, db.Create(org).Error)

	// weekday room, 08:00 to 22:00, 150 per hour
	room := &domain.Room{
		OrganizationID: org.ID,
		Name:           "Main Auditorium",
		Capacity:       120,
		Availability: domain.Availability{
			Days:      []int{1, 2, 3, 4, 5},
			StartTime: "08:00",
			EndTime:   "22:00",
		},
		PricePerHour: 150,
		IsActive:     true,
	}
	require.NoError(t, db.Create(room).Error)

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	eventRepo := repository.NewEventRepository(db)

	j := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	bookingLedger := ledger.New(bookingRepo, 2*time.Second)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	catalogHandler := catalog.NewHandler(catalog.NewService(roomRepo, bookingRepo))
	bookingService := booking.NewService(roomRepo, bookingLedger, bookingRepo, nil)
	bookingHandler := booking.NewHandler(bookingService)
	eventHandler := events.NewHandler(events.NewService(eventRepo, bookingService))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	eventHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.Auth(j))
	{
		catalogHandler.RegisterRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		eventHandler.RegisterRoutes(protected)
	}

	return &testSuite{router: r, db: db, roomID: room.ID}
}

func (s *testSuite) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "unparseable response: %s", w.Body.String())
	return &resp
}

// signup registers a fresh user and returns a login token.
func (s *testSuite) signup(t *testing.T, email string) string {
	t.Helper()
	w := s.request(t, "POST", "/api/v1/auth/register", map[string]interface{}{
		"name":            "Test User",
		"email":           email,
		"password":        "password123",
		"organization_id": 1,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(t, email)
}

func (s *testSuite) login(t *testing.T, email string) string {
	t.Helper()
	w := s.request(t, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := parse(t, w).Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *testSuite) promoteToAdmin(t *testing.T, email string) {
	t.Helper()
	err := s.db.Model(&domain.User{}).Where("email = ?", email).Update("role", domain.RoleAdmin).Error
	require.NoError(t, err)
}

// Monday 2027-01-04 is inside the seeded room's weekday hours.
func slot(day, hour int) time.Time {
	return time.Date(2027, time.January, day, hour, 0, 0, 0, time.UTC)
}

func TestRegistrationAndLogin(t *testing.T) {
	s := setupSuite(t)

	w := s.request(t, "POST", "/api/v1/auth/register", map[string]interface{}{
		"name":            "Ana",
		"email":           "ana@test.com",
		"password":        "password123",
		"organization_id": 1,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parse(t, w)
	assert.True(t, resp.Success)

	// duplicate email is rejected
	w = s.request(t, "POST", "/api/v1/auth/register", map[string]interface{}{
		"name":            "Ana Again",
		"email":           "ana@test.com",
		"password":        "password123",
		"organization_id": 1,
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", parse(t, w).Error.Code)

	// wrong password
	w = s.request(t, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "ana@test.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login(t, "ana@test.com")

	// the token opens protected routes
	w = s.request(t, "GET", "/api/v1/rooms", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	// and their absence closes them
	w = s.request(t, "GET", "/api/v1/rooms", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingLifecycle(t *testing.T) {
	s := setupSuite(t)
	alice := s.signup(t, "alice@test.com")
	bob := s.signup(t, "bob@test.com")

	// Monday 10:00 to 12:00
	w := s.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"room_id":    s.roomID,
		"start_time": slot(4, 10),
		"end_time":   slot(4, 12),
	}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parse(t, w)
	conf := resp.Data["confirmation"].(map[string]interface{})
	assert.Equal(t, 300.0, conf["total_price"])
	bookings := conf["bookings"].([]interface{})
	require.Len(t, bookings, 1)
	bookingID := int64(bookings[0].(map[string]interface{})["id"].(float64))

	// overlapping request loses
	w = s.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"room_id":    s.roomID,
		"start_time": slot(4, 11),
		"end_time":   slot(4, 13),
	}, bob)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "BOOKING_CONFLICT", parse(t, w).Error.Code)

	// Saturday is outside the room's days
	w = s.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"room_id":    s.roomID,
		"start_time": slot(9, 10),
		"end_time":   slot(9, 12),
	}, bob)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "AVAILABILITY_VIOLATION", parse(t, w).Error.Code)

	// only the owner may confirm
	w = s.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// cancelling again is an invalid transition
	w = s.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), nil, alice)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", parse(t, w).Error.Code)

	// the freed window can be rebooked
	w = s.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"room_id":    s.roomID,
		"start_time": slot(4, 10),
		"end_time":   slot(4, 12),
	}, bob)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRecurringBookingIsAtomic(t *testing.T) {
	s := setupSuite(t)
	alice := s.signup(t, "alice@test.com")
	bob := s.signup(t, "bob@test.com")

	// bob takes the third weekly occurrence in advance
	w := s.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"room_id":    s.roomID,
		"start_time": slot(18, 10),
		"end_time":   slot(18, 11),
	}, bob)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// alice requests 4 weekly occurrences starting Monday the 4th
	w = s.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"room_id":    s.roomID,
		"start_time": slot(4, 10),
		"end_time":   slot(4, 11),
		"recurrence": "weekly",
		"count":      4,
	}, alice)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "BOOKING_CONFLICT", parse(t, w).Error.Code)

	// none of alice's occurrences were committed
	var count int64
	require.NoError(t, s.db.Model(&domain.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRoomCatalogAndFreeSlots(t *testing.T) {
	s := setupSuite(t)
	alice := s.signup(t, "alice@test.com")

	w := s.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"room_id":    s.roomID,
		"start_time": slot(4, 10),
		"end_time":   slot(4, 12),
	}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.request(t, "GET", fmt.Sprintf("/api/v1/rooms/%d/availability?date=2027-01-04", s.roomID), nil, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	slots := parse(t, w).Data["free_slots"].([]interface{})
	require.Len(t, slots, 2, "expected the open hours split around the booking")

	first := slots[0].(map[string]interface{})
	second := slots[1].(map[string]interface{})
	assert.Contains(t, first["start"], "08:00")
	assert.Contains(t, first["end"], "10:00")
	assert.Contains(t, second["start"], "12:00")
	assert.Contains(t, second["end"], "22:00")

	// a closed day has no slots
	w = s.request(t, "GET", fmt.Sprintf("/api/v1/rooms/%d/availability?date=2027-01-09", s.roomID), nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, parse(t, w).Data["free_slots"])
}

func TestRoomManagementRequiresAdmin(t *testing.T) {
	s := setupSuite(t)
	alice := s.signup(t, "alice@test.com")

	newRoom := map[string]interface{}{
		"name":     "Workshop Lab",
		"capacity": 20,
		"availability": map[string]interface{}{
			"days":       []int{1, 2, 3, 4, 5},
			"start_time": "09:00",
			"end_time":   "18:00",
		},
		"price_per_hour": 75,
	}

	w := s.request(t, "POST", "/api/v1/rooms", newRoom, alice)
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.promoteToAdmin(t, "alice@test.com")
	admin := s.login(t, "alice@test.com")

	w = s.request(t, "POST", "/api/v1/rooms", newRoom, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := parse(t, w).Data["room"].(map[string]interface{})
	assert.Equal(t, "Workshop Lab", created["name"])
	assert.Equal(t, true, created["is_active"])
}

func TestPublicEventFlow(t *testing.T) {
	s := setupSuite(t)
	organizer := s.signup(t, "organizer@test.com")

	w := s.request(t, "POST", "/api/v1/events", map[string]interface{}{
		"title":         "Go Workshop",
		"description":   "Intro to concurrency",
		"room_id":       s.roomID,
		"start_time":    slot(4, 14),
		"end_time":      slot(4, 17),
		"is_public":     true,
		"max_attendees": 2,
	}, organizer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parse(t, w)
	event := resp.Data["event"].(map[string]interface{})
	eventID := int64(event["id"].(float64))
	publicLink := event["public_link"].(string)
	require.NotEmpty(t, publicLink)
	assert.Equal(t, 450.0, event["price"])

	// the event's booking holds the room
	w = s.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"room_id":    s.roomID,
		"start_time": slot(4, 15),
		"end_time":   slot(4, 16),
	}, organizer)
	assert.Equal(t, http.StatusConflict, w.Code)

	// anonymous visitors see it and can register
	w = s.request(t, "GET", "/api/v1/events/public", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	listed := parse(t, w).Data["events"].([]interface{})
	require.Len(t, listed, 1)

	w = s.request(t, "GET", "/api/v1/events/public/"+publicLink, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	register := func(name, email string) *httptest.ResponseRecorder {
		return s.request(t, "POST", fmt.Sprintf("/api/v1/events/%d/register", eventID), map[string]interface{}{
			"name":  name,
			"email": email,
		}, "")
	}

	w = register("Carol", "carol@test.com")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// same email twice
	w = register("Carol", "carol@test.com")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_REGISTERED", parse(t, w).Error.Code)

	// capacity cap
	w = register("Dave", "dave@test.com")
	require.Equal(t, http.StatusCreated, w.Code)
	w = register("Eve", "eve@test.com")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EVENT_FULL", parse(t, w).Error.Code)
}
