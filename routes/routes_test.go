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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"frontdesk-backend/config"
	"frontdesk-backend/controllers"
	"frontdesk-backend/models"
	"frontdesk-backend/services"
)

// newTestServer stands up the full stack against an in-memory database. The
// checkout client points back at the server itself, the same wiring main.go
// defaults to when no external occupation API is configured.
func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.RoomType{},
		&models.Room{},
		&models.Product{},
		&models.Occupation{},
		&models.Consumption{},
	))
	config.DB = db

	// The engine needs the server URL and the server needs the engine, so the
	// handler dereferences the engine lazily.
	var engine *gin.Engine
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		engine.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	client := services.NewBackendClient(server.URL + "/api")
	occupationService := services.NewOccupationService(db)
	checkoutService := services.NewCheckoutService(client)
	engine = SetupRouter(
		controllers.NewOccupationController(occupationService),
		controllers.NewCheckoutController(checkoutService),
	)

	return server, db
}

func postJSON(t *testing.T, url string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestCheckoutFlow(t *testing.T) {
	server, db := newTestServer(t)

	room := models.Room{RoomNumber: "101", Status: models.StatusAvailable, DailyRate: 150, NightRate: 120}
	require.NoError(t, db.Create(&room).Error)
	product := models.Product{Name: "Soda 350ml", Price: 8.5}
	require.NoError(t, db.Create(&product).Error)

	// Check in 23 hours ago so finalize bills exactly one day.
	checkIn := time.Now().UTC().Add(-23 * time.Hour).Format(time.RFC3339)
	resp, body := postJSON(t, server.URL+"/api/checkin", gin.H{
		"roomId":      room.ID,
		"responsible": "João Silva",
		"checkInDate": checkIn,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	occupation, ok := body["occupation"].(map[string]interface{})
	require.True(t, ok)
	occupationID := occupation["id"].(float64)

	resp, _ = postJSON(t, fmt.Sprintf("%s/api/occupations/%.0f/consumptions", server.URL, occupationID), gin.H{
		"productId": product.ID,
		"quantity":  2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Preview goes through the occupation client loop back into this server.
	resp, preview := getJSON(t, fmt.Sprintf("%s/api/rooms/%d/checkout-preview", server.URL, room.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "João Silva", preview["responsible"])
	assert.Equal(t, 150.0, preview["roomRate"])
	assert.Equal(t, 17.0, preview["subtotalProducts"])
	assert.Equal(t, "23h 0min", preview["stayDuration"])

	resp, body = postJSON(t, fmt.Sprintf("%s/api/rooms/%d/checkout", server.URL, room.ID), gin.H{
		"serviceChargePercentage": 10,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	checkout, ok := body["checkout"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 150.0, checkout["accommodationCost"].(float64), 1e-9)
	assert.InDelta(t, 17.0, checkout["consumptionTotal"].(float64), 1e-9)
	assert.InDelta(t, 16.7, checkout["serviceCharge"].(float64), 1e-9)
	assert.InDelta(t, 183.7, checkout["total"].(float64), 1e-9)
	assert.Equal(t, models.OccupationCompleted, checkout["status"])

	var updated models.Room
	require.NoError(t, db.First(&updated, room.ID).Error)
	assert.Equal(t, models.StatusCleaning, updated.Status)

	// The occupation is terminal now; repeating the checkout must not charge
	// again.
	resp, _ = postJSON(t, fmt.Sprintf("%s/api/rooms/%d/checkout", server.URL, room.ID), gin.H{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCheckoutPreviewErrors(t *testing.T) {
	server, db := newTestServer(t)

	resp, _ := getJSON(t, server.URL+"/api/rooms/abc/checkout-preview")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	room := models.Room{RoomNumber: "102", Status: models.StatusAvailable, DailyRate: 250}
	require.NoError(t, db.Create(&room).Error)

	resp, _ = getJSON(t, fmt.Sprintf("%s/api/rooms/%d/checkout-preview", server.URL, room.ID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOccupationEndpoints(t *testing.T) {
	server, db := newTestServer(t)

	room := models.Room{RoomNumber: "103", Status: models.StatusAvailable, DailyRate: 400}
	require.NoError(t, db.Create(&room).Error)

	resp, body := postJSON(t, server.URL+"/api/checkin", gin.H{
		"roomId":      room.ID,
		"responsible": "Maria",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	// Primary by-room lookup returns the bare occupation object.
	resp, record := getJSON(t, fmt.Sprintf("%s/api/occupations/room/%d", server.URL, room.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Maria", record["responsible"])
	assert.Equal(t, models.OccupationActive, record["status"])

	// The list endpoint wraps in {"occupations": [...]}.
	resp, list := getJSON(t, fmt.Sprintf("%s/api/occupations?roomId=%d", server.URL, room.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	occupations, ok := list["occupations"].([]interface{})
	require.True(t, ok)
	assert.Len(t, occupations, 1)

	// Double check-in on the same room is a conflict.
	resp, _ = postJSON(t, server.URL+"/api/checkin", gin.H{
		"roomId":      room.ID,
		"responsible": "Carlos",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRoomsDashboard(t *testing.T) {
	server, db := newTestServer(t)

	room := models.Room{RoomNumber: "104", Status: models.StatusAvailable, DailyRate: 150}
	require.NoError(t, db.Create(&room).Error)

	resp, _ := postJSON(t, server.URL+"/api/checkin", gin.H{
		"roomId":      room.ID,
		"responsible": "Ana",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	httpResp, err := http.Get(server.URL + "/api/rooms")
	require.NoError(t, err)
	defer httpResp.Body.Close()
	require.Equal(t, http.StatusOK, httpResp.StatusCode)

	var views []map[string]interface{}
	require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, models.StatusOccupied, views[0]["status"])
	assert.Equal(t, "Ana", views[0]["responsible"])
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	resp, body := getJSON(t, server.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
