package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoomID(t *testing.T) {
	id, err := ParseRoomID("12")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	id, err = ParseRoomID(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)

	for _, raw := range []string{"abc", "", "-1", "0", "1.5"} {
		_, err := ParseRoomID(raw)
		assert.ErrorIs(t, err, ErrInvalidInput, "raw %q", raw)
	}
}

func TestIsActiveRecord(t *testing.T) {
	active := []map[string]interface{}{
		{"status": "active"},
		{"status": "ATIVA"},
		{"status": "Em_Andamento"},
		{"status": "checked_in"},
		{"status": "ongoing"},
		{"status": "completed", "isActive": true}, // flag alone is sufficient
		{"active": "true"},
	}
	for _, record := range active {
		assert.True(t, IsActiveRecord(record), "record %v", record)
	}

	inactive := []map[string]interface{}{
		{"status": "completed"},
		{"status": "cancelled"},
		{"status": "COMPLETED", "isActive": false},
		{},
	}
	for _, record := range inactive {
		assert.False(t, IsActiveRecord(record), "record %v", record)
	}
}

func TestPickCandidatePrefersActiveStatus(t *testing.T) {
	candidates := []map[string]interface{}{
		{"id": float64(1), "status": "completed", "checkedOutAt": "2025-12-01T10:00:00Z"},
		{"id": float64(2), "status": "ongoing"},
		{"id": float64(3), "status": "completed", "checkedOutAt": "2025-12-02T10:00:00Z"},
	}
	picked := pickCandidate(candidates)
	require.NotNil(t, picked)
	assert.Equal(t, float64(2), picked["id"])
}

func TestPickCandidateFallsBackToOpenRecordThenFirst(t *testing.T) {
	// No active status: the record without a close timestamp wins.
	candidates := []map[string]interface{}{
		{"id": float64(1), "status": "finished", "checkedOutAt": "2025-12-01T10:00:00Z"},
		{"id": float64(2), "status": "finished"},
	}
	picked := pickCandidate(candidates)
	require.NotNil(t, picked)
	assert.Equal(t, float64(2), picked["id"])

	// All closed: first record wins.
	candidates = []map[string]interface{}{
		{"id": float64(7), "status": "finished", "checkedOutAt": "2025-12-01T10:00:00Z"},
		{"id": float64(8), "status": "finished", "checkedOutAt": "2025-12-02T10:00:00Z"},
	}
	picked = pickCandidate(candidates)
	require.NotNil(t, picked)
	assert.Equal(t, float64(7), picked["id"])

	assert.Nil(t, pickCandidate(nil))
}

func TestResolveActivePrimaryLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/occupations/room/5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 9,
			"roomId": 5,
			"status": "ACTIVE",
			"responsible": "João Silva",
			"checkInDate": "2025-12-01T14:00:00Z",
			"roomRate": 150,
			"consumptions": [{"productId": 1, "name": "Soda 350ml", "quantity": 2, "unitPrice": 8.5, "totalPrice": 17}]
		}`))
	}))
	defer server.Close()

	resolver := NewOccupationResolver(NewBackendClient(server.URL))
	resolved, err := resolver.ResolveActive(context.Background(), 5)
	require.NoError(t, err)

	occ := resolved.Occupation
	assert.Equal(t, uint(9), occ.ID)
	assert.Equal(t, uint(5), occ.RoomID)
	assert.Equal(t, "João Silva", occ.Responsible)
	assert.Equal(t, 150.0, occ.RoomRate)
	require.NotNil(t, occ.CheckInDate)
	require.Len(t, occ.Consumptions, 1)
	assert.Equal(t, 17.0, occ.Consumptions[0].TotalPrice)
	assert.True(t, resolved.Active())
}

// envelopes the fallback list endpoint has been seen using.
var fallbackEnvelopes = map[string]string{
	"bare array":  `[%s]`,
	"items":       `{"items": [%s]}`,
	"results":     `{"results": [%s]}`,
	"data":        `{"data": [%s]}`,
	"occupations": `{"occupations": [%s]}`,
}

func TestResolveActiveFallbackEnvelopes(t *testing.T) {
	const records = `
		{"id": 1, "status": "completed", "checkedOutAt": "2025-12-01T10:00:00Z"},
		{"id": 2, "status": "ongoing", "responsavel": "Maria", "valorDiaria": 120},
		{"id": 3, "status": "completed", "checkedOutAt": "2025-12-02T10:00:00Z"}`

	for name, envelope := range fallbackEnvelopes {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/occupations/room/4":
					http.Error(w, `{"error":"not implemented"}`, http.StatusInternalServerError)
				case "/occupations":
					require.Equal(t, "4", r.URL.Query().Get("roomId"))
					w.Write([]byte(fmt.Sprintf(envelope, records)))
				default:
					http.NotFound(w, r)
				}
			}))
			defer server.Close()

			resolver := NewOccupationResolver(NewBackendClient(server.URL))
			resolved, err := resolver.ResolveActive(context.Background(), 4)
			require.NoError(t, err)
			assert.Equal(t, uint(2), resolved.Occupation.ID)
			assert.Equal(t, "Maria", resolved.Occupation.Responsible)
			assert.Equal(t, 120.0, resolved.Occupation.RoomRate)
			assert.True(t, resolved.Active())
		})
	}
}

func TestResolveActiveFallbackAfterUnusablePrimary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/occupations/room/2":
			// Decodes fine but carries no occupation content.
			w.Write([]byte(`{"success": true}`))
		case "/occupations":
			w.Write([]byte(`[{"id": 11, "status": "ocupado"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	resolver := NewOccupationResolver(NewBackendClient(server.URL))
	resolved, err := resolver.ResolveActive(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint(11), resolved.Occupation.ID)
}

func TestResolveActiveNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/occupations/room/9":
			http.Error(w, `{"error":"no active occupation"}`, http.StatusNotFound)
		case "/occupations":
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	resolver := NewOccupationResolver(NewBackendClient(server.URL))
	_, err := resolver.ResolveActive(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveActiveBackendDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	resolver := NewOccupationResolver(NewBackendClient(server.URL))
	_, err := resolver.ResolveActive(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	// Unreachable host surfaces the same class.
	server.Close()
	_, err = resolver.ResolveActive(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestResolveActiveWrappedPrimaryRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"occupation": {"id": 21, "status": "in_progress", "roomRate": 99}}`))
	}))
	defer server.Close()

	resolver := NewOccupationResolver(NewBackendClient(server.URL))
	resolved, err := resolver.ResolveActive(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(21), resolved.Occupation.ID)
	assert.Equal(t, 99.0, resolved.Occupation.RoomRate)
}

func TestResolveActiveRejectsZeroRoomID(t *testing.T) {
	resolver := NewOccupationResolver(NewBackendClient("http://127.0.0.1:1"))
	_, err := resolver.ResolveActive(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, errors.Is(err, ErrBackendUnavailable))
}
