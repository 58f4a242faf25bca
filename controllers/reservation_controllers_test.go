package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgarhdzg/reservas-app/localstore"
	"github.com/edgarhdzg/reservas-app/platform"
	"github.com/edgarhdzg/reservas-app/services"
	"github.com/edgarhdzg/reservas-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

var storeSeq atomic.Int64

// testEnv wires a reservation controller against a fake platform.
type testEnv struct {
	router *gin.Engine
	auth   *services.AuthService
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", storeSeq.Add(1))
	store, err := localstore.Open(dsn)
	require.NoError(t, err)

	client, err := platform.New(platform.Config{URL: srv.URL, AnonKey: "anon-key"}, store)
	require.NoError(t, err)

	auth := services.NewAuthService(client)
	t.Cleanup(auth.Close)
	resSvc := services.NewReservationService(client)
	flow := services.NewReservationFlow(resSvc)
	ctrl := NewReservationController(flow, resSvc, auth)

	r := gin.New()
	r.POST("/reservations/availability", ctrl.CheckAvailability)
	r.POST("/reservations", ctrl.Create)
	r.POST("/reservations/:id/cancel", ctrl.Cancel)

	return &testEnv{router: r, auth: auth}
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(utils.DateLayout)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateBookingWindow(t *testing.T) {
	cases := []struct {
		name      string
		date      string
		partySize int
		wantErr   bool
	}{
		{"tomorrow", tomorrow(), 4, false},
		{"yesterday", time.Now().AddDate(0, 0, -1).Format(utils.DateLayout), 2, true},
		{"too far ahead", time.Now().AddDate(0, 0, 120).Format(utils.DateLayout), 2, true},
		{"zero guests", tomorrow(), 0, true},
		{"too many guests", tomorrow(), 13, true},
		{"max guests", tomorrow(), 12, false},
		{"garbage date", "01/09/2026", 2, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateBookingWindow(tc.date, tc.partySize)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBookingTime(t *testing.T) {
	// future dates carry no lead-time requirement
	assert.NoError(t, validateBookingTime(tomorrow(), "00:30"))

	// midnight today is always inside the lead-time window
	assert.Error(t, validateBookingTime(utils.Today(), "00:00"))

	assert.Error(t, validateBookingTime(utils.Today(), "veinte"))
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/functions/v1/buscar-disponibilidad", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"disponibles":[
			{"hora":"19:00","turno":"cena","mesas_disponibles":2},
			{"hora":"20:00","turno":"cena","mesas_disponibles":0}
		]}}`))
	})
	env := newTestEnv(t, mux)

	body := fmt.Sprintf(`{"fecha":%q,"numero_personas":4}`, tomorrow())
	w := doJSON(t, env.router, http.MethodPost, "/reservations/availability", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Date  string `json:"fecha"`
			Slots []struct {
				Time      string `json:"hora"`
				Available bool   `json:"disponible"`
			} `json:"disponibles"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	require.Len(t, resp.Data.Slots, 2)
	assert.True(t, resp.Data.Slots[0].Available)
	assert.False(t, resp.Data.Slots[1].Available)
}

func TestCheckAvailabilityRejectsPastDate(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())

	w := doJSON(t, env.router, http.MethodPost, "/reservations/availability",
		`{"fecha":"2020-01-01","numero_personas":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRejectsOversizedParty(t *testing.T) {
	platformHit := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { platformHit = true })
	env := newTestEnv(t, mux)

	body := fmt.Sprintf(`{
		"fecha":%q,"hora":"19:00","numero_personas":13,
		"nombre_cliente":"Ana","email_cliente":"ana@example.test","telefono_cliente":"5550001"
	}`, tomorrow())
	w := doJSON(t, env.router, http.MethodPost, "/reservations", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, platformHit, "validation must short-circuit before the platform")
}

func TestCreateGuestReservation(t *testing.T) {
	var gotPayload map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/functions/v1/crear-reserva", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(`{"data":{"id_reserva":1,"folio":"RES-2026-0001","estado":"pendiente"}}`))
	})
	env := newTestEnv(t, mux)

	body := fmt.Sprintf(`{
		"fecha":%q,"hora":"19:00","numero_personas":4,
		"nombre_cliente":"Ana","email_cliente":"ana@example.test","telefono_cliente":"5550001"
	}`, tomorrow())
	w := doJSON(t, env.router, http.MethodPost, "/reservations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// guest booking: no user id attached
	_, hasUser := gotPayload["id_usuario"]
	assert.False(t, hasUser)

	var resp struct {
		Data struct {
			Folio string `json:"folio"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RES-2026-0001", resp.Data.Folio)
}

func TestCancelAlreadyCancelledIsIdempotent(t *testing.T) {
	patched := false
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/reservas", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			patched = true
		}
		w.Write([]byte(`{"id_reserva":7,"estado":"cancelada","folio":"RES-2026-0007"}`))
	})
	env := newTestEnv(t, mux)

	w := doJSON(t, env.router, http.MethodPost, "/reservations/7/cancel", `{"motivo":"otra vez"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, patched, "an already-cancelled reservation must not be patched again")
	assert.Contains(t, w.Body.String(), "already cancelled")
}

func TestCancelSurfacesFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/v1/reservas", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"id_reserva":7,"estado":"pendiente"}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Row level security violation"}`))
	})
	env := newTestEnv(t, mux)

	w := doJSON(t, env.router, http.MethodPost, "/reservations/7/cancel", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
