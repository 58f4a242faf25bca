package main

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
	"github.com/edgarhdzg/reservas-app/router"
	"github.com/edgarhdzg/reservas-app/services"
	"github.com/edgarhdzg/reservas-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

var envSeq atomic.Int64

// fakePlatform serves the auth, rest and function endpoints the
// gateway talks to, with every profile carrying the given role.
func fakePlatform(t *testing.T, role string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		claims := jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"expires_in":   3600,
			"user": map[string]any{
				"id":    "user-1",
				"email": "operador@example.test",
				"user_metadata": map[string]any{
					"nombre": "Operador",
					"role":   role,
				},
			},
		})
	})

	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/rest/v1/usuarios", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id_usuario":"user-1","nombre":"Operador","rol":%q,"activo":true}`, role)
	})

	mux.HandleFunc("/rest/v1/reservas", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch:
			w.Write([]byte(`{"id_reserva":7,"folio":"RES-2026-0007","estado":"cancelada"}`))
		case strings.Contains(r.Header.Get("Accept"), "object"):
			w.Write([]byte(`{"id_reserva":7,"folio":"RES-2026-0007","estado":"pendiente"}`))
		default:
			w.Write([]byte(`[{"id_reserva":7,"folio":"RES-2026-0007","estado":"pendiente","id_usuario":"user-1"}]`))
		}
	})

	mux.HandleFunc("/functions/v1/buscar-disponibilidad", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"disponibles":[{"hora":"19:00","turno":"cena","mesas_disponibles":2}]}}`))
	})

	mux.HandleFunc("/functions/v1/crear-reserva", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		json.NewDecoder(r.Body).Decode(&in)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id_reserva":      7,
				"folio":           "RES-2026-0007",
				"estado":          "pendiente",
				"fecha":           in["fecha"],
				"hora":            in["hora"],
				"numero_personas": in["numero_personas"],
				"id_usuario":      in["id_usuario"],
			},
		})
	})

	mux.HandleFunc("/functions/v1/admin-panel", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"today":{"total_reservas":3,"total_personas":11},"weekly":{"total_reservas":20,"total_personas":74}}}`))
	})

	return mux
}

func newGateway(t *testing.T, role string) *gin.Engine {
	t.Helper()
	srv := httptest.NewServer(fakePlatform(t, role))
	t.Cleanup(srv.Close)

	dsn := fmt.Sprintf("file:gateway_test_%d?mode=memory&cache=shared", envSeq.Add(1))
	store, err := localstore.Open(dsn)
	require.NoError(t, err)

	client, err := platform.New(platform.Config{URL: srv.URL, AnonKey: "anon-key"}, store)
	require.NoError(t, err)

	auth := services.NewAuthService(client)
	t.Cleanup(auth.Close)
	reservations := services.NewReservationService(client)

	return router.SetupRouter(router.Deps{
		Auth:         auth,
		Reservations: reservations,
		Flow:         services.NewReservationFlow(reservations),
		Admin:        services.NewAdminService(client),
	})
}

func request(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bookingDate() string {
	return time.Now().AddDate(0, 0, 1).Format(utils.DateLayout)
}

func TestOperatorBookingFlow(t *testing.T) {
	r := newGateway(t, "cliente")

	// sign in
	w := request(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"operador@example.test","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// session is visible
	w = request(t, r, http.MethodGet, "/api/v1/auth/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id_usuario":"user-1"`)

	// availability for tomorrow
	w = request(t, r, http.MethodPost, "/api/v1/reservations/availability",
		fmt.Sprintf(`{"fecha":%q,"numero_personas":2}`, bookingDate()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"hora":"19:00"`)

	// create: the signed-in user owns the reservation
	w = request(t, r, http.MethodPost, "/api/v1/reservations", fmt.Sprintf(`{
		"fecha":%q,"hora":"19:00","numero_personas":2,
		"nombre_cliente":"Operador","email_cliente":"operador@example.test","telefono_cliente":"5550001"
	}`, bookingDate()))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"folio":"RES-2026-0007"`)
	assert.Contains(t, w.Body.String(), `"id_usuario":"user-1"`)

	// own reservations list
	w = request(t, r, http.MethodGet, "/api/v1/reservations/mine", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"folio":"RES-2026-0007"`)

	// cancel
	w = request(t, r, http.MethodPost, "/api/v1/reservations/7/cancel", `{"motivo":"cambio de planes"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"estado":"cancelada"`)

	// a customer session cannot reach the admin surface
	w = request(t, r, http.MethodGet, "/api/v1/admin/dashboard", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// sign out, then the gated surface rejects
	w = request(t, r, http.MethodPost, "/api/v1/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = request(t, r, http.MethodGet, "/api/v1/reservations/mine", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManagerReachesAdminSurface(t *testing.T) {
	r := newGateway(t, "gerente")

	w := request(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"gerente@example.test","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, r, http.MethodGet, "/api/v1/admin/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total_reservas":3`)
}

func TestWaiterGetsReadOnlyAdminAccess(t *testing.T) {
	r := newGateway(t, "mesero")

	w := request(t, r, http.MethodPost, "/api/v1/auth/login",
		`{"email":"mesero@example.test","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, r, http.MethodGet, "/api/v1/admin/dashboard", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodPatch, "/api/v1/admin/reservations/7", `{"estado":"confirmada"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminSurfaceRequiresSession(t *testing.T) {
	r := newGateway(t, "gerente")

	w := request(t, r, http.MethodGet, "/api/v1/admin/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestLookupByFolio(t *testing.T) {
	r := newGateway(t, "cliente")

	w := request(t, r, http.MethodGet, "/api/v1/reservations/folio/RES-2026-0007", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"folio":"RES-2026-0007"`)
}
