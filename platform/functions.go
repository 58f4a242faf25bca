package platform

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// Names of the callable server functions this client consumes.
const (
	FnSearchAvailability = "buscar-disponibilidad"
	FnCreateReservation  = "crear-reserva"
	FnAdminPanel         = "admin-panel"
	FnGenerateReport     = "generar-reporte"
	FnSendNotification   = "enviar-notificacion"
)

// InvokeFunction POSTs payload to a named server function, authorized
// with the session token when one is active and the anon key
// otherwise. The raw response body is returned for the caller to
// decode; a non-2xx response becomes an error carrying the body's
// most specific message.
func (c *Client) InvokeFunction(ctx context.Context, name string, payload any) (json.RawMessage, error) {
	return c.invokeFunction(ctx, name, c.accessToken(), payload)
}

// InvokeFunctionAnon invokes a function with the public anon key
// regardless of the active session, matching how the admin-panel and
// report functions are called.
func (c *Client) InvokeFunctionAnon(ctx context.Context, name string, payload any) (json.RawMessage, error) {
	return c.invokeFunction(ctx, name, c.anonKey, payload)
}

func (c *Client) invokeFunction(ctx context.Context, name, token string, payload any) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/functions/v1/"+name, token, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	body, err := c.do(req, "function "+name+" failed")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
