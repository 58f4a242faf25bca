package utils

// errorMessages maps known backend message strings to the messages
// shown to the desk operator. Unmapped strings pass through verbatim.
var errorMessages = map[string]string{
	"Invalid login credentials":                "Credenciales de acceso inválidas",
	"Reservation not found":                    "Reservación no encontrada",
	"Time slot not available":                  "Horario no disponible",
	"User already registered":                  "El usuario ya está registrado",
	"Email already exists":                     "El correo electrónico ya está registrado",
	"Network request failed":                   "Error de conexión. Verifica tu conexión a internet.",
	"Invalid email":                            "Correo electrónico inválido",
	"Password should be at least 6 characters": "La contraseña debe tener al menos 6 caracteres",
}

const genericErrorMessage = "Error inesperado. Intenta nuevamente."

// ErrorMessage normalizes any raised value to an operator-facing
// message. Strings and errors are looked up in the known-message
// table; anything else yields the generic message.
func ErrorMessage(v interface{}) string {
	switch e := v.(type) {
	case string:
		if msg, ok := errorMessages[e]; ok {
			return msg
		}
		return e
	case error:
		if msg, ok := errorMessages[e.Error()]; ok {
			return msg
		}
		return e.Error()
	default:
		return genericErrorMessage
	}
}
