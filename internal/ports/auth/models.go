package auth

// Claims representa la información extraída del token de sesión.
// UserID es la identidad del vet autenticado.
type Claims struct {
	UserID string
	Email  string
}
