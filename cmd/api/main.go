package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"dog-registry/internal/adapters/auth/idp"
	"dog-registry/internal/adapters/auth/jwtauth"
	"dog-registry/internal/platform/logger"
	"dog-registry/internal/ports/auth"
	"dog-registry/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: buildVerifier(log),
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

// buildVerifier elige el verifier según AUTH_MODE:
// - "jwt": HS256 local con AUTH_JWT_SECRET
// - "idp": introspección remota contra IDP_BASE_URL / IDP_API_KEY
// - otro/vacío: nil => modo dev (X-Debug-User-ID)
func buildVerifier(log logger.Logger) auth.AuthVerifier {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE"))) {
	case "jwt":
		v, err := jwtauth.NewVerifier(os.Getenv("AUTH_JWT_SECRET"))
		if err != nil {
			log.Error("jwt verifier misconfigured", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		return v
	case "idp":
		client, err := idp.NewClient(idp.Config{
			BaseURL: os.Getenv("IDP_BASE_URL"),
			APIKey:  os.Getenv("IDP_API_KEY"),
		})
		if err != nil {
			log.Error("idp client misconfigured", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		return idp.NewVerifier(client)
	default:
		log.Warn("auth verifier disabled (dev mode)", nil)
		return nil
	}
}
