package httpapi

import "net/http"

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/health", handler.Health)
	mux.HandleFunc("GET /api/teams", handler.ListTeams)
	mux.HandleFunc("GET /api/standings", handler.ListStandings)
	mux.HandleFunc("GET /api/ranking", handler.GetRanking)
	mux.HandleFunc("GET /api/historico", handler.GetHistory)
	mux.HandleFunc("GET /api/apostadores", handler.ListParticipants)
	mux.HandleFunc("GET /api/apostadores/{participantID}", handler.GetParticipant)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /api/auth/login", handler.Login)
	mux.Handle("GET /api/auth/verify", RequireAuth(verifier, http.HandlerFunc(handler.VerifyToken)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, cronSecret string) {
	mux.Handle("POST /api/apostadores", RequireAuth(verifier, http.HandlerFunc(handler.CreateParticipant)))
	mux.Handle("PUT /api/apostadores/{participantID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateParticipant)))
	mux.Handle("DELETE /api/apostadores/{participantID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteParticipant)))
	mux.Handle("POST /api/apostadores/importar", RequireAuth(verifier, http.HandlerFunc(handler.ImportParticipants)))

	mux.Handle("POST /api/admin/sync", RequireAuth(verifier, http.HandlerFunc(handler.RunSync)))
	mux.Handle("GET /api/admin/config", RequireAuth(verifier, http.HandlerFunc(handler.GetConfig)))

	// External schedulers call this with ?token=<secret>; they cannot
	// carry an Authorization header.
	mux.Handle("GET /api/admin/cron/sync", RequireCronToken(cronSecret, http.HandlerFunc(handler.RunSync)))
	mux.Handle("POST /api/admin/cron/sync", RequireCronToken(cronSecret, http.HandlerFunc(handler.RunSync)))
}

func registerStaticRoutes(mux *http.ServeMux, badgesDir string) {
	if badgesDir == "" {
		return
	}
	mux.Handle("GET /static/badges/",
		http.StripPrefix("/static/badges/", http.FileServer(http.Dir(badgesDir))))
}
