package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/book"
	"bookcatalog/internal/borrow"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/lists"
	"bookcatalog/internal/user"
)

type routes struct {
	auth   *auth.HTTPHandler
	books  *book.HTTPHandler
	borrow *borrow.HTTPHandler
	lists  *lists.HTTPHandler
	tokens httpx.TokenParser
	// ready is nil when there is no backing database to probe.
	ready func(context.Context) error
}

func newRouter(ctx context.Context, cfg config.Config, log *slog.Logger, rt routes) http.Handler {
	router := http.NewServeMux()

	authed := httpx.AuthMiddleware(rt.tokens)
	protected := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return httpx.Chain(h, authed, httpx.RequireRole(user.RoleAdmin))
	}

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if rt.ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := rt.ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /api/auth/login", rt.auth.Login)
	router.Handle("GET /api/auth/me", protected(rt.auth.Me))

	router.HandleFunc("GET /api/books", rt.books.List)
	router.HandleFunc("GET /api/books/search", rt.books.Search)
	router.HandleFunc("GET /api/books/{id}", rt.books.GetByID)
	router.Handle("POST /api/books", admin(rt.books.Create))
	router.Handle("PUT /api/books/{id}", admin(rt.books.Update))
	router.Handle("DELETE /api/books/{id}", admin(rt.books.Delete))

	router.Handle("POST /api/books/{id}/borrow", protected(rt.borrow.Borrow))
	router.Handle("POST /api/books/{id}/return", protected(rt.borrow.Return))
	router.Handle("GET /api/books/{id}/history", protected(rt.borrow.BookHistory))

	router.Handle("GET /api/users/{userId}/borrowed", protected(rt.borrow.UserBorrowed))
	router.Handle("GET /api/users/{userId}/history", protected(rt.borrow.UserHistory))

	router.Handle("GET /api/users/{userId}/favorites", protected(rt.lists.GetFavorites))
	router.Handle("POST /api/users/{userId}/favorites/{bookId}", protected(rt.lists.AddFavorite))
	router.Handle("DELETE /api/users/{userId}/favorites/{bookId}", protected(rt.lists.RemoveFavorite))
	router.Handle("GET /api/users/{userId}/wishlist", protected(rt.lists.GetWishlist))
	router.Handle("POST /api/users/{userId}/wishlist/{bookId}", protected(rt.lists.AddToWishlist))
	router.Handle("DELETE /api/users/{userId}/wishlist/{bookId}", protected(rt.lists.RemoveFromWishlist))
	router.Handle("POST /api/users/{userId}/wishlist/{bookId}/move-to-favorites", protected(rt.lists.MoveToFavorites))

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}
