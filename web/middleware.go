// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestLogger tags every request with an id, taken from X-Request-ID when
// the client sent one, and logs it once it completes.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		reqID := ctx.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		ctx.Set(requestIDKey, reqID)
		ctx.Header(requestIDHeader, reqID)

		ctx.Next()

		level := slog.LevelInfo
		if ctx.Writer.Status() >= 500 {
			level = slog.LevelError
		}

		attrs := []slog.Attr{
			slog.String("req_id", reqID),
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path),
			slog.Int("status", ctx.Writer.Status()),
			slog.Int("bytes_written", ctx.Writer.Size()),
			slog.Duration("latency", time.Since(start)),
			slog.String("remote_addr", ctx.ClientIP()),
		}

		if errs := ctx.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			attrs = append(attrs, slog.String("error", errs.String()))
		}

		logger.LogAttrs(ctx.Request.Context(), level, "request completed", attrs...)
	}
}
