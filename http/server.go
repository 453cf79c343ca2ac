// Package http 提供HTTP服务器功能
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Addr    string
	Timeout time.Duration
	CORS    CORSPolicy
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:    "0.0.0.0:5000",
		Timeout: 30 * time.Second,
		CORS: CORSPolicy{
			Paths:            []string{"/predict"},
			FallbackAllowAll: true,
		},
	}
}

// NewHandler 构建带中间件链的路由
func NewHandler(config ServerConfig, api *API) http.Handler {
	mux := http.NewServeMux()
	api.RegisterHandlers(mux)

	chain := Chain(
		LoggerMiddleware(api.logger, api.metrics), // 1. 日志中间件（最外层，生成请求ID）
		RecoveryMiddleware(api.logger),            // 2. 恢复中间件（捕获panic）
		SecurityHeadersMiddleware,                 // 3. 安全头中间件
		CORSMiddleware(config.CORS),               // 4. CORS中间件
	)
	return chain(mux)
}

// NewServer 创建HTTP服务器
func NewServer(config ServerConfig, api *API) *Server {
	return &Server{
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           NewHandler(config, api),
			ReadHeaderTimeout: config.Timeout,
			IdleTimeout:       120 * time.Second,
		},
		config: config,
		logger: api.logger,
	}
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop 停止服务器
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Addr 返回服务器地址
func (s *Server) Addr() string {
	return s.server.Addr
}
